// Package auth implements access control for the production tracker: an
// explicit session holding at most one authenticated employee, plus the
// permission check every gated domain operation runs before mutating.
package auth

import (
	"fmt"

	e "github.com/lmonteiro/aerofab/internal/production/errors"
	"github.com/lmonteiro/aerofab/internal/production/models"
	"go.uber.org/zap"
)

// Directory resolves login usernames to employee records. The store
// satisfies it.
type Directory interface {
	EmployeeByUsername(username string) (*models.Employee, error)
}

// Session holds the currently authenticated employee, if any. It is a
// value owned by the caller, passed into each domain operation, never
// process-global state. Session state is never persisted.
type Session struct {
	current *models.Employee
	logger  *zap.Logger
}

// NewSession returns an unauthenticated session.
func NewSession(logger *zap.Logger) *Session {
	return &Session{logger: logger.Named("auth")}
}

// Login scans the directory for an exact match on username and password
// and sets the session. Passwords are stored and compared in plaintext;
// a known weakness of the tool, kept as documented behavior. A failed
// login leaves the session untouched and returns ErrInvalidCredentials.
func (s *Session) Login(dir Directory, username, password string) (*models.Employee, error) {
	emp, err := dir.EmployeeByUsername(username)
	if err != nil || emp.Password != password {
		s.logger.Info("login failed", zap.String("username", username))
		return nil, e.ErrInvalidCredentials
	}
	s.current = emp
	s.logger.Info("login succeeded",
		zap.String("username", username),
		zap.String("level", string(emp.Level)),
	)
	return emp, nil
}

// Logout clears the session unconditionally.
func (s *Session) Logout() {
	s.current = nil
}

// Current returns the authenticated employee, or nil.
func (s *Session) Current() *models.Employee {
	return s.current
}

// Authenticated reports whether an employee is logged in.
func (s *Session) Authenticated() bool {
	return s.current != nil
}

// Require checks that an employee is logged in and that their permission
// level is in the allow-list. It returns ErrAuthRequired with no session
// and ErrPermissionDenied for an insufficient level.
func (s *Session) Require(levels ...models.PermissionLevel) error {
	if s.current == nil {
		return e.ErrAuthRequired
	}
	for _, l := range levels {
		if s.current.Level == l {
			return nil
		}
	}
	return fmt.Errorf("%w: level %s", e.ErrPermissionDenied, s.current.Level)
}
