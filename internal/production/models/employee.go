// Package models defines the core domain entities of the production tracker:
// Employee, Aircraft and its owned Part, Stage and Test records, together with
// their enumerations and the parse functions the command shell uses to coerce
// free-text input.
package models

import (
	"strings"
)

// PermissionLevel gates which domain operations an authenticated employee
// may invoke.
type PermissionLevel string

const (
	// LevelAdmin may invoke every operation, including employee deletion.
	LevelAdmin    PermissionLevel = "ADMIN"
	LevelEngineer PermissionLevel = "ENGINEER"
	LevelOperator PermissionLevel = "OPERATOR"
)

// IsValid reports whether l is a recognised permission level.
func (l PermissionLevel) IsValid() bool {
	switch l {
	case LevelAdmin, LevelEngineer, LevelOperator:
		return true
	default:
		return false
	}
}

// ParsePermissionLevel coerces free-text input into a PermissionLevel,
// case-insensitively. Unrecognised input falls back to OPERATOR; that
// downgrade is the designed behavior, not an error.
func ParsePermissionLevel(s string) PermissionLevel {
	switch PermissionLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelAdmin:
		return LevelAdmin
	case LevelEngineer:
		return LevelEngineer
	default:
		return LevelOperator
	}
}

// Employee is a registered factory worker. Records are created and deleted
// whole; no operation mutates an existing employee.
type Employee struct {
	// ID is the unique identifier, generated at creation time.
	ID string `json:"id"`
	// Name is the employee's full name.
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	// Username identifies the employee at login.
	Username string `json:"username"`
	// Password is stored and compared in plaintext. Known weakness,
	// kept as documented behavior of the tool.
	Password string `json:"password"`
	// Level gates which operations the employee may invoke once logged in.
	Level PermissionLevel `json:"level"`
}
