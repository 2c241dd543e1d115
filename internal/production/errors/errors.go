// Package errors defines the sentinel error kinds raised by the production
// domain operations. Callers match them with errors.Is; the CLI shell maps
// each kind to a user-facing message.
package errors

import (
	"fmt"
)

var (
	// Access control.
	ErrAuthRequired       = fmt.Errorf("authentication required")
	ErrPermissionDenied   = fmt.Errorf("permission denied")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Lookups, specialized per entity.
	ErrEmployeeNotFound = fmt.Errorf("employee not found")
	ErrAircraftNotFound = fmt.Errorf("aircraft not found")
	ErrPartNotFound     = fmt.Errorf("part not found")
	ErrStageNotFound    = fmt.Errorf("stage not found")
	ErrTestNotFound     = fmt.Errorf("test not found")

	// Workflow violations.
	ErrDuplicateCode            = fmt.Errorf("duplicate aircraft code")
	ErrPrecedingStageIncomplete = fmt.Errorf("preceding stage incomplete")
	ErrStageNotInProgress       = fmt.Errorf("stage not in progress")
	ErrPartAlreadyReady         = fmt.Errorf("part already ready")

	ErrInvalidInput = fmt.Errorf("invalid input")
)
