package inspection

import (
	"errors"
	"fmt"
)

var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrTemplateNotFound   = errors.New("inspection template not found")
	ErrInspectionNotFound = errors.New("inspection not found")

	// ErrInvalidStateTransition signals a workflow misuse, such as approving
	// or closing an already-closed record.
	ErrInvalidStateTransition = errors.New("invalid inspection state transition")
)

// ValidationError reports a missing or malformed submission field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
