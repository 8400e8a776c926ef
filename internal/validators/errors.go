package validators

import (
	"errors"
	"strings"
)

// ErrUnsupportedType is returned by a [Validator] for values it does not know.
var ErrUnsupportedType = errors.New("unsupported type for validation")

// Client-facing validation messages.
const (
	MsgMissingFields        = "Missing required fields"
	MsgInvalidEmail         = "Invalid email format"
	MsgInvalidRole          = "Invalid role"
	MsgInvalidWorkerType    = "Invalid worker type"
	MsgWeakPassword         = "Password does not meet requirements"
	MsgPasswordRequired     = "Password is required when auto_generate_password is false"
	MsgPasswordChangeFields = "Current password and new password are required"
	MsgNoFieldsToUpdate     = "No fields to update"
	MsgEmptyField           = "Fields cannot be empty"
)

// ValidationError describes input the caller can fix and resubmit. Message is
// safe to show to clients; Details lists individual problems, for example
// every failed password rule.
type ValidationError struct {
	Message string
	Details []string
}

// NewValidationError constructs a [ValidationError].
func NewValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}
