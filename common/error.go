package common

import (
	"errors"
	"fmt"
)

// Sentinel errors used by the storage and ledger layers. Services translate
// them into APIErrors before they reach a handler.
var (
	// ErrInvalidTransition is returned when a write would move a job out of a
	// terminal state (completed -> failed or the reverse).
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrQuotaExceeded is returned when a consume would push a period's usage
	// past its quota ceiling.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrNotFound is returned when a record is absent or not owned by the caller.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden is returned when a caller touches a usage counter whose
	// recorded owner is someone else.
	ErrForbidden = errors.New("not the owner")
)

type APIError struct {
	Status  int            `json:"-"`
	Message string         `json:"error"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

func Errf(status int, format string, args ...any) APIError {
	return APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NewAPIError creates an APIError with status, message, and optional fields
func NewAPIError(status int, message string, fields map[string]any) APIError {
	return APIError{
		Status:  status,
		Message: message,
		Fields:  fields,
	}
}
