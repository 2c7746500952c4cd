package ports

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for backend errors.
// Adapters classify protocol-level failures into these categories so the
// gateway never inspects raw messages.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorOutage         ErrorCategory = "outage"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorNotFound       ErrorCategory = "not_found"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorInternal       ErrorCategory = "internal"
)

// BackendError wraps a backend failure with its category.
type BackendError struct {
	Category   ErrorCategory
	Backend    string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *BackendError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("backend %s [%s]: %s: %v", e.Backend, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("backend %s [%s]: %s", e.Backend, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *BackendError) Unwrap() error {
	return e.Underlying
}

// NewBackendError creates a categorized backend error.
func NewBackendError(category ErrorCategory, backend, message string, underlying error) *BackendError {
	return &BackendError{
		Category:   category,
		Backend:    backend,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the category from err, or ErrorInternal when err is not
// a BackendError.
func CategoryOf(err error) ErrorCategory {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Category
	}
	return ErrorInternal
}
