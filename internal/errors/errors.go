// Package errors defines the failure kinds that reach the top of the
// resolution pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes.
type ErrorCode string

const (
	// EmptySelection indicates no module name could be derived, even after
	// widening to the full document.
	EmptySelection ErrorCode = "EMPTY_SELECTION"
	// NoRepositoryFound indicates every resolution strategy was exhausted.
	NoRepositoryFound ErrorCode = "NO_REPOSITORY_FOUND"
	// InvalidProjectURL indicates a repository URL was found but could not be
	// normalized into an http URL.
	InvalidProjectURL ErrorCode = "INVALID_PROJECT_URL"
	// NetworkError indicates a transport-level registry failure.
	NetworkError ErrorCode = "NETWORK_ERROR"
	// ConfigInvalid indicates the configuration file failed validation.
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error.
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// PkgsrcError carries a code, a user-facing message and an optional cause.
type PkgsrcError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a PkgsrcError without a cause.
func New(code ErrorCode, message string) *PkgsrcError {
	return &PkgsrcError{Code: code, Message: message}
}

// Wrap creates a PkgsrcError around cause.
func Wrap(code ErrorCode, message string, cause error) *PkgsrcError {
	return &PkgsrcError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *PkgsrcError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PkgsrcError) Unwrap() error {
	return e.cause
}

// Is matches another *PkgsrcError by code, so sentinel comparisons like
// errors.Is(err, errors.New(NoRepositoryFound, "")) work.
func (e *PkgsrcError) Is(target error) bool {
	t, ok := target.(*PkgsrcError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails adds details to the error.
func (e *PkgsrcError) WithDetails(details interface{}) *PkgsrcError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first PkgsrcError in err's chain, or
// InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var pe *PkgsrcError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return InternalError
}

// IsCode reports whether err's chain contains a PkgsrcError with code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// Constructors for the pipeline's failure kinds.

func NewEmptySelection() *PkgsrcError {
	return New(EmptySelection, "No selection")
}

func NewNoRepositoryFound(name string) *PkgsrcError {
	return New(NoRepositoryFound, fmt.Sprintf("No repository found for %s", name)).WithDetails(map[string]string{"module": name})
}

func NewInvalidProjectURL(name, raw string) *PkgsrcError {
	return New(InvalidProjectURL, fmt.Sprintf("Invalid project url %q for %s", raw, name)).WithDetails(map[string]string{"module": name, "url": raw})
}

func NewNetworkError(name string, cause error) *PkgsrcError {
	return Wrap(NetworkError, fmt.Sprintf("Registry request for %s failed", name), cause)
}
