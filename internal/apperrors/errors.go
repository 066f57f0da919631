package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrEmptyGroup indicates that a submission was attempted for a master id
// with no staged legs.
var ErrEmptyGroup = errors.New("no staged legs for master id")

// ErrRemoteUnreachable indicates that no response was obtained from the
// remote ledger. Submissions failing with this error are deferred, never lost.
var ErrRemoteUnreachable = errors.New("remote ledger unreachable")

// ErrUnauthorized indicates an ambiguous auth state (e.g. 401 on delete).
// Local data must not be mutated when this is returned.
var ErrUnauthorized = errors.New("unauthorized against remote ledger")

// ErrConflict indicates that an operation conflicts with current state, such
// as a concurrent submission of the same master id.
var ErrConflict = errors.New("conflicting operation in progress")

// AppError wraps a lower-level failure with a status-like code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsNetworkError classifies transport-level failures that should be treated
// as "remote unreachable": connection refused, DNS failure, timeouts, or a
// context deadline expiring before the client gave up. Anything already
// tagged ErrRemoteUnreachable passes too.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRemoteUnreachable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
