package errors

import (
	"errors"
	"fmt"

	"campodigital/domain/shared"
)

// ErrorCode classifies an AppError for callers that branch on failure kind.
type ErrorCode string

const (
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeConnection   ErrorCode = "CONNECTION_ERROR"
	CodeQuery        ErrorCode = "QUERY_ERROR"
	CodeTimeout      ErrorCode = "TIMEOUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidState ErrorCode = "INVALID_STATE"
)

// AppError is the error surfaced by the application and infrastructure layers.
type AppError struct {
	Code      ErrorCode
	Op        string // e.g. "order.Save", "session.Exec"
	Message   string
	Err       error
	Retryable bool
}

func (e *AppError) Error() string {
	prefix := string(e.Code)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError without a cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a code and message to err.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithOp returns a copy of e tagged with the failing operation.
func (e *AppError) WithOp(op string) *AppError {
	c := *e
	c.Op = op
	return &c
}

// ConnectionError reports that the store could not be reached or rejected the session.
func ConnectionError(err error, message string) *AppError {
	return Wrap(err, CodeConnection, message)
}

// QueryError reports a failed statement.
func QueryError(op string, err error) *AppError {
	return &AppError{Code: CodeQuery, Op: op, Message: "query failed", Err: err}
}

// TimeoutError reports a statement or transaction that exceeded its deadline. Always retryable.
func TimeoutError(op string, err error) *AppError {
	return &AppError{Code: CodeTimeout, Op: op, Message: "deadline exceeded", Err: err, Retryable: true}
}

// RetryableQueryError reports a transient store failure such as a deadlock.
func RetryableQueryError(op string, err error) *AppError {
	return &AppError{Code: CodeQuery, Op: op, Message: "transient failure", Err: err, Retryable: true}
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsRetryable reports whether any AppError in the chain is marked retryable,
// or the chain carries a concurrent modification.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Retryable {
		return true
	}
	return errors.Is(err, shared.ErrConcurrentModification)
}

// AsAppError returns the AppError in the chain, mapping domain errors when there is none.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return MapDomainError(err)
}

// MapDomainError converts domain sentinels into application error codes.
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrConcurrentModification):
		return &AppError{Code: CodeConflict, Message: msg, Err: err, Retryable: true}
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, msg)
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrInvalidState):
		return Wrap(err, CodeInvalidState, msg)
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, msg)
	default:
		return Wrap(err, CodeInternal, msg)
	}
}
