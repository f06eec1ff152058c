/*
Package shared holds the building blocks every bounded context uses:
sentinel errors, DomainError, aggregate and event contracts, the unit of
work port, specifications and the money/quantity value objects.

Sentinels are matched with errors.Is. A DomainError captures the call
stack when it is created and formats it only when Stack is called.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrInvalidState means the entity exists but its current state forbids the operation.
	ErrInvalidState = errors.New("invalid state")

	// ErrConcurrentModification means a compare-and-set lost against another writer.
	// Callers may retry the whole unit of work.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// DomainError carries business context plus the stack of its creation point.
type DomainError struct {
	Err     error
	Entity  string // "order", "user", ...
	Message string
	Field   string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack skips `skip` frames (Callers, CaptureStack, the constructor).
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack drops runtime frames and keeps at most 11.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf("%s.%s: %s", entity, field, reason),
		stack:   CaptureStack(3),
	}
}

func NewInvalidStateError(entity, message string) error {
	return &DomainError{
		Err:     ErrInvalidState,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that can report where they were created.
type Stacker interface {
	Stack() []string
}
