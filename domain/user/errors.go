package user

import (
	"fmt"
	"strconv"

	"campodigital/domain/shared"
)

var (
	ErrInvalidEmail       = fmt.Errorf("invalid email format: %w", shared.ErrInvalidInput)
	ErrInvalidName        = fmt.Errorf("name cannot be empty: %w", shared.ErrInvalidInput)
	ErrInvalidRole        = fmt.Errorf("unknown user role: %w", shared.ErrInvalidInput)
	ErrInvalidLocation    = fmt.Errorf("invalid location: %w", shared.ErrInvalidInput)
	ErrEmptyPassword      = fmt.Errorf("password cannot be empty: %w", shared.ErrInvalidInput)
	ErrEmptyPatch         = fmt.Errorf("user patch has no fields: %w", shared.ErrInvalidInput)
	ErrEmailAlreadyExists = fmt.Errorf("email already exists: %w", shared.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", shared.ErrForbidden)
)

func NewUserNotFoundError(userID uint64) error {
	return &userDomainError{
		sentinel: shared.ErrNotFound,
		field:    "id",
		message:  "user not found: " + strconv.FormatUint(userID, 10),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinel: ErrInvalidEmail,
		field:    "email",
		message:  "invalid email format: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidNameError() error {
	return &userDomainError{
		sentinel: ErrInvalidName,
		field:    "name",
		message:  "name cannot be empty",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidRoleError(role string) error {
	return &userDomainError{
		sentinel: ErrInvalidRole,
		field:    "role",
		message:  fmt.Sprintf("unknown user role %q", role),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidLocationError(reason string) error {
	return &userDomainError{
		sentinel: ErrInvalidLocation,
		field:    "location",
		message:  "invalid location: " + reason,
		stack:    shared.CaptureStack(3),
	}
}

func NewEmailAlreadyExistsError(email string) error {
	return &userDomainError{
		sentinel: ErrEmailAlreadyExists,
		field:    "email",
		message:  "email already exists: " + email,
		stack:    shared.CaptureStack(3),
	}
}

type userDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *userDomainError) Error() string   { return e.message }
func (e *userDomainError) Unwrap() error   { return e.sentinel }
func (e *userDomainError) Stack() []string { return shared.FormatStack(e.stack) }
func (e *userDomainError) Field() string   { return e.field }
