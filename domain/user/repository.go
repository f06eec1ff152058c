package user

import (
	"context"

	"campodigital/domain/shared"
)

// Repository persists accounts. Lookups by key return a not-found error when
// the row is absent; FindByEmail returns nil, nil instead.
type Repository interface {
	// Save inserts a new account and assigns its id. A duplicate email is a conflict.
	Save(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id uint64) (*User, error)

	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindBySpecification lists matching accounts, newest first.
	FindBySpecification(ctx context.Context, spec shared.Specification) ([]*User, error)

	// Update applies a validated patch. Missing rows yield a not-found error.
	Update(ctx context.Context, id uint64, patch Patch) error

	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error

	Exists(ctx context.Context, id uint64) (bool, error)
}
