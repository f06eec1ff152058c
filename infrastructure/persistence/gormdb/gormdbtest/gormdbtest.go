// Package gormdbtest opens migrated in-memory SQLite sessions for tests.
package gormdbtest

import (
	"context"
	"fmt"
	"testing"

	"campodigital/config"
	"campodigital/domain/product"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Config is an in-memory SQLite database section with retries kept short.
func Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:   gormdb.DriverSQLite,
		Path:     ":memory:",
		LogLevel: "silent",
		Retry: config.RetryConfig{
			Enabled:                       true,
			MaxAttempts:                   3,
			BackoffFactor:                 2,
			RetryOnConcurrentModification: true,
			RetryOnDeadlock:               true,
			RetryOnLockTimeout:            true,
			RetryOnTimeout:                true,
		},
	}
}

// New returns a migrated session closed at test cleanup.
func New(t testing.TB) *gormdb.Session {
	t.Helper()
	ctx := context.Background()
	s, err := gormdb.Connect(ctx, Config())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, gormdb.Migrate(ctx, s))
	return s
}

// SeedUser stores an account and returns its id.
func SeedUser(t testing.TB, s *gormdb.Session, name string, role user.Role) uint64 {
	t.Helper()
	u, err := user.NewUser(user.Registration{
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderplacehol",
		Name:         name,
		Phone:        "3001234567",
		Role:         string(role),
	})
	require.NoError(t, err)
	require.NoError(t, gormdb.NewUserRepository(s).Save(context.Background(), u))
	return u.ID()
}

// SeedProduct stores an available listing and returns its id.
func SeedProduct(t testing.TB, s *gormdb.Session, ownerID uint64, name, price, quantity string) uint64 {
	t.Helper()
	p, err := product.NewProduct(product.Listing{
		OwnerID:  ownerID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(quantity),
		Unit:     "kg",
		Category: "tuberculos",
	})
	require.NoError(t, err)
	require.NoError(t, gormdb.NewProductRepository(s).Save(context.Background(), p))
	return p.ID()
}
