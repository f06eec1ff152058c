package order

import (
	"context"

	"campodigital/domain/shared"
)

type Repository interface {
	// Save inserts a new order with all its details, or persists the status,
	// payment status, total and added details of a loaded one. The update is a
	// compare-and-set on the loaded statuses; losing it yields ErrConcurrentModification.
	Save(ctx context.Context, order *Order) error

	// FindByID loads the aggregate with its details, or a not-found error.
	FindByID(ctx context.Context, id uint64) (*Order, error)

	// FindViewByID returns the joined header view, or a not-found error.
	FindViewByID(ctx context.Context, id uint64) (*View, error)

	// FindDetails returns joined detail rows ordered by detail id.
	FindDetails(ctx context.Context, orderID uint64) ([]DetailView, error)

	// FindBySpecification lists orders newest first.
	FindBySpecification(ctx context.Context, spec shared.Specification) ([]*Order, error)

	// ListByBuyer and ListBySeller return newest first with the counterpart's name.
	ListByBuyer(ctx context.Context, buyerID uint64) ([]Summary, error)
	ListBySeller(ctx context.Context, sellerID uint64) ([]Summary, error)
}
