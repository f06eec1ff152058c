package review

import "context"

type Repository interface {
	// Save inserts a review and assigns its id. Unknown users, orders or
	// products are not-found errors.
	Save(ctx context.Context, r *Review) error

	// FindByProduct and FindByReviewed return newest first.
	FindByProduct(ctx context.Context, productID uint64) ([]View, error)
	FindByReviewed(ctx context.Context, userID uint64) ([]View, error)

	// AverageRating is 0 when the target has no reviews.
	AverageRating(ctx context.Context, target Target) (float64, error)
}
