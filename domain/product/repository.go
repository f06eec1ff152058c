package product

import (
	"context"

	"campodigital/domain/shared"
)

type Repository interface {
	// Save inserts a listing and assigns its id. An unknown owner is a not-found error.
	Save(ctx context.Context, p *Product) error

	// FindByID returns the listing joined with its seller, or a not-found error.
	FindByID(ctx context.Context, id uint64) (*View, error)

	// FindBySpecification lists matching listings joined with their sellers, newest first.
	FindBySpecification(ctx context.Context, spec shared.Specification) ([]*View, error)

	Update(ctx context.Context, id uint64, patch Patch) error

	// Delete removes the listing and its images. Listings referenced by orders
	// cannot be deleted (ErrProductInUse).
	Delete(ctx context.Context, id uint64) error

	// AddImage stores an image and assigns its id. A primary image demotes any
	// previous primary image of the same product.
	AddImage(ctx context.Context, img *Image) error

	// Images lists a product's images, primary first.
	Images(ctx context.Context, productID uint64) ([]Image, error)

	// Exists reports whether the product row is present.
	Exists(ctx context.Context, id uint64) (bool, error)
}
