package order

import (
	"context"

	"campodigital/domain/product"
	"campodigital/domain/user"
)

// userDirectoryAdapter adapts user.Repository to order.UserDirectory.
type userDirectoryAdapter struct {
	userRepo user.Repository
}

func (a *userDirectoryAdapter) UserExists(ctx context.Context, userID uint64) (bool, error) {
	return a.userRepo.Exists(ctx, userID)
}

// productCatalogAdapter adapts product.Repository to order.ProductCatalog.
type productCatalogAdapter struct {
	productRepo product.Repository
}

func (a *productCatalogAdapter) ProductExists(ctx context.Context, productID uint64) (bool, error) {
	return a.productRepo.Exists(ctx, productID)
}
