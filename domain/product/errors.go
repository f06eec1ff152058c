/*
Package product models listings offered by producers.
*/
package product

import (
	"fmt"
	"strconv"

	"campodigital/domain/shared"
)

var (
	ErrInvalidName     = fmt.Errorf("product name cannot be empty: %w", shared.ErrInvalidInput)
	ErrInvalidPrice    = fmt.Errorf("price must not be negative: %w", shared.ErrInvalidInput)
	ErrInvalidQuantity = fmt.Errorf("quantity must not be negative: %w", shared.ErrInvalidInput)
	ErrInvalidStatus   = fmt.Errorf("unknown product status: %w", shared.ErrInvalidInput)
	ErrInvalidOwner    = fmt.Errorf("product owner is required: %w", shared.ErrInvalidInput)
	ErrInvalidImageURL = fmt.Errorf("image url cannot be empty: %w", shared.ErrInvalidInput)
	ErrEmptyPatch      = fmt.Errorf("product patch has no fields: %w", shared.ErrInvalidInput)
	ErrProductInUse    = fmt.Errorf("product is referenced by orders: %w", shared.ErrConflict)
)

func NewProductNotFoundError(productID uint64) error {
	return &shared.DomainError{
		Err:     shared.ErrNotFound,
		Entity:  "product",
		Field:   "id",
		Message: "product not found: " + strconv.FormatUint(productID, 10),
	}
}
