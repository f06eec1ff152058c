package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Patch is a partial listing update. Nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *decimal.Decimal
	Unit        *string
	Category    *string
	HarvestDate *time.Time
	Organic     *bool
	Status      *Status
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Quantity == nil &&
		p.Unit == nil && p.Category == nil && p.HarvestDate == nil && p.Organic == nil && p.Status == nil
}

func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrInvalidName
	}
	if p.Price != nil && p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.Quantity != nil && p.Quantity.IsNegative() {
		return ErrInvalidQuantity
	}
	if p.Status != nil {
		if _, err := ParseStatus(string(*p.Status)); err != nil {
			return err
		}
	}
	return nil
}
