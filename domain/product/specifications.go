package product

import (
	"context"

	"campodigital/domain/shared"
)

func asProduct(candidate any) *Product {
	switch v := candidate.(type) {
	case *Product:
		return v
	case *View:
		return v.Product
	}
	return nil
}

type ByOwnerSpecification struct {
	OwnerID uint64
}

func (spec ByOwnerSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	p := asProduct(candidate)
	return p != nil && p.OwnerID() == spec.OwnerID
}

type ByCategorySpecification struct {
	Category string
}

func (spec ByCategorySpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	p := asProduct(candidate)
	return p != nil && p.Category() == spec.Category
}

type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	p := asProduct(candidate)
	return p != nil && p.Status() == spec.Status
}

type OrganicSpecification struct {
	Organic bool
}

func (spec OrganicSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	p := asProduct(candidate)
	return p != nil && p.IsOrganic() == spec.Organic
}

func Available() shared.Specification {
	return ByStatusSpecification{Status: StatusAvailable}
}

// AvailableInCategory matches what the catalog shows for a category.
func AvailableInCategory(category string) shared.Specification {
	return shared.And(ByCategorySpecification{Category: category}, Available())
}
