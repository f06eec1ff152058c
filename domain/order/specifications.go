package order

import (
	"context"
	"time"
)

type ByBuyerSpecification struct {
	BuyerID uint64
}

func (spec ByBuyerSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	o, ok := candidate.(*Order)
	return ok && o.BuyerID() == spec.BuyerID
}

type BySellerSpecification struct {
	SellerID uint64
}

func (spec BySellerSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	o, ok := candidate.(*Order)
	return ok && o.SellerID() == spec.SellerID
}

type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	o, ok := candidate.(*Order)
	return ok && o.Status() == spec.Status
}

// ByDateRangeSpecification filters on creation time. Zero bounds are open.
type ByDateRangeSpecification struct {
	Start time.Time
	End   time.Time
}

func (spec ByDateRangeSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	o, ok := candidate.(*Order)
	if !ok {
		return false
	}
	createdAt := o.CreatedAt()
	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}
	return true
}
