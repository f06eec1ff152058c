package shared

import "context"

// Specification is a query predicate over a domain type. Repositories
// translate the concrete specifications of their package into SQL;
// IsSatisfiedBy evaluates the same rule in memory.
type Specification interface {
	IsSatisfiedBy(ctx context.Context, candidate any) bool
}

// AndSpecification holds when every member holds. An empty And holds for everything.
type AndSpecification struct {
	Specs []Specification
}

func (spec AndSpecification) IsSatisfiedBy(ctx context.Context, candidate any) bool {
	for _, s := range spec.Specs {
		if !s.IsSatisfiedBy(ctx, candidate) {
			return false
		}
	}
	return true
}

func And(specs ...Specification) Specification {
	return AndSpecification{Specs: specs}
}

// OrSpecification holds when at least one member holds.
type OrSpecification struct {
	Specs []Specification
}

func (spec OrSpecification) IsSatisfiedBy(ctx context.Context, candidate any) bool {
	for _, s := range spec.Specs {
		if s.IsSatisfiedBy(ctx, candidate) {
			return true
		}
	}
	return false
}

func Or(specs ...Specification) Specification {
	return OrSpecification{Specs: specs}
}

type NotSpecification struct {
	Spec Specification
}

func (spec NotSpecification) IsSatisfiedBy(ctx context.Context, candidate any) bool {
	return !spec.Spec.IsSatisfiedBy(ctx, candidate)
}

func Not(inner Specification) Specification {
	return NotSpecification{Spec: inner}
}
