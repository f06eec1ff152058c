package user

import (
	"context"

	"campodigital/domain/shared"
)

type ByRoleSpecification struct {
	Role Role
}

func (spec ByRoleSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	u, ok := candidate.(*User)
	return ok && u.Role() == spec.Role
}

type ByEmailSpecification struct {
	Email string
}

func (spec ByEmailSpecification) IsSatisfiedBy(_ context.Context, candidate any) bool {
	u, ok := candidate.(*User)
	return ok && u.Email().Value() == spec.Email
}

func Producers() shared.Specification { return ByRoleSpecification{Role: RoleProducer} }
func Consumers() shared.Specification { return ByRoleSpecification{Role: RoleConsumer} }
