// Package specification turns domain specifications into SQL conditions.
package specification

import (
	"errors"
	"fmt"
	"strings"

	"campodigital/domain/order"
	"campodigital/domain/product"
	"campodigital/domain/shared"
	"campodigital/domain/user"

	"gorm.io/gorm"
)

// ErrUnsupported is returned for specifications that have no SQL form.
var ErrUnsupported = errors.New("specification has no SQL translation")

// Condition is a parameterised WHERE fragment.
type Condition struct {
	SQL  string
	Args []any
}

// Translator converts domain specifications to GORM scopes.
type Translator interface {
	Translate(spec shared.Specification) (func(*gorm.DB) *gorm.DB, error)
}

// GormTranslator qualifies columns with Table, so the scope stays
// unambiguous on joined queries.
type GormTranslator struct {
	Table string
}

func NewGormTranslator(table string) *GormTranslator {
	return &GormTranslator{Table: table}
}

// Translate returns a scope applying spec. A nil spec matches everything.
func (t *GormTranslator) Translate(spec shared.Specification) (func(*gorm.DB) *gorm.DB, error) {
	if spec == nil {
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	}
	cond, err := t.Condition(spec)
	if err != nil {
		return nil, err
	}
	return func(db *gorm.DB) *gorm.DB {
		if cond.SQL == "" {
			return db
		}
		return db.Where(cond.SQL, cond.Args...)
	}, nil
}

// Condition builds the WHERE fragment for spec. An empty SQL matches everything.
func (t *GormTranslator) Condition(spec shared.Specification) (Condition, error) {
	switch s := spec.(type) {
	case shared.AndSpecification:
		return t.join(s.Specs, " AND ")
	case shared.OrSpecification:
		if len(s.Specs) == 0 {
			return Condition{SQL: "1 = 0"}, nil
		}
		return t.join(s.Specs, " OR ")
	case shared.NotSpecification:
		inner, err := t.Condition(s.Spec)
		if err != nil {
			return Condition{}, err
		}
		if inner.SQL == "" {
			return Condition{SQL: "1 = 0"}, nil
		}
		return Condition{SQL: "NOT (" + inner.SQL + ")", Args: inner.Args}, nil
	}
	return t.concrete(spec)
}

func (t *GormTranslator) join(specs []shared.Specification, op string) (Condition, error) {
	var parts []string
	var args []any
	for _, s := range specs {
		c, err := t.Condition(s)
		if err != nil {
			return Condition{}, err
		}
		if c.SQL == "" {
			if op == " OR " {
				// one member matches everything
				return Condition{}, nil
			}
			continue
		}
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	switch len(parts) {
	case 0:
		return Condition{}, nil
	case 1:
		return Condition{SQL: parts[0], Args: args}, nil
	}
	for i, p := range parts {
		parts[i] = "(" + p + ")"
	}
	return Condition{SQL: strings.Join(parts, op), Args: args}, nil
}

func (t *GormTranslator) col(name string) string {
	if t.Table == "" {
		return name
	}
	return t.Table + "." + name
}

func (t *GormTranslator) eq(column string, value any) Condition {
	return Condition{SQL: t.col(column) + " = ?", Args: []any{value}}
}

func (t *GormTranslator) concrete(spec shared.Specification) (Condition, error) {
	switch s := spec.(type) {
	// user
	case user.ByRoleSpecification:
		return Condition{SQL: t.col("user_type") + " IN ?", Args: []any{s.Role.StoredValues()}}, nil
	case user.ByEmailSpecification:
		return t.eq("email", strings.ToLower(strings.TrimSpace(s.Email))), nil

	// product
	case product.ByOwnerSpecification:
		return t.eq("user_id", s.OwnerID), nil
	case product.ByCategorySpecification:
		return t.eq("category", s.Category), nil
	case product.ByStatusSpecification:
		return t.eq("status", string(s.Status)), nil
	case product.OrganicSpecification:
		return t.eq("is_organic", s.Organic), nil

	// order
	case order.ByBuyerSpecification:
		return t.eq("buyer_id", s.BuyerID), nil
	case order.BySellerSpecification:
		return t.eq("seller_id", s.SellerID), nil
	case order.ByStatusSpecification:
		return t.eq("status", string(s.Status)), nil
	case order.ByDateRangeSpecification:
		var parts []string
		var args []any
		if !s.Start.IsZero() {
			parts = append(parts, t.col("created_at")+" >= ?")
			args = append(args, s.Start)
		}
		if !s.End.IsZero() {
			parts = append(parts, t.col("created_at")+" <= ?")
			args = append(args, s.End)
		}
		return Condition{SQL: strings.Join(parts, " AND "), Args: args}, nil
	}

	return Condition{}, fmt.Errorf("%w: %T", ErrUnsupported, spec)
}
