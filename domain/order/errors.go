package order

import (
	"fmt"
	"strconv"

	"campodigital/domain/shared"
)

var (
	ErrEmptyOrderDetails           = fmt.Errorf("order must have at least one detail: %w", shared.ErrInvalidInput)
	ErrInvalidParty                = fmt.Errorf("buyer and seller are required: %w", shared.ErrInvalidInput)
	ErrInvalidProduct              = fmt.Errorf("product is required: %w", shared.ErrInvalidInput)
	ErrInvalidStatus               = fmt.Errorf("unknown status: %w", shared.ErrInvalidInput)
	ErrTotalMismatch               = fmt.Errorf("total does not match the sum of subtotals: %w", shared.ErrInvalidInput)
	ErrInvalidStatusTransition     = fmt.Errorf("status transition not allowed: %w", shared.ErrInvalidState)
	ErrCannotModifyNonPendingOrder = fmt.Errorf("only pending orders can be modified: %w", shared.ErrInvalidState)
	ErrConcurrentModification      = fmt.Errorf("order was modified by another transaction, please retry: %w", shared.ErrConcurrentModification)
)

func NewOrderNotFoundError(orderID uint64) error {
	return &orderDomainError{
		sentinel: shared.ErrNotFound,
		message:  "order not found: " + strconv.FormatUint(orderID, 10),
		stack:    shared.CaptureStack(3),
	}
}

// NewPartyNotFoundError reports a buyer or seller that does not exist.
func NewPartyNotFoundError(role string, userID uint64) error {
	return &orderDomainError{
		sentinel: shared.ErrNotFound,
		field:    role + "_id",
		message:  fmt.Sprintf("%s not found: %d", role, userID),
		stack:    shared.CaptureStack(3),
	}
}

func NewProductNotFoundError(productID uint64) error {
	return &orderDomainError{
		sentinel: shared.ErrNotFound,
		field:    "product_id",
		message:  "product not found: " + strconv.FormatUint(productID, 10),
		stack:    shared.CaptureStack(3),
	}
}

func NewUnknownStatusError(field, value string) error {
	return &orderDomainError{
		sentinel: ErrInvalidStatus,
		field:    field,
		message:  fmt.Sprintf("unknown %s %q", field, value),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidTransitionError(field string, from, to string) error {
	return &orderDomainError{
		sentinel: ErrInvalidStatusTransition,
		field:    field,
		message:  fmt.Sprintf("%s cannot change from %s to %s", field, from, to),
		stack:    shared.CaptureStack(3),
	}
}

func NewTotalMismatchError(supplied, computed shared.Money) error {
	return &orderDomainError{
		sentinel: ErrTotalMismatch,
		field:    "total_amount",
		message:  fmt.Sprintf("total %s does not match sum of subtotals %s", supplied, computed),
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(orderID uint64) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		message:  "order " + strconv.FormatUint(orderID, 10) + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

type orderDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string   { return e.message }
func (e *orderDomainError) Unwrap() error   { return e.sentinel }
func (e *orderDomainError) Stack() []string { return shared.FormatStack(e.stack) }
func (e *orderDomainError) Field() string   { return e.field }
