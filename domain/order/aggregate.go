/*
Package order is the core of the marketplace: an order header plus its
detail lines, kept consistent as one aggregate.

Invariants held by the aggregate:
  - every detail's subtotal is quantity x unit price, rounded to cents;
  - the order total equals the sum of its detail subtotals;
  - status and payment status only move along their state machines.
*/
package order

import (
	"strings"
	"time"

	"campodigital/domain/shared"

	"github.com/shopspring/decimal"
)

const aggregateType = "order"

// Order is the aggregate root. Details are only reachable through it.
type Order struct {
	id              uint64
	buyerID         uint64
	sellerID        uint64
	total           shared.Money
	deliveryAddress string
	deliveryDate    *time.Time
	paymentMethod   string
	status          Status
	paymentStatus   PaymentStatus
	notes           string
	createdAt       time.Time
	details         []*Detail

	events []shared.DomainEvent

	// dirty tracking
	isNew               bool
	addedDetails        []*Detail
	loadedStatus        Status
	loadedPaymentStatus PaymentStatus
}

// Detail is one order line.
type Detail struct {
	id        uint64
	productID uint64
	quantity  shared.Quantity
	unitPrice shared.Money
	subtotal  shared.Money
}

func newDetail(productID uint64, quantity, unitPrice decimal.Decimal) (*Detail, error) {
	if productID == 0 {
		return nil, ErrInvalidProduct
	}
	q, err := shared.NewQuantity(quantity)
	if err != nil {
		return nil, err
	}
	p, err := shared.NewMoney(unitPrice)
	if err != nil {
		return nil, err
	}
	return &Detail{productID: productID, quantity: q, unitPrice: p, subtotal: p.Times(q)}, nil
}

func (d *Detail) ID() uint64                { return d.id }
func (d *Detail) ProductID() uint64         { return d.productID }
func (d *Detail) Quantity() shared.Quantity { return d.quantity }
func (d *Detail) UnitPrice() shared.Money   { return d.unitPrice }
func (d *Detail) Subtotal() shared.Money    { return d.subtotal }
func (d *Detail) AssignID(id uint64)        { d.id = id }

// Line is one requested detail.
type Line struct {
	ProductID uint64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Placement holds everything needed to place an order.
// Total is optional; when given it must equal the sum of subtotals.
type Placement struct {
	BuyerID         uint64
	SellerID        uint64
	Total           *decimal.Decimal
	DeliveryAddress string
	DeliveryDate    *time.Time
	PaymentMethod   string
	Notes           string
	Lines           []Line
}

// NewOrder builds a pending order and records order.placed.
func NewOrder(p Placement) (*Order, error) {
	if p.BuyerID == 0 || p.SellerID == 0 {
		return nil, ErrInvalidParty
	}
	if len(p.Lines) == 0 {
		return nil, ErrEmptyOrderDetails
	}

	o := &Order{
		buyerID:         p.BuyerID,
		sellerID:        p.SellerID,
		total:           shared.ZeroMoney(),
		deliveryAddress: p.DeliveryAddress,
		deliveryDate:    p.DeliveryDate,
		paymentMethod:   strings.TrimSpace(p.PaymentMethod),
		status:          StatusPending,
		paymentStatus:   PaymentPending,
		notes:           p.Notes,
		createdAt:       time.Now().UTC(),
		isNew:           true,
	}
	if o.paymentMethod == "" {
		o.paymentMethod = PaymentMethodCash
	}

	for _, l := range p.Lines {
		d, err := newDetail(l.ProductID, l.Quantity, l.UnitPrice)
		if err != nil {
			return nil, err
		}
		o.details = append(o.details, d)
		o.total = o.total.Add(d.subtotal)
	}

	if p.Total != nil {
		supplied, err := shared.NewMoney(*p.Total)
		if err != nil {
			return nil, err
		}
		if !supplied.Equals(o.total) {
			return nil, NewTotalMismatchError(supplied, o.total)
		}
	}

	o.recordEvent(EventPlaced, map[string]any{
		"buyer_id":     o.buyerID,
		"seller_id":    o.sellerID,
		"total_amount": o.total.String(),
		"details":      len(o.details),
	})
	return o, nil
}

// AddDetail appends a line to a pending order and raises the total by its subtotal.
func (o *Order) AddDetail(productID uint64, quantity, unitPrice decimal.Decimal) (*Detail, error) {
	if o.status != StatusPending {
		return nil, ErrCannotModifyNonPendingOrder
	}
	d, err := newDetail(productID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	o.details = append(o.details, d)
	o.total = o.total.Add(d.subtotal)
	if !o.isNew {
		o.addedDetails = append(o.addedDetails, d)
	}
	o.recordEvent(EventDetailAdded, map[string]any{
		"product_id":   productID,
		"subtotal":     d.subtotal.String(),
		"total_amount": o.total.String(),
	})
	return d, nil
}

// ChangeStatus moves the order along its state machine.
func (o *Order) ChangeStatus(next Status) error {
	if !o.status.CanTransitionTo(next) {
		return NewInvalidTransitionError("status", string(o.status), string(next))
	}
	prev := o.status
	o.status = next
	o.recordEvent(EventStatusChanged, map[string]any{"from": string(prev), "to": string(next)})
	return nil
}

// ChangePaymentStatus moves the payment along its state machine.
func (o *Order) ChangePaymentStatus(next PaymentStatus) error {
	if !o.paymentStatus.CanTransitionTo(next) {
		return NewInvalidTransitionError("payment_status", string(o.paymentStatus), string(next))
	}
	prev := o.paymentStatus
	o.paymentStatus = next
	o.recordEvent(EventPaymentStatusChanged, map[string]any{"from": string(prev), "to": string(next)})
	return nil
}

// ReconcileTotal reports whether the stored total equals the sum of subtotals.
func (o *Order) ReconcileTotal() bool {
	sum := shared.ZeroMoney()
	for _, d := range o.details {
		sum = sum.Add(d.subtotal)
	}
	return sum.Equals(o.total)
}

func (o *Order) recordEvent(name string, attrs map[string]any) {
	o.events = append(o.events, shared.NewEvent(name, aggregateType, o.id, attrs))
}

func (o *Order) ID() uint64                         { return o.id }
func (o *Order) BuyerID() uint64                    { return o.buyerID }
func (o *Order) SellerID() uint64                   { return o.sellerID }
func (o *Order) Total() shared.Money                { return o.total }
func (o *Order) DeliveryAddress() string            { return o.deliveryAddress }
func (o *Order) DeliveryDate() *time.Time           { return o.deliveryDate }
func (o *Order) PaymentMethod() string              { return o.paymentMethod }
func (o *Order) Status() Status                     { return o.status }
func (o *Order) PaymentStatus() PaymentStatus       { return o.paymentStatus }
func (o *Order) Notes() string                      { return o.notes }
func (o *Order) CreatedAt() time.Time               { return o.createdAt }
func (o *Order) Details() []*Detail                 { return o.details }
func (o *Order) IsNew() bool                        { return o.isNew }
func (o *Order) AddedDetails() []*Detail            { return o.addedDetails }
func (o *Order) LoadedStatus() Status               { return o.loadedStatus }
func (o *Order) LoadedPaymentStatus() PaymentStatus { return o.loadedPaymentStatus }

func (o *Order) AssignID(id uint64) {
	o.id = id
}

// MarkPersisted resets dirty tracking after a successful save.
func (o *Order) MarkPersisted() {
	o.isNew = false
	o.addedDetails = nil
	o.loadedStatus = o.status
	o.loadedPaymentStatus = o.paymentStatus
}

func (o *Order) PullEvents() []shared.DomainEvent {
	return shared.PullEvents(&o.events, o.id)
}

// ReconstructionDTO carries stored rows back into the domain. Repository use only.
type ReconstructionDTO struct {
	ID              uint64
	BuyerID         uint64
	SellerID        uint64
	Total           decimal.Decimal
	DeliveryAddress string
	DeliveryDate    *time.Time
	PaymentMethod   string
	Status          string
	PaymentStatus   string
	Notes           string
	CreatedAt       time.Time
	Details         []DetailReconstructionDTO
}

type DetailReconstructionDTO struct {
	ID        uint64
	ProductID uint64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// RebuildFromDTO restores stored values verbatim, including subtotals.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	o := &Order{
		id:                  dto.ID,
		buyerID:             dto.BuyerID,
		sellerID:            dto.SellerID,
		total:               moneyOf(dto.Total),
		deliveryAddress:     dto.DeliveryAddress,
		deliveryDate:        dto.DeliveryDate,
		paymentMethod:       dto.PaymentMethod,
		status:              Status(dto.Status),
		paymentStatus:       PaymentStatus(dto.PaymentStatus),
		notes:               dto.Notes,
		createdAt:           dto.CreatedAt,
		loadedStatus:        Status(dto.Status),
		loadedPaymentStatus: PaymentStatus(dto.PaymentStatus),
	}
	for _, d := range dto.Details {
		o.details = append(o.details, &Detail{
			id:        d.ID,
			productID: d.ProductID,
			quantity:  quantityOf(d.Quantity),
			unitPrice: moneyOf(d.UnitPrice),
			subtotal:  moneyOf(d.Subtotal),
		})
	}
	return o
}

func moneyOf(d decimal.Decimal) shared.Money {
	m, err := shared.NewMoney(d)
	if err != nil {
		return shared.ZeroMoney()
	}
	return m
}

func quantityOf(d decimal.Decimal) shared.Quantity {
	q, _ := shared.NewQuantity(d)
	return q
}

var _ shared.AggregateRoot = (*Order)(nil)
