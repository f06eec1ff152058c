package order

import (
	"context"
	"testing"

	"campodigital/domain/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func demoPlacement() Placement {
	return Placement{
		BuyerID:         1,
		SellerID:        2,
		DeliveryAddress: "Calle 10 #5-20",
		Lines: []Line{
			{ProductID: 10, Quantity: dec("5.00"), UnitPrice: dec("2500.00")},
			{ProductID: 11, Quantity: dec("5.00"), UnitPrice: dec("3000.00")},
		},
	}
}

func TestNewOrderComputesSubtotalsAndTotal(t *testing.T) {
	o, err := NewOrder(demoPlacement())
	require.NoError(t, err)

	require.Len(t, o.Details(), 2)
	assert.Equal(t, "12500.00", o.Details()[0].Subtotal().String())
	assert.Equal(t, "15000.00", o.Details()[1].Subtotal().String())
	assert.Equal(t, "27500.00", o.Total().String())
	assert.True(t, o.ReconcileTotal())

	assert.Equal(t, StatusPending, o.Status())
	assert.Equal(t, PaymentPending, o.PaymentStatus())
	assert.Equal(t, PaymentMethodCash, o.PaymentMethod())
	assert.True(t, o.IsNew())
}

func TestNewOrderTotalCheck(t *testing.T) {
	p := demoPlacement()
	good := dec("27500")
	p.Total = &good
	_, err := NewOrder(p)
	require.NoError(t, err)

	bad := dec("22500")
	p.Total = &bad
	_, err = NewOrder(p)
	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Placement)
		want   error
	}{
		{"no buyer", func(p *Placement) { p.BuyerID = 0 }, ErrInvalidParty},
		{"no lines", func(p *Placement) { p.Lines = nil }, ErrEmptyOrderDetails},
		{"no product", func(p *Placement) { p.Lines[0].ProductID = 0 }, ErrInvalidProduct},
		{"zero quantity", func(p *Placement) { p.Lines[0].Quantity = decimal.Zero }, shared.ErrInvalidInput},
		{"negative price", func(p *Placement) { p.Lines[1].UnitPrice = dec("-1") }, shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := demoPlacement()
			tt.mutate(&p)
			_, err := NewOrder(p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPullEventsBindsOrderID(t *testing.T) {
	o, err := NewOrder(demoPlacement())
	require.NoError(t, err)
	o.AssignID(77)

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventPlaced, events[0].EventName())
	assert.Equal(t, uint64(77), events[0].AggregateID())
	assert.Equal(t, "order", events[0].AggregateType())
	assert.NoError(t, shared.ValidateEvent(events[0]))
}

func TestStatusMachine(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusDelivered, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusClosed, true},
		{StatusDelivered, StatusPending, false},
		{StatusClosed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, StatusClosed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}

func TestPaymentMachine(t *testing.T) {
	assert.True(t, PaymentPending.CanTransitionTo(PaymentCompleted))
	assert.True(t, PaymentPending.CanTransitionTo(PaymentFailed))
	assert.True(t, PaymentFailed.CanTransitionTo(PaymentPending))
	assert.True(t, PaymentCompleted.CanTransitionTo(PaymentRefunded))
	assert.False(t, PaymentCompleted.CanTransitionTo(PaymentPending))
	assert.False(t, PaymentRefunded.CanTransitionTo(PaymentCompleted))
}

func TestChangeStatus(t *testing.T) {
	o, err := NewOrder(demoPlacement())
	require.NoError(t, err)
	o.AssignID(1)
	o.MarkPersisted()
	o.PullEvents()

	require.NoError(t, o.ChangeStatus(StatusConfirmed))
	require.NoError(t, o.ChangePaymentStatus(PaymentCompleted))
	assert.Equal(t, StatusPending, o.LoadedStatus(), "loaded status is kept for compare-and-set")

	err = o.ChangeStatus(StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, StatusConfirmed, o.Status())

	names := []string{}
	for _, e := range o.PullEvents() {
		names = append(names, e.EventName())
	}
	assert.Equal(t, []string{EventStatusChanged, EventPaymentStatusChanged}, names)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParsePaymentStatus("chargeback")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAddDetail(t *testing.T) {
	o := RebuildFromDTO(ReconstructionDTO{
		ID:            5,
		BuyerID:       1,
		SellerID:      2,
		Total:         dec("12500.00"),
		Status:        string(StatusPending),
		PaymentStatus: string(PaymentPending),
		Details: []DetailReconstructionDTO{
			{ID: 1, ProductID: 10, Quantity: dec("5"), UnitPrice: dec("2500"), Subtotal: dec("12500")},
		},
	})

	d, err := o.AddDetail(11, dec("2.5"), dec("3000"))
	require.NoError(t, err)
	assert.Equal(t, "7500.00", d.Subtotal().String())
	assert.Equal(t, "20000.00", o.Total().String())
	assert.Len(t, o.AddedDetails(), 1)
	assert.True(t, o.ReconcileTotal())

	require.NoError(t, o.ChangeStatus(StatusConfirmed))
	_, err = o.AddDetail(12, dec("1"), dec("1"))
	assert.ErrorIs(t, err, ErrCannotModifyNonPendingOrder)
}

type fakeDirectory map[uint64]bool

func (f fakeDirectory) UserExists(_ context.Context, id uint64) (bool, error)    { return f[id], nil }
func (f fakeDirectory) ProductExists(_ context.Context, id uint64) (bool, error) { return f[id], nil }

func TestDomainServiceVerifies(t *testing.T) {
	svc := NewDomainService(fakeDirectory{1: true, 2: true}, fakeDirectory{10: true})
	ctx := context.Background()

	assert.NoError(t, svc.VerifyParties(ctx, 1, 2))
	err := svc.VerifyParties(ctx, 1, 3)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "seller")

	assert.NoError(t, svc.VerifyProducts(ctx, 10, 10))
	assert.ErrorIs(t, svc.VerifyProducts(ctx, 10, 99), shared.ErrNotFound)
}
