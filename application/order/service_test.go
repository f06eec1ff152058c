package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	apporder "campodigital/application/order"
	"campodigital/domain/order"
	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb"
	"campodigital/infrastructure/persistence/gormdb/gormdbtest"
	"campodigital/infrastructure/persistence/gormdb/po"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	session *gormdb.Session
	svc     *apporder.ApplicationService
	buyer   uint64
	seller  uint64
	yuca    uint64
	platano uint64
}

func newFixture(t *testing.T) *fixture {
	s := gormdbtest.New(t)
	seller := gormdbtest.SeedUser(t, s, "juan", user.RoleProducer)
	return &fixture{
		session: s,
		svc: apporder.NewApplicationService(
			gormdb.NewOrderRepository(s),
			gormdb.NewUserRepository(s),
			gormdb.NewProductRepository(s),
			gormdb.NewUnitOfWorkFactoryFromConfig(s, gormdbtest.Config()),
		),
		buyer:   gormdbtest.SeedUser(t, s, "maria", user.RoleConsumer),
		seller:  seller,
		yuca:    gormdbtest.SeedProduct(t, s, seller, "Yuca", "2500", "80"),
		platano: gormdbtest.SeedProduct(t, s, seller, "Platano", "3000", "100"),
	}
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (f *fixture) demoRequest() apporder.PlaceOrderRequest {
	return apporder.PlaceOrderRequest{
		BuyerID:         f.buyer,
		SellerID:        f.seller,
		DeliveryAddress: "Calle 10 #5-20, Villavicencio",
		Details: []apporder.OrderDetailRequest{
			{ProductID: f.yuca, Quantity: dec("5"), UnitPrice: dec("2500")},
			{ProductID: f.platano, Quantity: dec("5"), UnitPrice: dec("3000")},
		},
	}
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	row, err := f.session.FetchOne(context.Background(), "SELECT COUNT(*) AS n FROM "+table)
	require.NoError(t, err)
	n, ok := row.Get("n").(int64)
	require.True(t, ok)
	return n
}

func TestPurchaseFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.PlaceOrder(ctx, f.demoRequest())
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := f.svc.GetOrder(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "27500.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "maria", got.BuyerName)
	assert.Equal(t, "juan", got.SellerName)
	assert.Equal(t, "3001234567", got.SellerPhone)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "pending", got.PaymentStatus)
	assert.Equal(t, "cash", got.PaymentMethod)

	details, err := f.svc.GetOrderDetails(ctx, id)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Yuca", details[0].ProductName)
	assert.Equal(t, "12500.00", details[0].Subtotal.StringFixed(2))
	assert.Equal(t, "Platano", details[1].ProductName)
	assert.Equal(t, "15000.00", details[1].Subtotal.StringFixed(2))

	sum := decimal.Zero
	for _, d := range details {
		sum = sum.Add(d.Subtotal)
	}
	assert.True(t, sum.Equal(got.TotalAmount))

	n, err := gormdb.NewOutboxRepository(f.session).CountByStatus(ctx, po.EventStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPlaceOrderChecksSuppliedTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.demoRequest()
	good := dec("27500.00")
	req.TotalAmount = &good
	_, err := f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)

	bad := dec("22500.00")
	req.TotalAmount = &bad
	_, err = f.svc.PlaceOrder(ctx, req)
	assert.ErrorIs(t, err, order.ErrTotalMismatch)
	assert.EqualValues(t, 1, f.count(t, "orders"))
	assert.EqualValues(t, 2, f.count(t, "order_details"))
}

func TestPlaceOrderRejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *apporder.PlaceOrderRequest)
		want   error
	}{
		{"unknown buyer", func(r *apporder.PlaceOrderRequest) { r.BuyerID = 999 }, shared.ErrNotFound},
		{"unknown seller", func(r *apporder.PlaceOrderRequest) { r.SellerID = 999 }, shared.ErrNotFound},
		{"unknown product", func(r *apporder.PlaceOrderRequest) { r.Details[1].ProductID = 999 }, shared.ErrNotFound},
		{"no details", func(r *apporder.PlaceOrderRequest) { r.Details = nil }, order.ErrEmptyOrderDetails},
		{"zero quantity", func(r *apporder.PlaceOrderRequest) { r.Details[0].Quantity = decimal.Zero }, shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.demoRequest()
			tt.mutate(&req)
			_, err := f.svc.PlaceOrder(ctx, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, f.count(t, "orders"))
	assert.Zero(t, f.count(t, "order_details"))
	assert.Zero(t, f.count(t, "outbox_events"))
}

func TestPlaceOrderIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inserts := 0
	err := f.session.DB(ctx).Callback().Create().Before("gorm:create").
		Register("test:fail_second_detail", func(db *gorm.DB) {
			if db.Statement.Table != "order_details" {
				return
			}
			inserts++
			if inserts == 2 {
				_ = db.AddError(errors.New("disk full"))
			}
		})
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, f.demoRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Zero(t, f.count(t, "orders"))
	assert.Zero(t, f.count(t, "order_details"))
	assert.Zero(t, f.count(t, "outbox_events"))
}

func TestAddOrderDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.demoRequest()
	req.Details = req.Details[:1]
	id, err := f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)

	detailID, err := f.svc.AddOrderDetail(ctx, apporder.AddOrderDetailRequest{
		OrderID: id, ProductID: f.platano, Quantity: dec("5"), UnitPrice: dec("3000"),
	})
	require.NoError(t, err)
	assert.NotZero(t, detailID)

	got, err := f.svc.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "27500.00", got.TotalAmount.StringFixed(2))

	details, err := f.svc.GetOrderDetails(ctx, id)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, detailID, details[1].ID)

	_, err = f.svc.AddOrderDetail(ctx, apporder.AddOrderDetailRequest{
		OrderID: 999, ProductID: f.platano, Quantity: dec("1"), UnitPrice: dec("3000"),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, f.svc.UpdateOrderStatus(ctx, apporder.UpdateOrderStatusRequest{OrderID: id, Status: "confirmed"}))
	_, err = f.svc.AddOrderDetail(ctx, apporder.AddOrderDetailRequest{
		OrderID: id, ProductID: f.yuca, Quantity: dec("1"), UnitPrice: dec("2500"),
	})
	assert.ErrorIs(t, err, order.ErrCannotModifyNonPendingOrder)
	assert.EqualValues(t, 2, f.count(t, "order_details"))
}

func TestGetOrderAbsent(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.GetOrder(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateOrderStatusFollowsMachine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.PlaceOrder(ctx, f.demoRequest())
	require.NoError(t, err)

	status := func(s string) error {
		return f.svc.UpdateOrderStatus(ctx, apporder.UpdateOrderStatusRequest{OrderID: id, Status: s})
	}

	assert.ErrorIs(t, status("shipped"), order.ErrInvalidStatusTransition)
	assert.ErrorIs(t, status("lost"), order.ErrInvalidStatus)
	for _, s := range []string{"confirmed", "shipped", "delivered", "closed"} {
		require.NoError(t, status(s), s)
	}
	assert.ErrorIs(t, status("cancelled"), shared.ErrInvalidState)

	got, err := f.svc.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Status)

	assert.ErrorIs(t, f.svc.UpdateOrderStatus(ctx, apporder.UpdateOrderStatusRequest{OrderID: 999, Status: "confirmed"}), shared.ErrNotFound)

	n, err := gormdb.NewOutboxRepository(f.session).CountByStatus(ctx, po.EventStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n, "placed plus four transitions")
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.PlaceOrder(ctx, f.demoRequest())
	require.NoError(t, err)

	payment := func(s string) error {
		return f.svc.UpdatePaymentStatus(ctx, apporder.UpdatePaymentStatusRequest{OrderID: id, PaymentStatus: s})
	}

	require.NoError(t, payment("failed"))
	require.NoError(t, payment("pending"))
	require.NoError(t, payment("completed"))
	assert.ErrorIs(t, payment("pending"), order.ErrInvalidStatusTransition)
	assert.ErrorIs(t, payment("chargeback"), shared.ErrInvalidInput)
	require.NoError(t, payment("refunded"))

	got, err := f.svc.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "refunded", got.PaymentStatus)
	assert.Equal(t, "pending", got.Status)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.PlaceOrder(ctx, f.demoRequest())
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, f.demoRequest())
	require.NoError(t, err)

	bought, err := f.svc.ListBuyerOrders(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, bought, 2)
	assert.Equal(t, second, bought[0].ID)
	assert.Equal(t, first, bought[1].ID)
	assert.Equal(t, "juan", bought[0].CounterpartName)

	sold, err := f.svc.ListSellerOrders(ctx, f.seller)
	require.NoError(t, err)
	require.Len(t, sold, 2)
	assert.Equal(t, "maria", sold[0].CounterpartName)
	assert.Equal(t, "27500.00", sold[0].TotalAmount.StringFixed(2))
}

func TestPlaceOrderConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PlaceOrder(ctx, f.demoRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, workers, f.count(t, "orders"))
	assert.EqualValues(t, 2*workers, f.count(t, "order_details"))
}
