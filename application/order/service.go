/*
Package order orchestrates the order workflow.

Every write runs inside one unit of work: the aggregate is built and
changed inside the transaction, saved through the repository, and
registered so its events reach the outbox before commit. Any failure
rolls back the whole operation, so an order never exists without all of
its details.
*/
package order

import (
	"context"
	"errors"

	"campodigital/domain/order"
	"campodigital/domain/product"
	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/pkg/logger"
	"campodigital/pkg/metrics"

	"go.uber.org/zap"
)

// ApplicationService coordinates order placement, line additions and status changes.
// It is safe for concurrent use; each call takes its own unit of work.
type ApplicationService struct {
	orderRepo          order.Repository
	orderDomainService *order.DomainService
	uows               shared.UnitOfWorkFactory
}

func NewApplicationService(
	orderRepo order.Repository,
	userRepo user.Repository,
	productRepo product.Repository,
	uows shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		orderRepo: orderRepo,
		orderDomainService: order.NewDomainService(
			&userDirectoryAdapter{userRepo: userRepo},
			&productCatalogAdapter{productRepo: productRepo},
		),
		uows: uows,
	}
}

// PlaceOrder inserts the header and every detail in one transaction and
// returns the new order id.
func (s *ApplicationService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (uint64, error) {
	uow := s.uows.New()
	var placed *order.Order

	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := order.NewOrder(toPlacement(req))
		if err != nil {
			return err
		}
		if err := s.orderDomainService.VerifyParties(ctx, req.BuyerID, req.SellerID); err != nil {
			return err
		}
		if err := s.orderDomainService.VerifyProducts(ctx, productIDs(req.Details)...); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		placed = o
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.OrdersPlaced.Inc()
	logger.FromContext(ctx).Info("Order placed",
		zap.Uint64("order_id", placed.ID()),
		zap.Uint64("buyer_id", placed.BuyerID()),
		zap.Uint64("seller_id", placed.SellerID()),
		zap.String("total_amount", placed.Total().String()),
	)
	return placed.ID(), nil
}

// AddOrderDetail appends a line to a pending order and returns the detail id.
// The order total grows by the line's subtotal in the same transaction.
func (s *ApplicationService) AddOrderDetail(ctx context.Context, req AddOrderDetailRequest) (uint64, error) {
	uow := s.uows.New()
	var detailID uint64

	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.orderDomainService.VerifyProducts(ctx, req.ProductID); err != nil {
			return err
		}
		o, err := s.orderRepo.FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		d, err := o.AddDetail(req.ProductID, req.Quantity, req.UnitPrice)
		if err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		detailID = d.ID()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return detailID, nil
}

// GetOrder returns nil, nil when the order does not exist.
func (s *ApplicationService) GetOrder(ctx context.Context, orderID uint64) (*OrderResponse, error) {
	v, err := s.orderRepo.FindViewByID(ctx, orderID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toOrderResponse(v), nil
}

func (s *ApplicationService) GetOrderDetails(ctx context.Context, orderID uint64) ([]OrderDetailResponse, error) {
	details, err := s.orderRepo.FindDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(details), nil
}

func (s *ApplicationService) ListBuyerOrders(ctx context.Context, buyerID uint64) ([]OrderSummaryResponse, error) {
	summaries, err := s.orderRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return toSummaryResponses(summaries), nil
}

func (s *ApplicationService) ListSellerOrders(ctx context.Context, sellerID uint64) ([]OrderSummaryResponse, error) {
	summaries, err := s.orderRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return toSummaryResponses(summaries), nil
}

// UpdateOrderStatus moves the order along its status machine.
func (s *ApplicationService) UpdateOrderStatus(ctx context.Context, req UpdateOrderStatusRequest) error {
	next, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	err = s.transition(ctx, req.OrderID, func(o *order.Order) error {
		return o.ChangeStatus(next)
	})
	if err != nil {
		return err
	}
	metrics.OrderTransitions.WithLabelValues("status", string(next)).Inc()
	return nil
}

// UpdatePaymentStatus records a payment outcome. No payment is processed here.
func (s *ApplicationService) UpdatePaymentStatus(ctx context.Context, req UpdatePaymentStatusRequest) error {
	next, err := order.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return err
	}
	err = s.transition(ctx, req.OrderID, func(o *order.Order) error {
		return o.ChangePaymentStatus(next)
	})
	if err != nil {
		return err
	}
	metrics.OrderTransitions.WithLabelValues("payment", string(next)).Inc()
	return nil
}

// transition loads, changes and saves the order in one unit of work. Each
// retry reloads the order.
func (s *ApplicationService) transition(ctx context.Context, orderID uint64, change func(o *order.Order) error) error {
	uow := s.uows.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := change(o); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
}
