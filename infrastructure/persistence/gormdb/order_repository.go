package gormdb

import (
	"context"
	"errors"

	"campodigital/domain/order"
	"campodigital/domain/shared"
	"campodigital/infrastructure/persistence/gormdb/po"
	"campodigital/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// OrderRepository persists the order aggregate. Header and details are
// written by hand; no GORM associations cross the aggregate boundary.
type OrderRepository struct {
	session    *Session
	translator *specification.GormTranslator
}

func NewOrderRepository(session *Session) *OrderRepository {
	return &OrderRepository{
		session:    session,
		translator: specification.NewGormTranslator("orders"),
	}
}

// Save inserts a new order with its details, or writes the changes of a
// loaded one. Inside a unit of work it uses the context's transaction;
// standalone it opens its own.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	err := r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		if o.IsNew() {
			return r.insert(db, o)
		}
		return r.update(db, o)
	})
	if err != nil {
		return translateError("order.save", err)
	}
	o.MarkPersisted()
	return nil
}

func (r *OrderRepository) insert(db *gorm.DB, o *order.Order) error {
	orderPO := po.FromOrderDomain(o)
	if err := db.Create(orderPO).Error; err != nil {
		return err
	}
	o.AssignID(orderPO.ID)
	return r.insertDetails(db, o.ID(), o.Details())
}

func (r *OrderRepository) insertDetails(db *gorm.DB, orderID uint64, details []*order.Detail) error {
	for _, d := range details {
		detailPO := po.FromDetailDomain(orderID, d)
		if err := db.Create(detailPO).Error; err != nil {
			return err
		}
		d.AssignID(detailPO.ID)
	}
	return nil
}

// update is a compare-and-set on the statuses the aggregate was loaded with.
func (r *OrderRepository) update(db *gorm.DB, o *order.Order) error {
	result := db.Model(&po.OrderPO{}).
		Where("id = ? AND status = ? AND payment_status = ?",
			o.ID(), string(o.LoadedStatus()), string(o.LoadedPaymentStatus())).
		Updates(map[string]any{
			"status":         string(o.Status()),
			"payment_status": string(o.PaymentStatus()),
			"total_amount":   o.Total().Decimal(),
		})
	if result.Error != nil {
		return result.Error
	}
	// MySQL reports 0 affected rows when values are unchanged, so only a
	// status that moved underneath us is a conflict.
	if result.RowsAffected == 0 {
		var stored po.OrderPO
		err := db.Select("status", "payment_status").Where("id = ?", o.ID()).Take(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.NewOrderNotFoundError(o.ID())
		}
		if err != nil {
			return err
		}
		if stored.Status != string(o.LoadedStatus()) || stored.PaymentStatus != string(o.LoadedPaymentStatus()) {
			return order.NewConcurrentModificationError(o.ID())
		}
	}
	return r.insertDetails(db, o.ID(), o.AddedDetails())
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*order.Order, error) {
	var orderPO po.OrderPO
	var detailPOs []po.OrderDetailPO
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
			return err
		}
		return db.Where("order_id = ?", id).Order("id ASC").Find(&detailPOs).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, translateError("order.find", err)
	}
	return orderPO.ToDomain(detailPOs), nil
}

func (r *OrderRepository) FindViewByID(ctx context.Context, id uint64) (*order.View, error) {
	var row po.OrderViewRow
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Table("orders").
			Select("orders.*, b.name AS buyer_name, b.phone AS buyer_phone, s.name AS seller_name, s.phone AS seller_phone").
			Joins("JOIN users b ON b.id = orders.buyer_id").
			Joins("JOIN users s ON s.id = orders.seller_id").
			Where("orders.id = ?", id).
			Take(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, translateError("order.view", err)
	}
	return row.ToView(), nil
}

func (r *OrderRepository) FindDetails(ctx context.Context, orderID uint64) ([]order.DetailView, error) {
	var rows []po.OrderDetailViewRow
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Table("order_details").
			Select("order_details.*, products.name AS product_name, products.unit AS unit").
			Joins("JOIN products ON products.id = order_details.product_id").
			Where("order_details.order_id = ?", orderID).
			Order("order_details.id ASC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, translateError("order.details", err)
	}
	views := make([]order.DetailView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDetailView()
	}
	return views, nil
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification) ([]*order.Order, error) {
	scope, err := r.translator.Translate(spec)
	if err != nil {
		return nil, err
	}
	var orderPOs []po.OrderPO
	byOrder := map[uint64][]po.OrderDetailPO{}
	err = r.session.Run(ctx, func(db *gorm.DB) error {
		if err := db.Scopes(scope).Order("created_at DESC").Order("id DESC").Find(&orderPOs).Error; err != nil {
			return err
		}
		if len(orderPOs) == 0 {
			return nil
		}
		ids := make([]uint64, len(orderPOs))
		for i, o := range orderPOs {
			ids[i] = o.ID
		}
		var detailPOs []po.OrderDetailPO
		if err := db.Where("order_id IN ?", ids).Order("id ASC").Find(&detailPOs).Error; err != nil {
			return err
		}
		for _, d := range detailPOs {
			byOrder[d.OrderID] = append(byOrder[d.OrderID], d)
		}
		return nil
	})
	if err != nil {
		return nil, translateError("order.find", err)
	}
	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
	}
	return orders, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uint64) ([]order.Summary, error) {
	return r.summaries(ctx, "buyer_id", "seller_id", buyerID)
}

func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID uint64) ([]order.Summary, error) {
	return r.summaries(ctx, "seller_id", "buyer_id", sellerID)
}

// summaries lists orders where column = id, joined with the party in counterpart.
func (r *OrderRepository) summaries(ctx context.Context, column, counterpart string, id uint64) ([]order.Summary, error) {
	var rows []po.OrderSummaryRow
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Table("orders").
			Select("orders.id, orders."+counterpart+" AS counterpart_id, users.name AS counterpart_name, "+
				"orders.total_amount, orders.status, orders.payment_status, orders.created_at").
			Joins("JOIN users ON users.id = orders."+counterpart).
			Where("orders."+column+" = ?", id).
			Order("orders.created_at DESC").
			Order("orders.id DESC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, translateError("order.list", err)
	}
	out := make([]order.Summary, len(rows))
	for i := range rows {
		out[i] = rows[i].ToSummary()
	}
	return out, nil
}

var _ order.Repository = (*OrderRepository)(nil)
