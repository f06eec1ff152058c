package po

import (
	"time"

	"campodigital/domain/order"

	"github.com/shopspring/decimal"
)

// OrderPO maps the orders table. Parties are stored as ids only.
type OrderPO struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement"`
	BuyerID         uint64          `gorm:"index;not null"`
	SellerID        uint64          `gorm:"index;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryAddress string          `gorm:"type:text"`
	DeliveryDate    *time.Time      `gorm:"type:date"`
	PaymentMethod   string          `gorm:"size:50;not null;default:cash"`
	Status          string          `gorm:"size:20;index;not null;default:pending"`
	PaymentStatus   string          `gorm:"size:20;not null;default:pending"`
	Notes           string          `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index"`
}

func (OrderPO) TableName() string {
	return "orders"
}

type OrderDetailPO struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	OrderID   uint64          `gorm:"index;not null"`
	ProductID uint64          `gorm:"index;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderDetailPO) TableName() string {
	return "order_details"
}

// OrderViewRow is an order joined with both parties.
type OrderViewRow struct {
	OrderPO
	BuyerName   string
	BuyerPhone  string
	SellerName  string
	SellerPhone string
}

// OrderSummaryRow is one line of a buyer's or seller's order list.
type OrderSummaryRow struct {
	ID              uint64
	CounterpartID   uint64
	CounterpartName string
	TotalAmount     decimal.Decimal
	Status          string
	PaymentStatus   string
	CreatedAt       time.Time
}

type OrderDetailViewRow struct {
	OrderDetailPO
	ProductName string
	Unit        string
}

func FromOrderDomain(o *order.Order) *OrderPO {
	return &OrderPO{
		ID:              o.ID(),
		BuyerID:         o.BuyerID(),
		SellerID:        o.SellerID(),
		TotalAmount:     o.Total().Decimal(),
		DeliveryAddress: o.DeliveryAddress(),
		DeliveryDate:    o.DeliveryDate(),
		PaymentMethod:   o.PaymentMethod(),
		Status:          string(o.Status()),
		PaymentStatus:   string(o.PaymentStatus()),
		Notes:           o.Notes(),
		CreatedAt:       o.CreatedAt(),
	}
}

func FromDetailDomain(orderID uint64, d *order.Detail) *OrderDetailPO {
	return &OrderDetailPO{
		ID:        d.ID(),
		OrderID:   orderID,
		ProductID: d.ProductID(),
		Quantity:  d.Quantity().Decimal(),
		UnitPrice: d.UnitPrice().Decimal(),
		Subtotal:  d.Subtotal().Decimal(),
	}
}

func (po *OrderPO) ToDomain(details []OrderDetailPO) *order.Order {
	dtos := make([]order.DetailReconstructionDTO, len(details))
	for i, d := range details {
		dtos[i] = order.DetailReconstructionDTO{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		}
	}
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:              po.ID,
		BuyerID:         po.BuyerID,
		SellerID:        po.SellerID,
		Total:           po.TotalAmount,
		DeliveryAddress: po.DeliveryAddress,
		DeliveryDate:    po.DeliveryDate,
		PaymentMethod:   po.PaymentMethod,
		Status:          po.Status,
		PaymentStatus:   po.PaymentStatus,
		Notes:           po.Notes,
		CreatedAt:       po.CreatedAt,
		Details:         dtos,
	})
}

func (r *OrderViewRow) ToView() *order.View {
	return &order.View{
		ID:              r.ID,
		BuyerID:         r.BuyerID,
		SellerID:        r.SellerID,
		BuyerName:       r.BuyerName,
		BuyerPhone:      r.BuyerPhone,
		SellerName:      r.SellerName,
		SellerPhone:     r.SellerPhone,
		Total:           r.TotalAmount,
		DeliveryAddress: r.DeliveryAddress,
		DeliveryDate:    r.DeliveryDate,
		PaymentMethod:   r.PaymentMethod,
		Status:          order.Status(r.Status),
		PaymentStatus:   order.PaymentStatus(r.PaymentStatus),
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}

func (r *OrderSummaryRow) ToSummary() order.Summary {
	return order.Summary{
		ID:              r.ID,
		CounterpartID:   r.CounterpartID,
		CounterpartName: r.CounterpartName,
		Total:           r.TotalAmount,
		Status:          order.Status(r.Status),
		PaymentStatus:   order.PaymentStatus(r.PaymentStatus),
		CreatedAt:       r.CreatedAt,
	}
}

func (r *OrderDetailViewRow) ToDetailView() order.DetailView {
	return order.DetailView{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Subtotal:    r.Subtotal,
	}
}
