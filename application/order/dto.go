package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest places an order with all its lines at once.
// TotalAmount is optional; when set it must equal the sum of subtotals.
type PlaceOrderRequest struct {
	BuyerID         uint64               `json:"buyer_id"`
	SellerID        uint64               `json:"seller_id"`
	TotalAmount     *decimal.Decimal     `json:"total_amount,omitempty"`
	DeliveryAddress string               `json:"delivery_address"`
	DeliveryDate    *time.Time           `json:"delivery_date,omitempty"`
	PaymentMethod   string               `json:"payment_method"`
	Notes           string               `json:"notes"`
	Details         []OrderDetailRequest `json:"details"`
}

// OrderDetailRequest is one requested line.
type OrderDetailRequest struct {
	ProductID uint64          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// AddOrderDetailRequest appends a line to a pending order.
type AddOrderDetailRequest struct {
	OrderID   uint64          `json:"order_id"`
	ProductID uint64          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type UpdateOrderStatusRequest struct {
	OrderID uint64 `json:"order_id"`
	Status  string `json:"status"`
}

type UpdatePaymentStatusRequest struct {
	OrderID       uint64 `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}

// OrderResponse is an order header with both parties' contact details.
type OrderResponse struct {
	ID              uint64          `json:"id"`
	BuyerID         uint64          `json:"buyer_id"`
	BuyerName       string          `json:"buyer_name"`
	BuyerPhone      string          `json:"buyer_phone"`
	SellerID        uint64          `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	SellerPhone     string          `json:"seller_phone"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderDetailResponse struct {
	ID          uint64          `json:"id"`
	OrderID     uint64          `json:"order_id"`
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderSummaryResponse is a row of a buyer's or seller's order list.
type OrderSummaryResponse struct {
	ID              uint64          `json:"id"`
	CounterpartID   uint64          `json:"counterpart_id"`
	CounterpartName string          `json:"counterpart_name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
}
