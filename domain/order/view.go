package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// View is an order header joined with the names and phones of both parties.
type View struct {
	ID              uint64
	BuyerID         uint64
	SellerID        uint64
	BuyerName       string
	BuyerPhone      string
	SellerName      string
	SellerPhone     string
	Total           decimal.Decimal
	DeliveryAddress string
	DeliveryDate    *time.Time
	PaymentMethod   string
	Status          Status
	PaymentStatus   PaymentStatus
	Notes           string
	CreatedAt       time.Time
}

// Summary is a row of a buyer's or seller's order list. Counterpart is the
// seller's name in a buyer list and the buyer's name in a seller list.
type Summary struct {
	ID              uint64
	CounterpartID   uint64
	CounterpartName string
	Total           decimal.Decimal
	Status          Status
	PaymentStatus   PaymentStatus
	CreatedAt       time.Time
}

// DetailView is an order line joined with its product's name and unit.
type DetailView struct {
	ID          uint64
	OrderID     uint64
	ProductID   uint64
	ProductName string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
