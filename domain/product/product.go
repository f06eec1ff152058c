package product

import (
	"strings"
	"time"

	"campodigital/domain/shared"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusSoldOut   Status = "sold_out"
	StatusInactive  Status = "inactive"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAvailable, StatusSoldOut, StatusInactive:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Product is a listing. Price is per unit; quantity is what remains on offer.
type Product struct {
	id          uint64
	ownerID     uint64
	name        string
	description string
	price       shared.Money
	quantity    decimal.Decimal
	unit        string
	category    string
	harvestDate *time.Time
	organic     bool
	status      Status
	createdAt   time.Time
}

// Listing holds the fields accepted when a product is created.
type Listing struct {
	OwnerID     uint64
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	Unit        string
	Category    string
	HarvestDate *time.Time
	Organic     bool
}

// NewProduct validates a listing. New products start available.
func NewProduct(l Listing) (*Product, error) {
	if l.OwnerID == 0 {
		return nil, ErrInvalidOwner
	}
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	price, err := shared.NewMoney(l.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}
	if l.Quantity.IsNegative() {
		return nil, ErrInvalidQuantity
	}
	return &Product{
		ownerID:     l.OwnerID,
		name:        name,
		description: l.Description,
		price:       price,
		quantity:    l.Quantity.Round(shared.Scale),
		unit:        l.Unit,
		category:    l.Category,
		harvestDate: l.HarvestDate,
		organic:     l.Organic,
		status:      StatusAvailable,
		createdAt:   time.Now().UTC(),
	}, nil
}

func (p *Product) ID() uint64                { return p.id }
func (p *Product) OwnerID() uint64           { return p.ownerID }
func (p *Product) Name() string              { return p.name }
func (p *Product) Description() string       { return p.description }
func (p *Product) Price() shared.Money       { return p.price }
func (p *Product) Quantity() decimal.Decimal { return p.quantity }
func (p *Product) Unit() string              { return p.unit }
func (p *Product) Category() string          { return p.category }
func (p *Product) HarvestDate() *time.Time   { return p.harvestDate }
func (p *Product) IsOrganic() bool           { return p.organic }
func (p *Product) Status() Status            { return p.status }
func (p *Product) CreatedAt() time.Time      { return p.createdAt }

func (p *Product) AssignID(id uint64) {
	p.id = id
}

// ReconstructionDTO carries a stored row back into the domain. Repository use only.
type ReconstructionDTO struct {
	ID          uint64
	OwnerID     uint64
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	Unit        string
	Category    string
	HarvestDate *time.Time
	Organic     bool
	Status      string
	CreatedAt   time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Product {
	price, _ := shared.NewMoney(dto.Price)
	return &Product{
		id:          dto.ID,
		ownerID:     dto.OwnerID,
		name:        dto.Name,
		description: dto.Description,
		price:       price,
		quantity:    dto.Quantity,
		unit:        dto.Unit,
		category:    dto.Category,
		harvestDate: dto.HarvestDate,
		organic:     dto.Organic,
		status:      Status(dto.Status),
		createdAt:   dto.CreatedAt,
	}
}

// View is a product joined with its seller's contact details.
type View struct {
	*Product
	SellerName  string
	SellerPhone string
}

// Image is a picture attached to a product. At most one image per product is primary.
type Image struct {
	ID        uint64
	ProductID uint64
	URL       string
	IsPrimary bool
}

func NewImage(productID uint64, url string, primary bool) (*Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrInvalidImageURL
	}
	return &Image{ProductID: productID, URL: url, IsPrimary: primary}, nil
}
