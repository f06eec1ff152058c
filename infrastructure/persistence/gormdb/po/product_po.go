package po

import (
	"time"

	"campodigital/domain/product"

	"github.com/shopspring/decimal"
)

type ProductPO struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	UserID      uint64          `gorm:"index;not null"` // owner, no association
	Name        string          `gorm:"size:100;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unit        string          `gorm:"size:20"`
	Category    string          `gorm:"size:50;index"`
	HarvestDate *time.Time      `gorm:"type:date"`
	IsOrganic   bool            `gorm:"not null;default:false"`
	Status      string          `gorm:"size:20;index;not null;default:available"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index"`
}

func (ProductPO) TableName() string {
	return "products"
}

type ProductImagePO struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ProductID uint64 `gorm:"index;not null"`
	ImageURL  string `gorm:"size:255;not null"`
	IsPrimary bool   `gorm:"not null;default:false"`
}

func (ProductImagePO) TableName() string {
	return "product_images"
}

// ProductViewRow is a product row joined with its seller.
type ProductViewRow struct {
	ProductPO
	SellerName  string
	SellerPhone string
}

func FromProductDomain(p *product.Product) *ProductPO {
	return &ProductPO{
		ID:          p.ID(),
		UserID:      p.OwnerID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price().Decimal(),
		Quantity:    p.Quantity(),
		Unit:        p.Unit(),
		Category:    p.Category(),
		HarvestDate: p.HarvestDate(),
		IsOrganic:   p.IsOrganic(),
		Status:      string(p.Status()),
		CreatedAt:   p.CreatedAt(),
	}
}

func (po *ProductPO) ToDomain() *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:          po.ID,
		OwnerID:     po.UserID,
		Name:        po.Name,
		Description: po.Description,
		Price:       po.Price,
		Quantity:    po.Quantity,
		Unit:        po.Unit,
		Category:    po.Category,
		HarvestDate: po.HarvestDate,
		Organic:     po.IsOrganic,
		Status:      po.Status,
		CreatedAt:   po.CreatedAt,
	})
}

func (r *ProductViewRow) ToView() *product.View {
	return &product.View{
		Product:     r.ProductPO.ToDomain(),
		SellerName:  r.SellerName,
		SellerPhone: r.SellerPhone,
	}
}

func FromImageDomain(img *product.Image) *ProductImagePO {
	return &ProductImagePO{
		ID:        img.ID,
		ProductID: img.ProductID,
		ImageURL:  img.URL,
		IsPrimary: img.IsPrimary,
	}
}

func (po *ProductImagePO) ToDomain() product.Image {
	return product.Image{
		ID:        po.ID,
		ProductID: po.ProductID,
		URL:       po.ImageURL,
		IsPrimary: po.IsPrimary,
	}
}

func ProductPatchColumns(p product.Patch) map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Price != nil {
		cols["price"] = p.Price.Round(2)
	}
	if p.Quantity != nil {
		cols["quantity"] = p.Quantity.Round(2)
	}
	if p.Unit != nil {
		cols["unit"] = *p.Unit
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.HarvestDate != nil {
		cols["harvest_date"] = *p.HarvestDate
	}
	if p.Organic != nil {
		cols["is_organic"] = *p.Organic
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	return cols
}
