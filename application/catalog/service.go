/*
Package catalog serves product listings and their images.
*/
package catalog

import (
	"context"
	"errors"
	"time"

	"campodigital/domain/product"
	"campodigital/domain/shared"

	"github.com/shopspring/decimal"
)

type ApplicationService struct {
	productRepo product.Repository
}

func NewApplicationService(productRepo product.Repository) *ApplicationService {
	return &ApplicationService{productRepo: productRepo}
}

// CreateProductRequest Create listing request DTO
type CreateProductRequest struct {
	OwnerID     uint64          `json:"user_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	HarvestDate *time.Time      `json:"harvest_date,omitempty"`
	IsOrganic   bool            `json:"is_organic"`
}

// ProductResponse is a listing with its seller's contact details.
type ProductResponse struct {
	ID          uint64          `json:"id"`
	OwnerID     uint64          `json:"user_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	HarvestDate *time.Time      `json:"harvest_date,omitempty"`
	IsOrganic   bool            `json:"is_organic"`
	Status      string          `json:"status"`
	SellerName  string          `json:"seller_name"`
	SellerPhone string          `json:"seller_phone"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ImageResponse struct {
	ID        uint64 `json:"id"`
	ProductID uint64 `json:"product_id"`
	URL       string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// CreateProduct stores a new available listing and returns its id.
func (s *ApplicationService) CreateProduct(ctx context.Context, req CreateProductRequest) (uint64, error) {
	p, err := product.NewProduct(product.Listing{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Category:    req.Category,
		HarvestDate: req.HarvestDate,
		Organic:     req.IsOrganic,
	})
	if err != nil {
		return 0, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return 0, err
	}
	return p.ID(), nil
}

// GetProduct returns nil, nil when the listing does not exist.
func (s *ApplicationService) GetProduct(ctx context.Context, productID uint64) (*ProductResponse, error) {
	v, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toProductResponse(v), nil
}

func (s *ApplicationService) ListByOwner(ctx context.Context, ownerID uint64) ([]*ProductResponse, error) {
	return s.find(ctx, product.ByOwnerSpecification{OwnerID: ownerID})
}

func (s *ApplicationService) GetAvailableProducts(ctx context.Context) ([]*ProductResponse, error) {
	return s.find(ctx, product.Available())
}

// GetProductsByCategory lists available listings in category.
func (s *ApplicationService) GetProductsByCategory(ctx context.Context, category string) ([]*ProductResponse, error) {
	return s.find(ctx, product.AvailableInCategory(category))
}

func (s *ApplicationService) find(ctx context.Context, spec shared.Specification) ([]*ProductResponse, error) {
	views, err := s.productRepo.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	out := make([]*ProductResponse, len(views))
	for i, v := range views {
		out[i] = toProductResponse(v)
	}
	return out, nil
}

// UpdateProduct applies a partial update. Empty patches are rejected.
func (s *ApplicationService) UpdateProduct(ctx context.Context, productID uint64, patch product.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.productRepo.Update(ctx, productID, patch)
}

// DeleteProduct removes a listing and its images. Listings that appear on
// an order are kept and product.ErrProductInUse is returned.
func (s *ApplicationService) DeleteProduct(ctx context.Context, productID uint64) error {
	return s.productRepo.Delete(ctx, productID)
}

// AddProductImage attaches an image. A primary image replaces the previous primary.
func (s *ApplicationService) AddProductImage(ctx context.Context, productID uint64, url string, primary bool) (*ImageResponse, error) {
	img, err := product.NewImage(productID, url, primary)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return toImageResponse(*img), nil
}

// GetProductImages lists images, primary first.
func (s *ApplicationService) GetProductImages(ctx context.Context, productID uint64) ([]*ImageResponse, error) {
	images, err := s.productRepo.Images(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]*ImageResponse, len(images))
	for i, img := range images {
		out[i] = toImageResponse(img)
	}
	return out, nil
}

func toProductResponse(v *product.View) *ProductResponse {
	return &ProductResponse{
		ID:          v.ID(),
		OwnerID:     v.OwnerID(),
		Name:        v.Name(),
		Description: v.Description(),
		Price:       v.Price().Decimal(),
		Quantity:    v.Quantity(),
		Unit:        v.Unit(),
		Category:    v.Category(),
		HarvestDate: v.HarvestDate(),
		IsOrganic:   v.IsOrganic(),
		Status:      string(v.Status()),
		SellerName:  v.SellerName,
		SellerPhone: v.SellerPhone,
		CreatedAt:   v.CreatedAt(),
	}
}

func toImageResponse(img product.Image) *ImageResponse {
	return &ImageResponse{
		ID:        img.ID,
		ProductID: img.ProductID,
		URL:       img.URL,
		IsPrimary: img.IsPrimary,
	}
}
