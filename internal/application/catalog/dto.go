package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/catalog"
)

// CreateCategoryRequest is the payload for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   *int   `json:"sort_order"`
}

// UpdateCategoryRequest is the payload for updating a category
type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryResponse is the API shape of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImagePath   string    `json:"image_path"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse maps a category to its API shape
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImagePath:   c.ImagePath,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateProductRequest is the payload for creating a product
type CreateProductRequest struct {
	SKU         string    `json:"sku" binding:"required,max=64"`
	Name        string    `json:"name" binding:"required,min=2,max=255"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
}

// UpdateProductRequest is the payload for updating a product
type UpdateProductRequest struct {
	Name        string     `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
	IsActive    *bool      `json:"is_active"`
}

// ProductResponse is the API shape of a product
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse maps a product to its API shape
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// AddImageRequest is the payload for attaching an image to a product
type AddImageRequest struct {
	ImagePath string `json:"image_path" binding:"required,max=500"`
	FileName  string `json:"file_name" binding:"required,max=255"`
	FileSize  int64  `json:"file_size" binding:"required,gt=0"`
	AltText   string `json:"alt_text" binding:"max=255"`
	IsPrimary bool   `json:"is_primary"`
}

// ImageResponse is the API shape of a product image
type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	ImagePath string    `json:"image_path"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ToImageResponse maps a product image to its API shape
func ToImageResponse(i *catalog.ProductImage) *ImageResponse {
	return &ImageResponse{
		ID:        i.ID,
		ProductID: i.ProductID,
		ImagePath: i.ImagePath,
		FileName:  i.FileName,
		FileSize:  i.FileSize,
		AltText:   i.AltText,
		IsPrimary: i.IsPrimary,
		SortOrder: i.SortOrder,
		CreatedAt: i.CreatedAt,
	}
}

// SetPriceRequest is the payload for setting a product's tier price. The MDL
// amount is derived from the latest exchange rate when omitted.
type SetPriceRequest struct {
	PriceType catalog.PriceType `json:"price_type" binding:"required"`
	PriceUSD  decimal.Decimal   `json:"price_usd" binding:"required"`
	PriceMDL  *decimal.Decimal  `json:"price_mdl"`
}

// PriceResponse is the API shape of a price row
type PriceResponse struct {
	ID        uuid.UUID         `json:"id"`
	ProductID uuid.UUID         `json:"product_id"`
	PriceType catalog.PriceType `json:"price_type"`
	PriceUSD  decimal.Decimal   `json:"price_usd"`
	PriceMDL  decimal.Decimal   `json:"price_mdl"`
	RateUsed  decimal.Decimal   `json:"rate_used"`
	IsActive  bool              `json:"is_active"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToPriceResponse maps a price row to its API shape
func ToPriceResponse(p *catalog.ProductPrice) *PriceResponse {
	return &PriceResponse{
		ID:        p.ID,
		ProductID: p.ProductID,
		PriceType: p.PriceType,
		PriceUSD:  p.PriceUSD,
		PriceMDL:  p.PriceMDL,
		RateUsed:  p.RateUsed,
		IsActive:  p.IsActive,
		UpdatedAt: p.UpdatedAt,
	}
}

// PriceHistoryResponse is the API shape of one price audit row
type PriceHistoryResponse struct {
	ID        uuid.UUID         `json:"id"`
	PriceType catalog.PriceType `json:"price_type"`
	OldUSD    decimal.Decimal   `json:"old_usd"`
	NewUSD    decimal.Decimal   `json:"new_usd"`
	OldMDL    decimal.Decimal   `json:"old_mdl"`
	NewMDL    decimal.Decimal   `json:"new_mdl"`
	RateUsed  decimal.Decimal   `json:"rate_used"`
	ChangedBy uuid.UUID         `json:"changed_by"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToPriceHistoryResponse maps a price history row to its API shape
func ToPriceHistoryResponse(h *catalog.ProductPriceHistory) PriceHistoryResponse {
	return PriceHistoryResponse{
		ID:        h.ID,
		PriceType: h.PriceType,
		OldUSD:    h.OldUSD,
		NewUSD:    h.NewUSD,
		OldMDL:    h.OldMDL,
		NewMDL:    h.NewMDL,
		RateUsed:  h.RateUsed,
		ChangedBy: h.ChangedBy,
		CreatedAt: h.CreatedAt,
	}
}
