package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindActive finds active categories ordered for display
	FindActive(ctx context.Context) ([]Category, error)

	// ExistsByNameFold reports whether another category already uses the name,
	// compared case-insensitively. excludeID skips the entity's own row on
	// updates; pass uuid.Nil on create.
	ExistsByNameFold(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// HasProducts checks if a category has any associated products
	HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByCategory lists products in a category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// ExistsBySKU reports whether a product with the SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// Exists reports whether a product row exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductImageRepository defines the interface for product image persistence.
// Save and Delete run the catalog lifecycle hooks inside their transaction.
type ProductImageRepository interface {
	// FindByID finds an image by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)

	// FindByProduct lists a product's images, primary first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)

	// CountByProduct counts a product's images
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// Save creates or updates an image row
	Save(ctx context.Context, image *ProductImage) error

	// Delete deletes an image row
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductPriceRepository defines the interface for price persistence
type ProductPriceRepository interface {
	// FindByID finds a price row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductPrice, error)

	// FindByProductAndType finds the price row for a product and tier
	FindByProductAndType(ctx context.Context, productID uuid.UUID, priceType PriceType) (*ProductPrice, error)

	// FindByProduct lists all tier prices of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductPrice, error)

	// Save creates or updates a price row
	Save(ctx context.Context, price *ProductPrice) error
}

// ProductPriceHistoryRepository reads the append-only price audit trail.
// There are deliberately no update or delete operations.
type ProductPriceHistoryRepository interface {
	// FindByProduct lists history rows for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductPriceHistory, error)

	// FindByPrice lists history rows for one price row, newest first
	FindByPrice(ctx context.Context, priceID uuid.UUID) ([]ProductPriceHistory, error)
}

// ExchangeRateRepository defines the interface for exchange rate persistence
type ExchangeRateRepository interface {
	// Latest returns the most recently fetched rate
	Latest(ctx context.Context) (*ExchangeRate, error)

	// Save records a new rate
	Save(ctx context.Context, rate *ExchangeRate) error
}
