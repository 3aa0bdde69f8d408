package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// Product is a sellable catalog item. Images and prices are separate
// aggregates maintained by their own hooks.
type Product struct {
	shared.BaseAggregateRoot
	SKU         string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewValidationError("sku", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewValidationError("sku", "SKU cannot exceed 64 characters")
	}
	if !skuPattern.MatchString(sku) {
		return shared.NewValidationError("sku", "SKU can only contain uppercase letters, digits, underscore and hyphen")
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("name", "product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("name", "product name cannot exceed 255 characters")
	}
	return nil
}

// NewProduct creates a new product in a category
func NewProduct(sku, name, description string, categoryID uuid.UUID) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewValidationError("category_id", "product requires a category")
	}

	name = strings.TrimSpace(name)
	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Slug:              shared.Slugify(name),
		Description:       description,
		CategoryID:        categoryID,
		IsActive:          true,
	}
	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// Update changes the product's name and description
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Slug = shared.Slugify(p.Name)
	p.Description = description
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// MoveToCategory reassigns the product to another category
func (p *Product) MoveToCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewValidationError("category_id", "product requires a category")
	}
	p.CategoryID = categoryID
	p.touch()
	return nil
}

// Activate puts the product on sale
func (p *Product) Activate() {
	p.IsActive = true
	p.touch()
}

// Deactivate withdraws the product from sale
func (p *Product) Deactivate() {
	p.IsActive = false
	p.touch()
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
