package catalog

import (
	"strings"
	"time"

	"github.com/solarmd/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategoryImagePath is assigned when a category has no usable image
const DefaultCategoryImagePath = "static/shop/category/cat_default.png"

var titleCaser = cases.Title(language.English)

// Category organizes products in the shop catalog. Names are normalized at
// assignment time and unique case-insensitively across the table; the
// uniqueness check itself lives in the service because it needs the store.
type Category struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(255);not null"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ImagePath   string `gorm:"type:varchar(500);not null;default:''"`
	SortOrder   int    `gorm:"not null;default:0"`
	IsUnknown   bool   `gorm:"not null;default:false;index"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NormalizeCategoryName trims and title-cases a candidate category name
func NormalizeCategoryName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// validateCategoryName rejects empty or whitespace-only names
func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("name", "category name cannot be empty or whitespace only")
	}
	if len(name) > 255 {
		return shared.NewValidationError("name", "category name cannot exceed 255 characters")
	}
	return nil
}

// NewCategory creates a category with a normalized name and derived slug
func NewCategory(name, description string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	normalized := NormalizeCategoryName(name)

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              normalized,
		Slug:              shared.Slugify(normalized),
		Description:       description,
		IsActive:          true,
	}
	category.AddDomainEvent(NewCategoryCreatedEvent(category))
	return category, nil
}

// Rename updates the category name, re-normalizing and re-deriving the slug
func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = NormalizeCategoryName(name)
	c.Slug = shared.Slugify(c.Name)
	c.touch()
	c.AddDomainEvent(NewCategoryUpdatedEvent(c))
	return nil
}

// UpdateDescription updates the free-text description
func (c *Category) UpdateDescription(description string) {
	c.Description = description
	c.touch()
	c.AddDomainEvent(NewCategoryUpdatedEvent(c))
}

// SetImagePath replaces the category image path. The default-image fallback
// and old-file cleanup are hook responsibilities.
func (c *Category) SetImagePath(path string) {
	c.ImagePath = path
	c.touch()
}

// SetSortOrder sets the display position
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.touch()
}

// Activate makes the category visible on the shop front
func (c *Category) Activate() {
	c.IsActive = true
	c.touch()
}

// Deactivate hides the category without deleting it
func (c *Category) Deactivate() {
	c.IsActive = false
	c.touch()
}

func (c *Category) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
