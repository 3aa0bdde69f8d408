package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProduct      = "Product"
	AggregateTypeProductImage = "ProductImage"
	AggregateTypeProductPrice = "ProductPrice"
)

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductUpdated      = "ProductUpdated"
	EventTypePrimaryImageChanged = "PrimaryImageChanged"
	EventTypePriceChanged        = "PriceChanged"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		CategoryID:      product.CategoryID,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
	}
}

// PrimaryImageChangedEvent is published when a product's primary image changes
type PrimaryImageChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	ImageID   uuid.UUID `json:"image_id"`
}

// NewPrimaryImageChangedEvent creates a new PrimaryImageChangedEvent
func NewPrimaryImageChangedEvent(image *ProductImage) *PrimaryImageChangedEvent {
	return &PrimaryImageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrimaryImageChanged, AggregateTypeProductImage, image.ID),
		ProductID:       image.ProductID,
		ImageID:         image.ID,
	}
}

// PriceChangedEvent is published when a product price row changes amount
type PriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	PriceType PriceType       `json:"price_type"`
	NewUSD    decimal.Decimal `json:"new_usd"`
	NewMDL    decimal.Decimal `json:"new_mdl"`
}

// NewPriceChangedEvent creates a new PriceChangedEvent
func NewPriceChangedEvent(price *ProductPrice) *PriceChangedEvent {
	return &PriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceChanged, AggregateTypeProductPrice, price.ID),
		ProductID:       price.ProductID,
		PriceType:       price.PriceType,
		NewUSD:          price.PriceUSD,
		NewMDL:          price.PriceMDL,
	}
}
