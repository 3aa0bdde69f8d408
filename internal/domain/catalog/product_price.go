package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/shared"
)

// PriceType is the customer tier a price row applies to
type PriceType string

const (
	PriceTypeAnonymous PriceType = "anonymous"
	PriceTypeUser      PriceType = "user"
	PriceTypeInstaller PriceType = "installer"
	PriceTypePro       PriceType = "pro"
)

// Valid reports whether the price type is a known tier
func (t PriceType) Valid() bool {
	switch t {
	case PriceTypeAnonymous, PriceTypeUser, PriceTypeInstaller, PriceTypePro:
		return true
	}
	return false
}

// ProductPrice is the active price of a product for one customer tier, held
// in both USD and MDL. Every amount change appends an immutable
// ProductPriceHistory row via the price-history hook.
type ProductPrice struct {
	shared.AuditedEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_product_type,priority:1"`
	PriceType PriceType       `gorm:"type:varchar(20);not null;uniqueIndex:idx_price_product_type,priority:2"`
	PriceUSD  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	PriceMDL  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	RateUsed  decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	IsActive  bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductPrice) TableName() string {
	return "product_prices"
}

func validateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError(field, "amount cannot be negative")
	}
	return nil
}

// NewProductPrice creates a price row for a product and tier
func NewProductPrice(productID uuid.UUID, priceType PriceType, usd, mdl, rate decimal.Decimal) (*ProductPrice, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "price requires a product")
	}
	if !priceType.Valid() {
		return nil, shared.NewValidationError("price_type", "unknown price type")
	}
	if err := validateAmount("price_usd", usd); err != nil {
		return nil, err
	}
	if err := validateAmount("price_mdl", mdl); err != nil {
		return nil, err
	}
	if !rate.IsPositive() {
		return nil, shared.NewValidationError("rate_used", "exchange rate must be positive")
	}
	return &ProductPrice{
		AuditedEntity: shared.NewAuditedEntity(),
		ProductID:     productID,
		PriceType:     priceType,
		PriceUSD:      usd,
		PriceMDL:      mdl,
		RateUsed:      rate,
		IsActive:      true,
	}, nil
}

// ChangeAmounts sets new USD/MDL amounts and the rate they were derived with
func (p *ProductPrice) ChangeAmounts(usd, mdl, rate decimal.Decimal) error {
	if err := validateAmount("price_usd", usd); err != nil {
		return err
	}
	if err := validateAmount("price_mdl", mdl); err != nil {
		return err
	}
	if !rate.IsPositive() {
		return shared.NewValidationError("rate_used", "exchange rate must be positive")
	}
	p.PriceUSD = usd
	p.PriceMDL = mdl
	p.RateUsed = rate
	p.UpdatedAt = time.Now()
	return nil
}
