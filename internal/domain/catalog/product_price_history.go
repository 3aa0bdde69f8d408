package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/shared"
)

// ProductPriceHistory is an append-only audit row recording one price change.
// Rows are written by the price-history hook inside the transaction of the
// triggering write and are never mutated or deleted afterwards.
type ProductPriceHistory struct {
	shared.BaseEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_history_prod_type,priority:1"`
	PriceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PriceType PriceType       `gorm:"type:varchar(20);not null;index:idx_price_history_prod_type,priority:2"`
	OldUSD    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	NewUSD    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	OldMDL    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	NewMDL    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	RateUsed  decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	ChangedBy uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ProductPriceHistory) TableName() string {
	return "product_price_history"
}
