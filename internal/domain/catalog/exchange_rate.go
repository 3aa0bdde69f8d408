package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/shared"
)

// ExchangeRate is the USD→MDL conversion rate in effect when prices are set
type ExchangeRate struct {
	shared.BaseEntity
	Base      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Quote     string          `gorm:"type:varchar(3);not null;default:'MDL'"`
	Rate      decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	FetchedAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}

// NewExchangeRate records a freshly fetched rate
func NewExchangeRate(rate decimal.Decimal, fetchedAt time.Time) (*ExchangeRate, error) {
	if !rate.IsPositive() {
		return nil, shared.NewValidationError("rate", "exchange rate must be positive")
	}
	return &ExchangeRate{
		BaseEntity: shared.NewBaseEntity(),
		Base:       "USD",
		Quote:      "MDL",
		Rate:       rate,
		FetchedAt:  fetchedAt,
	}, nil
}

// StaleDays reports how many full days old the rate is at the given time
func (r *ExchangeRate) StaleDays(now time.Time) int {
	return int(now.Sub(r.FetchedAt).Hours() / 24)
}

// Convert derives the MDL amount for a USD amount, rounded to cents
func (r *ExchangeRate) Convert(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(r.Rate).Round(2)
}
