package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityProductPrice is the mutation entity kind for product prices
const EntityProductPrice = "product_price"

// PriceHistoryAppender appends audit rows within the active transaction
type PriceHistoryAppender interface {
	Append(ctx context.Context, row *ProductPriceHistory) error
}

// PriceHistoryHook appends one immutable history row whenever a price row's
// USD or MDL amount changes. A first insert is recorded as a baseline row
// with old equal to new. Updating only rate_used appends nothing.
type PriceHistoryHook struct {
	history PriceHistoryAppender
	logger  *zap.Logger
}

// NewPriceHistoryHook creates the price audit hook
func NewPriceHistoryHook(history PriceHistoryAppender, logger *zap.Logger) *PriceHistoryHook {
	return &PriceHistoryHook{history: history, logger: logger}
}

// Name identifies the hook
func (h *PriceHistoryHook) Name() string { return "log_price_change" }

// Handle appends a history row when a tracked amount changed
func (h *PriceHistoryHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	price, ok := m.Target.(*ProductPrice)
	if !ok {
		return fmt.Errorf("catalog: unexpected target %T for %s", m.Target, EntityProductPrice)
	}

	usdChanged := m.Changes.Changed("price_usd")
	mdlChanged := m.Changes.Changed("price_mdl")
	insert := m.Changes == nil

	if !insert && !usdChanged && !mdlChanged {
		return nil
	}

	actor, err := h.actingStaff(ctx, price)
	if err != nil {
		return err
	}

	row := &ProductPriceHistory{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  price.ProductID,
		PriceID:    price.ID,
		PriceType:  price.PriceType,
		OldUSD:     price.PriceUSD,
		NewUSD:     price.PriceUSD,
		OldMDL:     price.PriceMDL,
		NewMDL:     price.PriceMDL,
		RateUsed:   price.RateUsed,
		ChangedBy:  actor,
	}
	if old, ok := m.Changes.Old("price_usd"); ok {
		row.OldUSD = toDecimal(old)
	}
	if old, ok := m.Changes.Old("price_mdl"); ok {
		row.OldMDL = toDecimal(old)
	}

	if err := h.history.Append(ctx, row); err != nil {
		return err
	}
	h.logger.Info("price change recorded",
		zap.String("product_id", price.ProductID.String()),
		zap.String("price_type", string(price.PriceType)),
		zap.String("old_usd", row.OldUSD.String()),
		zap.String("new_usd", row.NewUSD.String()),
	)
	return nil
}

// actingStaff resolves who made the change: the ambient actor, falling back
// to the row's own audit stamps. A price change with no attributable staff
// member violates the audit invariant.
func (h *PriceHistoryHook) actingStaff(ctx context.Context, price *ProductPrice) (uuid.UUID, error) {
	if actor, ok := shared.ActorFrom(ctx); ok {
		return actor, nil
	}
	if price.ModifiedBy != nil {
		return *price.ModifiedBy, nil
	}
	if price.CreatedBy != nil {
		return *price.CreatedBy, nil
	}
	return uuid.Nil, shared.NewIntegrityViolation(EntityProductPrice, "price change requires an acting staff member")
}

func toDecimal(v any) decimal.Decimal {
	switch d := v.(type) {
	case decimal.Decimal:
		return d
	case *decimal.Decimal:
		if d != nil {
			return *d
		}
	case string:
		if parsed, err := decimal.NewFromString(d); err == nil {
			return parsed
		}
	case float64:
		return decimal.NewFromFloat(d)
	}
	return decimal.Zero
}
