package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductPriceRepository implements catalog.ProductPriceRepository.
// Writes run the price lifecycle hooks, so every amount change lands in the
// history table within the same transaction.
type GormProductPriceRepository struct {
	db    *gorm.DB
	hooks *lifecycle.Dispatcher
}

// NewGormProductPriceRepository creates a new GormProductPriceRepository
func NewGormProductPriceRepository(db *gorm.DB, hooks *lifecycle.Dispatcher) *GormProductPriceRepository {
	return &GormProductPriceRepository{db: db, hooks: hooks}
}

// FindByID finds a price row by its ID
func (r *GormProductPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductPrice, error) {
	var price catalog.ProductPrice
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&price, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindByProductAndType finds the price row for a product and tier
func (r *GormProductPriceRepository) FindByProductAndType(ctx context.Context, productID uuid.UUID, priceType catalog.PriceType) (*catalog.ProductPrice, error) {
	var price catalog.ProductPrice
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND price_type = ?", productID, priceType).
		First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindByProduct lists all tier prices of a product
func (r *GormProductPriceRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductPrice, error) {
	var prices []catalog.ProductPrice
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("price_type ASC").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Save creates or updates a price row, running the price hooks in the
// write transaction
func (r *GormProductPriceRepository) Save(ctx context.Context, price *catalog.ProductPrice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var existing catalog.ProductPrice
		err := tx.First(&existing, "id = ?", price.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := &lifecycle.Mutation{Entity: catalog.EntityProductPrice, Target: price}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeInsert, m); err != nil {
				return err
			}
			if err := tx.Create(price).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterInsert, m)
		case err != nil:
			return err
		default:
			m := &lifecycle.Mutation{
				Entity:  catalog.EntityProductPrice,
				Target:  price,
				Changes: priceChanges(&existing, price),
			}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeUpdate, m); err != nil {
				return err
			}
			if err := tx.Save(price).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterUpdate, m)
		}
	})
}

// priceChanges records amount and rate changes for the audit hook
func priceChanges(old, updated *catalog.ProductPrice) lifecycle.Changes {
	changes := lifecycle.Changes{}
	if !old.PriceUSD.Equal(updated.PriceUSD) {
		changes["price_usd"] = lifecycle.Change{Old: old.PriceUSD, New: updated.PriceUSD}
	}
	if !old.PriceMDL.Equal(updated.PriceMDL) {
		changes["price_mdl"] = lifecycle.Change{Old: old.PriceMDL, New: updated.PriceMDL}
	}
	if !old.RateUsed.Equal(updated.RateUsed) {
		changes["rate_used"] = lifecycle.Change{Old: old.RateUsed, New: updated.RateUsed}
	}
	return changes
}

var _ catalog.ProductPriceRepository = (*GormProductPriceRepository)(nil)

// GormPriceHistoryRepository reads the append-only price audit trail and
// doubles as the appender the price hook writes through.
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GormPriceHistoryRepository
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// FindByProduct lists history rows for a product, newest first
func (r *GormPriceHistoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductPriceHistory, error) {
	var rows []catalog.ProductPriceHistory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByPrice lists history rows for one price row, newest first
func (r *GormPriceHistoryRepository) FindByPrice(ctx context.Context, priceID uuid.UUID) ([]catalog.ProductPriceHistory, error) {
	var rows []catalog.ProductPriceHistory
	if err := r.db.WithContext(ctx).
		Where("price_id = ?", priceID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Append inserts one audit row within the active transaction
func (r *GormPriceHistoryRepository) Append(ctx context.Context, row *catalog.ProductPriceHistory) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(row).Error
}

var (
	_ catalog.ProductPriceHistoryRepository = (*GormPriceHistoryRepository)(nil)
	_ catalog.PriceHistoryAppender          = (*GormPriceHistoryRepository)(nil)
)

// GormExchangeRateRepository implements catalog.ExchangeRateRepository
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

// Latest returns the most recently fetched rate
func (r *GormExchangeRateRepository) Latest(ctx context.Context) (*catalog.ExchangeRate, error) {
	var rate catalog.ExchangeRate
	if err := r.db.WithContext(ctx).
		Order("fetched_at DESC").
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// Save records a new rate
func (r *GormExchangeRateRepository) Save(ctx context.Context, rate *catalog.ExchangeRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

var _ catalog.ExchangeRateRepository = (*GormExchangeRateRepository)(nil)
