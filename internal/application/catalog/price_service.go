package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PriceService sets and updates product tier prices. The price audit trail is
// maintained by the price-history hook, not here.
type PriceService struct {
	prices   catalog.ProductPriceRepository
	history  catalog.ProductPriceHistoryRepository
	products catalog.ProductRepository
	rates    catalog.ExchangeRateRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewPriceService creates a new PriceService
func NewPriceService(
	prices catalog.ProductPriceRepository,
	history catalog.ProductPriceHistoryRepository,
	products catalog.ProductRepository,
	rates catalog.ExchangeRateRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PriceService {
	return &PriceService{
		prices:   prices,
		history:  history,
		products: products,
		rates:    rates,
		events:   events,
		logger:   logger,
	}
}

// Set creates or updates the price row for a product and tier. When no MDL
// amount is given it is derived from the latest exchange rate.
func (s *PriceService) Set(ctx context.Context, productID uuid.UUID, req SetPriceRequest) (*PriceResponse, error) {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	rate, err := s.rates.Latest(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		rate = nil
	}

	var mdl, rateUsed decimal.Decimal
	switch {
	case req.PriceMDL != nil:
		mdl = *req.PriceMDL
		switch {
		case rate != nil:
			rateUsed = rate.Rate
		case req.PriceUSD.IsPositive():
			// No rate on record: the audit row still needs a positive
			// rate_used, so derive it from the given amounts.
			rateUsed = mdl.Div(req.PriceUSD).Round(4)
		default:
			return nil, shared.NewDomainError("NO_EXCHANGE_RATE",
				"cannot derive an exchange rate for the price audit trail")
		}
	case rate != nil:
		mdl = rate.Convert(req.PriceUSD)
		rateUsed = rate.Rate
	default:
		return nil, shared.NewDomainError("NO_EXCHANGE_RATE",
			"cannot derive MDL price: no exchange rate on record and none provided")
	}

	price, err := s.prices.FindByProductAndType(ctx, productID, req.PriceType)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		price, err = catalog.NewProductPrice(productID, req.PriceType, req.PriceUSD, mdl, rateUsed)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := price.ChangeAmounts(req.PriceUSD, mdl, rateUsed); err != nil {
			return nil, err
		}
	}

	if err := s.prices.Save(ctx, price); err != nil {
		return nil, err
	}
	if err := s.events.Publish(ctx, catalog.NewPriceChangedEvent(price)); err != nil {
		s.logger.Warn("failed to publish price change event", zap.Error(err))
	}
	return ToPriceResponse(price), nil
}

// ListByProduct lists all tier prices of a product
func (s *PriceService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]PriceResponse, error) {
	prices, err := s.prices.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]PriceResponse, len(prices))
	for i := range prices {
		responses[i] = *ToPriceResponse(&prices[i])
	}
	return responses, nil
}

// History lists the audit trail of a product's price changes, newest first
func (s *PriceService) History(ctx context.Context, productID uuid.UUID) ([]PriceHistoryResponse, error) {
	rows, err := s.history.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]PriceHistoryResponse, len(rows))
	for i := range rows {
		responses[i] = ToPriceHistoryResponse(&rows[i])
	}
	return responses, nil
}
