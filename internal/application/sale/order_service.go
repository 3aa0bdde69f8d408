// Package sale contains application services for carts and orders.
package sale

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/sale"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AddToCartRequest is the payload for adding a product to the cart
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// TransitionRequest is the payload for moving an order between statuses
type TransitionRequest struct {
	Status  sale.OrderStatus `json:"status" binding:"required"`
	Comment string           `json:"comment" binding:"max=2000"`
}

// CartResponse is the API shape of a cart
type CartResponse struct {
	ID       uuid.UUID          `json:"id"`
	ClientID uuid.UUID          `json:"client_id"`
	Status   sale.CartStatus    `json:"status"`
	Items    []CartItemResponse `json:"items"`
	TotalMDL decimal.Decimal    `json:"total_mdl"`
}

// CartItemResponse is the API shape of a cart line
type CartItemResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int             `json:"quantity"`
	UnitPriceMDL decimal.Decimal `json:"unit_price_mdl"`
}

// OrderResponse is the API shape of an order
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Number    string              `json:"number"`
	ClientID  uuid.UUID           `json:"client_id"`
	Status    sale.OrderStatus    `json:"status"`
	TotalMDL  decimal.Decimal     `json:"total_mdl"`
	Comment   string              `json:"comment,omitempty"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

// OrderItemResponse is the API shape of an order line
type OrderItemResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitPriceMDL decimal.Decimal `json:"unit_price_mdl"`
}

// StatusHistoryResponse is the API shape of one status transition
type StatusHistoryResponse struct {
	OldStatus sale.OrderStatus `json:"old_status"`
	NewStatus sale.OrderStatus `json:"new_status"`
	ChangedBy uuid.UUID        `json:"changed_by"`
	Comment   string           `json:"comment,omitempty"`
	ChangedAt time.Time        `json:"changed_at"`
}

// OrderService drives the cart → order flow and audited status transitions
type OrderService struct {
	carts    sale.CartRepository
	orders   sale.OrderRepository
	history  sale.OrderStatusHistoryRepository
	products catalog.ProductRepository
	prices   catalog.ProductPriceRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	carts sale.CartRepository,
	orders sale.OrderRepository,
	history sale.OrderStatusHistoryRepository,
	products catalog.ProductRepository,
	prices catalog.ProductPriceRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		carts:    carts,
		orders:   orders,
		history:  history,
		products: products,
		prices:   prices,
		events:   events,
		logger:   logger,
	}
}

// AddToCart adds a product line to the client's open cart, creating the cart
// on first use. The line is priced at the client's tier.
func (s *OrderService) AddToCart(ctx context.Context, clientID uuid.UUID, tier catalog.PriceType, req AddToCartRequest) (*CartResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	price, err := s.prices.FindByProductAndType(ctx, product.ID, tier)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_PRICE", "product has no price for this tier")
		}
		return nil, err
	}

	cart, err := s.carts.FindOpenByClient(ctx, clientID)
	if errors.Is(err, shared.ErrNotFound) {
		cart, err = sale.NewCart(clientID)
	}
	if err != nil {
		return nil, err
	}

	if err := cart.AddItem(product.ID, req.Quantity, price.PriceMDL); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return toCartResponse(cart), nil
}

// RemoveFromCart drops a product line from the client's open cart
func (s *OrderService) RemoveFromCart(ctx context.Context, clientID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.carts.FindOpenByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return toCartResponse(cart), nil
}

// GetCart returns the client's open cart
func (s *OrderService) GetCart(ctx context.Context, clientID uuid.UUID) (*CartResponse, error) {
	cart, err := s.carts.FindOpenByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(cart), nil
}

// Checkout converts the client's open cart into a pending order
func (s *OrderService) Checkout(ctx context.Context, clientID uuid.UUID, comment string) (*OrderResponse, error) {
	cart, err := s.carts.FindOpenByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := cart.CheckOut(); err != nil {
		return nil, err
	}

	// Snapshot product names so the order survives later catalog edits.
	names := make(map[uuid.UUID]string, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		names[item.ProductID] = product.Name
	}

	seq, err := s.orders.NextSequence(ctx)
	if err != nil {
		return nil, err
	}
	order, err := sale.NewOrderFromCart(cart, sale.NewOrderNumber(time.Now(), seq), names)
	if err != nil {
		return nil, err
	}
	order.Comment = comment

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.publish(ctx, order)
	return toOrderResponse(order), nil
}

// Transition moves an order along the fulfilment state machine. The status
// hook archives the transition within the write transaction.
func (s *OrderService) Transition(ctx context.Context, orderID uuid.UUID, req TransitionRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(req.Status); err != nil {
		return nil, err
	}
	if req.Comment != "" {
		order.Comment = req.Comment
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)
	return toOrderResponse(order), nil
}

// GetByNumber retrieves an order by its public number
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ListByClient lists a client's orders, newest first
func (s *OrderService) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orders.FindByClient(ctx, clientID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = *toOrderResponse(&orders[i])
	}
	return responses, nil
}

// StatusHistory lists an order's audited transitions, oldest first
func (s *OrderService) StatusHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistoryResponse, error) {
	rows, err := s.history.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]StatusHistoryResponse, len(rows))
	for i, row := range rows {
		responses[i] = StatusHistoryResponse{
			OldStatus: row.OldStatus,
			NewStatus: row.NewStatus,
			ChangedBy: row.ChangedBy,
			Comment:   row.Comment,
			ChangedAt: row.CreatedAt,
		}
	}
	return responses, nil
}

func (s *OrderService) publish(ctx context.Context, order *sale.Order) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events", zap.Error(err))
	}
	order.ClearDomainEvents()
}

func toCartResponse(cart *sale.Cart) *CartResponse {
	items := make([]CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemResponse{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPriceMDL: item.UnitPriceMDL,
		}
	}
	return &CartResponse{
		ID:       cart.ID,
		ClientID: cart.ClientID,
		Status:   cart.Status,
		Items:    items,
		TotalMDL: cart.Total(),
	}
}

func toOrderResponse(order *sale.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPriceMDL: item.UnitPriceMDL,
		}
	}
	return &OrderResponse{
		ID:        order.ID,
		Number:    order.Number,
		ClientID:  order.ClientID,
		Status:    order.Status,
		TotalMDL:  order.TotalMDL,
		Comment:   order.Comment,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}
