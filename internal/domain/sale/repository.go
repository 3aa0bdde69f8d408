package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindOpenByClient finds the client's open cart, or shared.ErrNotFound
	FindOpenByClient(ctx context.Context, clientID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart and its items
	Save(ctx context.Context, cart *Cart) error

	// Delete deletes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order persistence.
// Save runs the sale lifecycle hooks inside its transaction.
type OrderRepository interface {
	// FindByID finds an order, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its public number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindByClient lists a client's orders, newest first
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus lists orders in one fulfilment status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// NextSequence reserves the next order-number sequence value
	NextSequence(ctx context.Context) (int64, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error
}

// OrderStatusHistoryRepository reads the append-only status audit trail.
// There are deliberately no update or delete operations.
type OrderStatusHistoryRepository interface {
	// FindByOrder lists transitions of one order, oldest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderStatusHistory, error)
}
