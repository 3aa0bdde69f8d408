package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/shared"
)

// OrderStatus tracks an order through fulfilment
type OrderStatus string

// Order status constants
const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether the status is a known value
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// orderTransitions lists the allowed status moves. Cancellation is possible
// any time before shipment; delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// CanTransitionTo reports whether the status move is allowed
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a confirmed purchase. Status changes are audited: the status
// history hook appends a row for every transition.
type Order struct {
	shared.BaseAggregateRoot
	Number   string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	ClientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status   OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	TotalMDL decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Comment  string          `gorm:"type:text"`
	Items    []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line of an order, priced at order time
type OrderItem struct {
	shared.BaseEntity
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName  string          `gorm:"type:varchar(255);not null"`
	Quantity     int             `gorm:"not null"`
	UnitPriceMDL decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderNumber derives a human-readable order number
func NewOrderNumber(now time.Time, sequence int64) string {
	return fmt.Sprintf("ORD-%s-%05d", now.Format("20060102"), sequence)
}

// NewOrderFromCart converts a checked-out cart into a pending order. Product
// names are captured so the order survives later catalog edits.
func NewOrderFromCart(cart *Cart, number string, names map[uuid.UUID]string) (*Order, error) {
	if cart.Status != CartCheckedOut {
		return nil, shared.NewDomainError("CART_NOT_CHECKED_OUT", "order requires a checked-out cart")
	}
	if number == "" {
		return nil, shared.NewValidationError("number", "order number cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientID:          cart.ClientID,
		Status:            OrderPending,
		TotalMDL:          cart.Total(),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, OrderItem{
			BaseEntity:   shared.NewBaseEntity(),
			OrderID:      order.ID,
			ProductID:    item.ProductID,
			ProductName:  names[item.ProductID],
			Quantity:     item.Quantity,
			UnitPriceMDL: item.UnitPriceMDL,
		})
	}
	order.AddDomainEvent(NewOrderPlacedEvent(order))
	return order, nil
}

// TransitionTo moves the order to the next fulfilment status
func (o *Order) TransitionTo(next OrderStatus) error {
	if !next.Valid() {
		return shared.NewValidationError("status", "unknown order status")
	}
	if !o.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("cannot move order from %s to %s", o.Status, next))
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o))
	return nil
}
