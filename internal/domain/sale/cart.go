package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/shared"
)

// CartStatus tracks a shopping cart's lifecycle
type CartStatus string

// Cart status constants
const (
	CartOpen       CartStatus = "open"
	CartCheckedOut CartStatus = "checked_out"
	CartAbandoned  CartStatus = "abandoned"
)

// Cart is a client's open shopping basket
type Cart struct {
	shared.BaseAggregateRoot
	ClientID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status   CartStatus `gorm:"type:varchar(20);not null;default:'open'"`
	Items    []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one product line in a cart. UnitPriceMDL captures the tier
// price at the time the item was added.
type CartItem struct {
	shared.BaseEntity
	CartID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     int             `gorm:"not null"`
	UnitPriceMDL decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart opens an empty cart for a client
func NewCart(clientID uuid.UUID) (*Cart, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "cart requires a client")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		Status:            CartOpen,
	}, nil
}

// AddItem puts a product in the cart, merging quantity with an existing line
func (c *Cart) AddItem(productID uuid.UUID, quantity int, unitPriceMDL decimal.Decimal) error {
	if c.Status != CartOpen {
		return shared.NewDomainError("CART_NOT_OPEN", "cannot modify a closed cart")
	}
	if productID == uuid.Nil {
		return shared.NewValidationError("product_id", "cart item requires a product")
	}
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "quantity must be positive")
	}
	if unitPriceMDL.IsNegative() {
		return shared.NewValidationError("unit_price_mdl", "unit price cannot be negative")
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].UnitPriceMDL = unitPriceMDL
			c.Items[i].UpdatedAt = time.Now()
			c.touch()
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{
		BaseEntity:   shared.NewBaseEntity(),
		CartID:       c.ID,
		ProductID:    productID,
		Quantity:     quantity,
		UnitPriceMDL: unitPriceMDL,
	})
	c.touch()
	return nil
}

// RemoveItem drops a product line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	if c.Status != CartOpen {
		return shared.NewDomainError("CART_NOT_OPEN", "cannot modify a closed cart")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Total sums the cart lines in MDL
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPriceMDL.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CheckOut closes the cart; the order service converts it into an order
func (c *Cart) CheckOut() error {
	if c.Status != CartOpen {
		return shared.NewDomainError("CART_NOT_OPEN", "cart is already closed")
	}
	if len(c.Items) == 0 {
		return shared.NewValidationError("items", "cannot check out an empty cart")
	}
	c.Status = CartCheckedOut
	c.touch()
	return nil
}

// Abandon closes the cart without an order
func (c *Cart) Abandon() {
	if c.Status == CartOpen {
		c.Status = CartAbandoned
		c.touch()
	}
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
