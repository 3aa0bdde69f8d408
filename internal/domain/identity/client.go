package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/shared"
)

// ClientStatus tracks a client account's lifecycle
type ClientStatus string

// Client status constants
const (
	ClientActive  ClientStatus = "active"
	ClientBlocked ClientStatus = "blocked"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

// Client is a shop customer. The price tier selects which catalog price row
// the client sees.
type Client struct {
	shared.BaseAggregateRoot
	Email     string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone     string            `gorm:"type:varchar(20)"`
	FullName  string            `gorm:"type:varchar(255);not null"`
	PriceTier catalog.PriceType `gorm:"type:varchar(20);not null;default:'user'"`
	Status    ClientStatus      `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return shared.NewValidationError("email", "invalid email address")
	}
	return nil
}

// NewClient creates an active client on the given price tier
func NewClient(email, phone, fullName string, tier catalog.PriceType) (*Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, shared.NewValidationError("phone", "invalid phone number")
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewValidationError("full_name", "client name cannot be empty")
	}
	if !tier.Valid() {
		return nil, shared.NewValidationError("price_tier", "unknown price tier")
	}
	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Phone:             phone,
		FullName:          strings.TrimSpace(fullName),
		PriceTier:         tier,
		Status:            ClientActive,
	}, nil
}

// ChangeTier moves the client to another price tier
func (c *Client) ChangeTier(tier catalog.PriceType) error {
	if !tier.Valid() {
		return shared.NewValidationError("price_tier", "unknown price tier")
	}
	c.PriceTier = tier
	c.touch()
	return nil
}

// Block suspends the account
func (c *Client) Block() {
	c.Status = ClientBlocked
	c.touch()
}

// Unblock reinstates the account
func (c *Client) Unblock() {
	c.Status = ClientActive
	c.touch()
}

func (c *Client) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
