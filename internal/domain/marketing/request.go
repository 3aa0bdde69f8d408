package marketing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// RequestType classifies what a client request is about
type RequestType string

// Request type constants
const (
	RequestProduct RequestType = "product"
	RequestOrder   RequestType = "order"
	RequestGeneral RequestType = "general"
)

// Valid reports whether the request type is a known value
func (r RequestType) Valid() bool {
	switch r {
	case RequestProduct, RequestOrder, RequestGeneral:
		return true
	}
	return false
}

// UserRequest is a client inquiry. The request type gates the payload: a
// product request carries exactly a product reference, an order request
// exactly an order reference, and a general request neither.
type UserRequest struct {
	shared.BaseEntity
	ClientID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	RequestType RequestType `gorm:"type:varchar(20);not null"`
	ProductID   *uuid.UUID  `gorm:"type:uuid;index"`
	OrderID     *uuid.UUID  `gorm:"type:uuid;index"`
	Message     string      `gorm:"type:text;not null"`
	IsProcessed bool        `gorm:"not null;default:false"`
	ProcessedAt *time.Time
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (UserRequest) TableName() string {
	return "user_requests"
}

// NewUserRequest creates a client inquiry, enforcing the payload rules for
// the request type.
func NewUserRequest(clientID uuid.UUID, reqType RequestType, productID, orderID *uuid.UUID, message string) (*UserRequest, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "request requires a client")
	}
	if !reqType.Valid() {
		return nil, shared.NewValidationError("request_type", "request type must be product, order or general")
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewValidationError("message", "request message cannot be empty")
	}

	switch reqType {
	case RequestProduct:
		if productID == nil || *productID == uuid.Nil {
			return nil, shared.NewValidationError("product_id", "product request requires a product reference")
		}
		if orderID != nil {
			return nil, shared.NewValidationError("order_id", "product request cannot reference an order")
		}
	case RequestOrder:
		if orderID == nil || *orderID == uuid.Nil {
			return nil, shared.NewValidationError("order_id", "order request requires an order reference")
		}
		if productID != nil {
			return nil, shared.NewValidationError("product_id", "order request cannot reference a product")
		}
	case RequestGeneral:
		if productID != nil || orderID != nil {
			return nil, shared.NewValidationError("request_type", "general request cannot reference a product or order")
		}
	}

	return &UserRequest{
		BaseEntity:  shared.NewBaseEntity(),
		ClientID:    clientID,
		RequestType: reqType,
		ProductID:   productID,
		OrderID:     orderID,
		Message:     message,
	}, nil
}

// MarkProcessed records which staff member handled the request
func (r *UserRequest) MarkProcessed(staffID uuid.UUID, now time.Time) error {
	if r.IsProcessed {
		return shared.NewDomainError("REQUEST_ALREADY_PROCESSED", "request was already processed")
	}
	if staffID == uuid.Nil {
		return shared.NewValidationError("processed_by", "processing requires a staff member")
	}
	r.IsProcessed = true
	r.ProcessedAt = &now
	r.ProcessedBy = &staffID
	r.UpdatedAt = now
	return nil
}
