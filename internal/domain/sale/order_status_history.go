package sale

import (
	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// OrderStatusHistory is an append-only record of one order status
// transition. Rows are never updated or deleted.
type OrderStatusHistory struct {
	shared.BaseEntity
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	OldStatus OrderStatus `gorm:"type:varchar(20);not null"`
	NewStatus OrderStatus `gorm:"type:varchar(20);not null"`
	ChangedBy uuid.UUID   `gorm:"type:uuid;not null"`
	Comment   string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
