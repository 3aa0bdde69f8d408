package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Audited is implemented by entities that carry creator/modifier stamps
// maintained by the audit-stamp hook.
type Audited interface {
	GetCreatedBy() *uuid.UUID
	SetCreatedBy(uuid.UUID)
	GetModifiedBy() *uuid.UUID
	SetModifiedBy(uuid.UUID)
}

// AuditedEntity extends BaseEntity with actor stamps
type AuditedEntity struct {
	BaseEntity
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index"`
	ModifiedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// GetCreatedBy returns the creator staff ID
func (e *AuditedEntity) GetCreatedBy() *uuid.UUID {
	return e.CreatedBy
}

// SetCreatedBy sets the creator staff ID
func (e *AuditedEntity) SetCreatedBy(id uuid.UUID) {
	e.CreatedBy = &id
}

// GetModifiedBy returns the last modifier staff ID
func (e *AuditedEntity) GetModifiedBy() *uuid.UUID {
	return e.ModifiedBy
}

// SetModifiedBy sets the last modifier staff ID
func (e *AuditedEntity) SetModifiedBy(id uuid.UUID) {
	e.ModifiedBy = &id
}

// NewAuditedEntity creates a new audited entity
func NewAuditedEntity() AuditedEntity {
	return AuditedEntity{BaseEntity: NewBaseEntity()}
}
