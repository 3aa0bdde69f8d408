package marketing

import (
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// ActionType classifies what the client did
type ActionType string

// Action type constants
const (
	ActionView   ActionType = "view"
	ActionClick  ActionType = "click"
	ActionShare  ActionType = "share"
	ActionSearch ActionType = "search"
)

// Valid reports whether the action type is a known value
func (a ActionType) Valid() bool {
	switch a {
	case ActionView, ActionClick, ActionShare, ActionSearch:
		return true
	}
	return false
}

// TargetType names the kind of entity an interaction points at
type TargetType string

// Target type constants
const (
	TargetCategory TargetType = "category"
	TargetProduct  TargetType = "product"
	TargetPost     TargetType = "post"
)

// Valid reports whether the target type is a known value
func (t TargetType) Valid() bool {
	switch t {
	case TargetCategory, TargetProduct, TargetPost:
		return true
	}
	return false
}

// UserInteraction records one client's engagement with a target entity. The
// (target_type, target_id) pair is a discriminated reference; the target hook
// verifies it points at a live row before the write commits.
type UserInteraction struct {
	shared.BaseEntity
	ClientID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ActionType   ActionType     `gorm:"type:varchar(20);not null"`
	TargetType   TargetType     `gorm:"type:varchar(20);not null;index:idx_interaction_target"`
	TargetID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_interaction_target"`
	ViewCount    int64          `gorm:"not null;default:1"`
	LastViewedAt time.Time      `gorm:"not null"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (UserInteraction) TableName() string {
	return "user_interactions"
}

// NewUserInteraction records a first engagement
func NewUserInteraction(clientID uuid.UUID, action ActionType, target TargetType, targetID uuid.UUID) (*UserInteraction, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "interaction requires a client")
	}
	if !action.Valid() {
		return nil, shared.NewValidationError("action_type", "action type must be view, click, share or search")
	}
	if !target.Valid() {
		return nil, shared.NewValidationError("target_type", "target type must be category, product or post")
	}
	if targetID == uuid.Nil {
		return nil, shared.NewValidationError("target_id", "interaction requires a target")
	}
	return &UserInteraction{
		BaseEntity:   shared.NewBaseEntity(),
		ClientID:     clientID,
		ActionType:   action,
		TargetType:   target,
		TargetID:     targetID,
		ViewCount:    1,
		LastViewedAt: time.Now(),
	}, nil
}

// RecordRepeat bumps the counter for a repeated engagement
func (i *UserInteraction) RecordRepeat(now time.Time) {
	i.ViewCount++
	i.LastViewedAt = now
	i.UpdatedAt = now
}
