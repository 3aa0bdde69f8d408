package blog

import (
	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// ModificationType classifies an archived revision
type ModificationType string

// Modification type constants
const (
	ModificationEdited   ModificationType = "edited"
	ModificationRestored ModificationType = "restored"
)

// Valid reports whether the modification type is a known value
func (m ModificationType) Valid() bool {
	switch m {
	case ModificationEdited, ModificationRestored:
		return true
	}
	return false
}

// PostEditHistory is an append-only snapshot of a post's content taken just
// before an update replaced it. Rows are never updated or deleted.
type PostEditHistory struct {
	shared.BaseEntity
	PostID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	OldTitle         string           `gorm:"type:varchar(255);not null"`
	OldContent       string           `gorm:"type:text;not null"`
	ModificationType ModificationType `gorm:"type:varchar(20);not null"`
	ChangedBy        uuid.UUID        `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (PostEditHistory) TableName() string {
	return "post_edit_history"
}

// NewPostEditHistory archives one superseded revision
func NewPostEditHistory(postID uuid.UUID, oldTitle, oldContent string, modType ModificationType, changedBy uuid.UUID) (*PostEditHistory, error) {
	if postID == uuid.Nil {
		return nil, shared.NewValidationError("post_id", "history entry requires a post")
	}
	if !modType.Valid() {
		return nil, shared.NewValidationError("modification_type", "modification type must be edited or restored")
	}
	if changedBy == uuid.Nil {
		return nil, shared.NewValidationError("changed_by", "history entry requires the acting staff member")
	}
	return &PostEditHistory{
		BaseEntity:       shared.NewBaseEntity(),
		PostID:           postID,
		OldTitle:         oldTitle,
		OldContent:       oldContent,
		ModificationType: modType,
		ChangedBy:        changedBy,
	}, nil
}
