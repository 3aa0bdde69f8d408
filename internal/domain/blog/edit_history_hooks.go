package blog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityPost is the mutation entity kind for posts
const EntityPost = "post"

// EditHistoryAppender appends revision snapshots within the active transaction
type EditHistoryAppender interface {
	Append(ctx context.Context, row *PostEditHistory) error
}

// PostEditHistoryHook archives the superseded title and content before a post
// update overwrites them. Updates that leave title and content untouched
// append nothing.
type PostEditHistoryHook struct {
	history EditHistoryAppender
	logger  *zap.Logger
}

// NewPostEditHistoryHook creates the content audit hook
func NewPostEditHistoryHook(history EditHistoryAppender, logger *zap.Logger) *PostEditHistoryHook {
	return &PostEditHistoryHook{history: history, logger: logger}
}

// Name identifies the hook
func (h *PostEditHistoryHook) Name() string { return "log_post_edit" }

// Handle snapshots the old revision when content or title changed
func (h *PostEditHistoryHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	post, ok := m.Target.(*Post)
	if !ok {
		return fmt.Errorf("blog: unexpected target %T for %s", m.Target, EntityPost)
	}

	titleChanged := m.Changes.Changed("title")
	contentChanged := m.Changes.Changed("content")
	if !titleChanged && !contentChanged {
		return nil
	}

	actor, err := h.actingStaff(ctx, post)
	if err != nil {
		return err
	}

	oldTitle := post.Title
	if old, ok := m.Changes.Old("title"); ok {
		oldTitle, _ = old.(string)
	}
	oldContent := post.Content
	if old, ok := m.Changes.Old("content"); ok {
		oldContent, _ = old.(string)
	}

	row := &PostEditHistory{
		BaseEntity:       shared.NewBaseEntity(),
		PostID:           post.ID,
		OldTitle:         oldTitle,
		OldContent:       oldContent,
		ModificationType: ModificationEdited,
		ChangedBy:        actor,
	}
	if err := h.history.Append(ctx, row); err != nil {
		return err
	}
	h.logger.Info("post revision archived",
		zap.String("post_id", post.ID.String()),
		zap.String("changed_by", actor.String()),
	)
	return nil
}

// actingStaff resolves who made the edit: the ambient actor, falling back to
// the row's own audit stamps. An edit with no attributable staff member
// violates the audit invariant.
func (h *PostEditHistoryHook) actingStaff(ctx context.Context, post *Post) (uuid.UUID, error) {
	if actor, ok := shared.ActorFrom(ctx); ok {
		return actor, nil
	}
	if post.ModifiedBy != nil {
		return *post.ModifiedBy, nil
	}
	if post.CreatedBy != nil {
		return *post.CreatedBy, nil
	}
	return uuid.Nil, shared.NewIntegrityViolation(EntityPost, "post edit requires an acting staff member")
}
