package blog

import (
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ListenerDomain is the registry group name for blog hooks
const ListenerDomain = "blog"

// Bindings assembles the blog listener group: primary-image enforcement,
// default-image fallback, file cleanup and the edit-history audit trail.
func Bindings(
	images PostImageSiblingStore,
	history EditHistoryAppender,
	files shared.FileStore,
	janitor shared.FileJanitor,
	logger *zap.Logger,
) []lifecycle.Binding {
	primary := NewPostImagePrimaryHook(images, logger)
	fallback := NewPostImageDefaultHook(files, logger)
	cleanup := NewPostImageCleanupHook(images, janitor, logger)
	edits := NewPostEditHistoryHook(history, logger)

	return []lifecycle.Binding{
		{Entity: EntityPostImage, Phase: lifecycle.BeforeInsert, Hook: primary},
		{Entity: EntityPostImage, Phase: lifecycle.BeforeUpdate, Hook: primary},
		{Entity: EntityPostImage, Phase: lifecycle.BeforeInsert, Hook: fallback},
		{Entity: EntityPostImage, Phase: lifecycle.BeforeUpdate, Hook: fallback},
		{Entity: EntityPostImage, Phase: lifecycle.AfterDelete, Hook: cleanup},

		{Entity: EntityPost, Phase: lifecycle.BeforeUpdate, Hook: edits},
	}
}
