package blog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityPostImage is the mutation entity kind for post images
const EntityPostImage = "post_image"

// PostImageSiblingStore gives the image hooks access to sibling rows of the
// image being written, executing against the transaction carried by the
// context.
type PostImageSiblingStore interface {
	// DemoteSiblings clears the primary flag on every image of the post
	// except the one identified by excludeID
	DemoteSiblings(ctx context.Context, postID, excludeID uuid.UUID) error

	// LatestSibling returns the most recently created image of the post,
	// excluding excludeID, or nil when none remain
	LatestSibling(ctx context.Context, postID, excludeID uuid.UUID) (*PostImage, error)

	// Promote sets the primary flag on one image row
	Promote(ctx context.Context, imageID uuid.UUID) error
}

// PostImagePrimaryHook keeps the single-primary invariant for post galleries
type PostImagePrimaryHook struct {
	images PostImageSiblingStore
	logger *zap.Logger
}

// NewPostImagePrimaryHook creates the primary-enforcement hook
func NewPostImagePrimaryHook(images PostImageSiblingStore, logger *zap.Logger) *PostImagePrimaryHook {
	return &PostImagePrimaryHook{images: images, logger: logger}
}

// Name identifies the hook
func (h *PostImagePrimaryHook) Name() string { return "enforce_single_primary" }

// Handle demotes sibling images when the target claims the primary flag
func (h *PostImagePrimaryHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	img, ok := m.Target.(*PostImage)
	if !ok {
		return fmt.Errorf("blog: unexpected target %T for %s", m.Target, EntityPostImage)
	}
	if !img.IsPrimary {
		return nil
	}
	if err := h.images.DemoteSiblings(ctx, img.PostID, img.ID); err != nil {
		return err
	}
	h.logger.Debug("demoted sibling images",
		zap.String("post_id", img.PostID.String()),
		zap.String("image_id", img.ID.String()),
	)
	return nil
}

// PostImageDefaultHook overwrites an empty or dangling image path with the
// default post image before the row is persisted.
type PostImageDefaultHook struct {
	files  shared.FileStore
	logger *zap.Logger
}

// NewPostImageDefaultHook creates the default-image fallback hook
func NewPostImageDefaultHook(files shared.FileStore, logger *zap.Logger) *PostImageDefaultHook {
	return &PostImageDefaultHook{files: files, logger: logger}
}

// Name identifies the hook
func (h *PostImageDefaultHook) Name() string { return "default_image_fallback" }

// Handle swaps in the default path when the referenced file is unusable
func (h *PostImageDefaultHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	img, ok := m.Target.(*PostImage)
	if !ok {
		return fmt.Errorf("blog: unexpected target %T for %s", m.Target, EntityPostImage)
	}
	if img.ImagePath == "" {
		img.ImagePath = DefaultPostImagePath
		return nil
	}
	exists, err := h.files.Exists(ctx, img.ImagePath)
	if err != nil {
		h.logger.Warn("could not verify image file, keeping declared path",
			zap.String("path", img.ImagePath), zap.Error(err))
		return nil
	}
	if !exists {
		h.logger.Info("image file missing, assigning default",
			zap.String("path", img.ImagePath),
			zap.String("image_id", img.ID.String()),
		)
		img.ImagePath = DefaultPostImagePath
	}
	return nil
}

// PostImageCleanupHook runs after an image row is deleted: the physical file
// goes to the janitor and a replacement primary is promoted if needed.
type PostImageCleanupHook struct {
	images  PostImageSiblingStore
	janitor shared.FileJanitor
	logger  *zap.Logger
}

// NewPostImageCleanupHook creates the after-delete cleanup hook
func NewPostImageCleanupHook(images PostImageSiblingStore, janitor shared.FileJanitor, logger *zap.Logger) *PostImageCleanupHook {
	return &PostImageCleanupHook{images: images, janitor: janitor, logger: logger}
}

// Name identifies the hook
func (h *PostImageCleanupHook) Name() string { return "image_cleanup" }

// Handle removes the file and reassigns the primary flag if needed
func (h *PostImageCleanupHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	img, ok := m.Target.(*PostImage)
	if !ok {
		return fmt.Errorf("blog: unexpected target %T for %s", m.Target, EntityPostImage)
	}

	if img.ImagePath != "" && img.ImagePath != DefaultPostImagePath {
		h.janitor.Remove(img.ImagePath)
	}

	if !img.IsPrimary {
		return nil
	}
	next, err := h.images.LatestSibling(ctx, img.PostID, img.ID)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	if err := h.images.Promote(ctx, next.ID); err != nil {
		return err
	}
	h.logger.Info("promoted replacement primary image",
		zap.String("post_id", img.PostID.String()),
		zap.String("image_id", next.ID.String()),
	)
	return nil
}
