package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityProductImage is the mutation entity kind for product images
const EntityProductImage = "product_image"

// ImageSiblingStore gives the image hooks access to sibling rows of the image
// being written. Implementations must execute against the transaction carried
// by the context so hook writes commit or roll back with the triggering write.
type ImageSiblingStore interface {
	// DemoteSiblings clears the primary flag on every image of the product
	// except the one identified by excludeID
	DemoteSiblings(ctx context.Context, productID, excludeID uuid.UUID) error

	// LatestSibling returns the most recently created image of the product,
	// excluding excludeID, or nil when none remain
	LatestSibling(ctx context.Context, productID, excludeID uuid.UUID) (*ProductImage, error)

	// Promote sets the primary flag on one image row
	Promote(ctx context.Context, imageID uuid.UUID) error
}

// ProductImagePrimaryHook keeps the single-primary invariant: when an
// incoming row carries the primary flag, every sibling is demoted in the same
// transaction. Which of two racing primary uploads wins is decided by row
// lock order and is not deterministic; the invariant holds at each commit.
type ProductImagePrimaryHook struct {
	images ImageSiblingStore
	logger *zap.Logger
}

// NewProductImagePrimaryHook creates the primary-enforcement hook
func NewProductImagePrimaryHook(images ImageSiblingStore, logger *zap.Logger) *ProductImagePrimaryHook {
	return &ProductImagePrimaryHook{images: images, logger: logger}
}

// Name identifies the hook
func (h *ProductImagePrimaryHook) Name() string { return "enforce_single_primary" }

// Handle demotes sibling images when the target claims the primary flag
func (h *ProductImagePrimaryHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	img, ok := m.Target.(*ProductImage)
	if !ok {
		return fmt.Errorf("catalog: unexpected target %T for %s", m.Target, EntityProductImage)
	}
	if !img.IsPrimary {
		return nil
	}
	if err := h.images.DemoteSiblings(ctx, img.ProductID, img.ID); err != nil {
		return err
	}
	h.logger.Debug("demoted sibling images",
		zap.String("product_id", img.ProductID.String()),
		zap.String("image_id", img.ID.String()),
	)
	return nil
}

// ProductImageDefaultHook overwrites an empty or dangling image path with the
// default product image before the row is persisted.
type ProductImageDefaultHook struct {
	files  shared.FileStore
	logger *zap.Logger
}

// NewProductImageDefaultHook creates the default-image fallback hook
func NewProductImageDefaultHook(files shared.FileStore, logger *zap.Logger) *ProductImageDefaultHook {
	return &ProductImageDefaultHook{files: files, logger: logger}
}

// Name identifies the hook
func (h *ProductImageDefaultHook) Name() string { return "default_image_fallback" }

// Handle swaps in the default path when the referenced file is unusable
func (h *ProductImageDefaultHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	img, ok := m.Target.(*ProductImage)
	if !ok {
		return fmt.Errorf("catalog: unexpected target %T for %s", m.Target, EntityProductImage)
	}
	if img.ImagePath == "" {
		img.ImagePath = DefaultProductImagePath
		return nil
	}
	exists, err := h.files.Exists(ctx, img.ImagePath)
	if err != nil {
		// Auxiliary I/O failure: log and keep the declared path.
		h.logger.Warn("could not verify image file, keeping declared path",
			zap.String("path", img.ImagePath), zap.Error(err))
		return nil
	}
	if !exists {
		h.logger.Info("image file missing, assigning default",
			zap.String("path", img.ImagePath),
			zap.String("image_id", img.ID.String()),
		)
		img.ImagePath = DefaultProductImagePath
	}
	return nil
}

// ProductImageCleanupHook runs after an image row is deleted: the physical
// file is handed to the janitor (best-effort, outside the transaction) and,
// when the deleted row was primary, the most recently created remaining
// sibling is promoted in the same transaction.
type ProductImageCleanupHook struct {
	images  ImageSiblingStore
	janitor shared.FileJanitor
	logger  *zap.Logger
}

// NewProductImageCleanupHook creates the after-delete cleanup hook
func NewProductImageCleanupHook(images ImageSiblingStore, janitor shared.FileJanitor, logger *zap.Logger) *ProductImageCleanupHook {
	return &ProductImageCleanupHook{images: images, janitor: janitor, logger: logger}
}

// Name identifies the hook
func (h *ProductImageCleanupHook) Name() string { return "image_cleanup" }

// Handle removes the file and reassigns the primary flag if needed
func (h *ProductImageCleanupHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	img, ok := m.Target.(*ProductImage)
	if !ok {
		return fmt.Errorf("catalog: unexpected target %T for %s", m.Target, EntityProductImage)
	}

	if img.ImagePath != "" && img.ImagePath != DefaultProductImagePath {
		h.janitor.Remove(img.ImagePath)
	}

	if !img.IsPrimary {
		return nil
	}
	next, err := h.images.LatestSibling(ctx, img.ProductID, img.ID)
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
		zap.String("product_id", img.ProductID.String()),
		zap.String("image_id", next.ID.String()),
	)
	return nil
}
