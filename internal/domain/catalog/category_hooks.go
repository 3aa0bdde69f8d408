package catalog

import (
	"context"
	"fmt"

	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityCategory is the mutation entity kind for categories
const EntityCategory = "category"

// CategoryImageDefaultHook assigns the default category image on insert when
// the declared path is empty or its file cannot be found on the store.
type CategoryImageDefaultHook struct {
	files  shared.FileStore
	logger *zap.Logger
}

// NewCategoryImageDefaultHook creates the category default-image hook
func NewCategoryImageDefaultHook(files shared.FileStore, logger *zap.Logger) *CategoryImageDefaultHook {
	return &CategoryImageDefaultHook{files: files, logger: logger}
}

// Name identifies the hook
func (h *CategoryImageDefaultHook) Name() string { return "default_image_fallback" }

// Handle assigns the default image path when needed
func (h *CategoryImageDefaultHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	category, ok := m.Target.(*Category)
	if !ok {
		return fmt.Errorf("catalog: unexpected target %T for %s", m.Target, EntityCategory)
	}
	assignDefaultCategoryImage(ctx, category, h.files, h.logger)
	return nil
}

// CategoryImageUpdateHook runs before a category update: when the image path
// changed, the previous non-default file is handed to the janitor and the new
// path is verified with a fallback to the default image.
type CategoryImageUpdateHook struct {
	files   shared.FileStore
	janitor shared.FileJanitor
	logger  *zap.Logger
}

// NewCategoryImageUpdateHook creates the category image-replacement hook
func NewCategoryImageUpdateHook(files shared.FileStore, janitor shared.FileJanitor, logger *zap.Logger) *CategoryImageUpdateHook {
	return &CategoryImageUpdateHook{files: files, janitor: janitor, logger: logger}
}

// Name identifies the hook
func (h *CategoryImageUpdateHook) Name() string { return "image_replacement" }

// Handle cleans up the replaced file and validates the incoming path
func (h *CategoryImageUpdateHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	category, ok := m.Target.(*Category)
	if !ok {
		return fmt.Errorf("catalog: unexpected target %T for %s", m.Target, EntityCategory)
	}

	if old, ok := m.Changes.Old("image_path"); ok {
		oldPath, _ := old.(string)
		if oldPath != "" && oldPath != DefaultCategoryImagePath && oldPath != category.ImagePath {
			h.janitor.Remove(oldPath)
		}
	}

	assignDefaultCategoryImage(ctx, category, h.files, h.logger)
	return nil
}

// CategoryImageCleanupHook removes the category's physical image after the
// row is deleted, unless it is the shared default.
type CategoryImageCleanupHook struct {
	janitor shared.FileJanitor
	logger  *zap.Logger
}

// NewCategoryImageCleanupHook creates the category after-delete hook
func NewCategoryImageCleanupHook(janitor shared.FileJanitor, logger *zap.Logger) *CategoryImageCleanupHook {
	return &CategoryImageCleanupHook{janitor: janitor, logger: logger}
}

// Name identifies the hook
func (h *CategoryImageCleanupHook) Name() string { return "image_cleanup" }

// Handle queues the deleted category's image file for removal
func (h *CategoryImageCleanupHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	category, ok := m.Target.(*Category)
	if !ok {
		return fmt.Errorf("catalog: unexpected target %T for %s", m.Target, EntityCategory)
	}
	if category.ImagePath != "" && category.ImagePath != DefaultCategoryImagePath {
		h.janitor.Remove(category.ImagePath)
	}
	return nil
}

func assignDefaultCategoryImage(ctx context.Context, category *Category, files shared.FileStore, logger *zap.Logger) {
	if category.ImagePath == "" {
		category.ImagePath = DefaultCategoryImagePath
		return
	}
	if category.ImagePath == DefaultCategoryImagePath {
		return
	}
	exists, err := files.Exists(ctx, category.ImagePath)
	if err != nil {
		logger.Warn("could not verify category image, keeping declared path",
			zap.String("path", category.ImagePath), zap.Error(err))
		return
	}
	if !exists {
		logger.Info("category image missing, assigning default",
			zap.String("path", category.ImagePath),
			zap.String("category_id", category.ID.String()),
		)
		category.ImagePath = DefaultCategoryImagePath
	}
}
