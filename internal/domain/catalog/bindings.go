package catalog

import (
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ListenerDomain is the registry group name for catalog hooks
const ListenerDomain = "catalog"

// Bindings assembles the catalog listener group: primary-image enforcement,
// default-image fallback, file cleanup and the price audit trail.
func Bindings(
	images ImageSiblingStore,
	history PriceHistoryAppender,
	files shared.FileStore,
	janitor shared.FileJanitor,
	logger *zap.Logger,
) []lifecycle.Binding {
	primary := NewProductImagePrimaryHook(images, logger)
	fallback := NewProductImageDefaultHook(files, logger)
	cleanup := NewProductImageCleanupHook(images, janitor, logger)
	price := NewPriceHistoryHook(history, logger)
	catDefault := NewCategoryImageDefaultHook(files, logger)
	catUpdate := NewCategoryImageUpdateHook(files, janitor, logger)
	catCleanup := NewCategoryImageCleanupHook(janitor, logger)

	return []lifecycle.Binding{
		{Entity: EntityProductImage, Phase: lifecycle.BeforeInsert, Hook: primary},
		{Entity: EntityProductImage, Phase: lifecycle.BeforeUpdate, Hook: primary},
		{Entity: EntityProductImage, Phase: lifecycle.BeforeInsert, Hook: fallback},
		{Entity: EntityProductImage, Phase: lifecycle.BeforeUpdate, Hook: fallback},
		{Entity: EntityProductImage, Phase: lifecycle.AfterDelete, Hook: cleanup},

		{Entity: EntityProductPrice, Phase: lifecycle.AfterInsert, Hook: price},
		{Entity: EntityProductPrice, Phase: lifecycle.BeforeUpdate, Hook: price},

		{Entity: EntityCategory, Phase: lifecycle.BeforeInsert, Hook: catDefault},
		{Entity: EntityCategory, Phase: lifecycle.BeforeUpdate, Hook: catUpdate},
		{Entity: EntityCategory, Phase: lifecycle.AfterDelete, Hook: catCleanup},
	}
}
