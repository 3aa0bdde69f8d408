package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductImageRepository implements catalog.ProductImageRepository.
// Writes run the image lifecycle hooks (primary enforcement, default
// fallback, cleanup) inside the write transaction.
type GormProductImageRepository struct {
	db    *gorm.DB
	hooks *lifecycle.Dispatcher
}

// NewGormProductImageRepository creates a new GormProductImageRepository
func NewGormProductImageRepository(db *gorm.DB, hooks *lifecycle.Dispatcher) *GormProductImageRepository {
	return &GormProductImageRepository{db: db, hooks: hooks}
}

// FindByID finds an image by its ID
func (r *GormProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByProduct lists a product's images, primary first
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_primary DESC, sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// CountByProduct counts a product's images
func (r *GormProductImageRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an image row, running the image hooks in the
// write transaction
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var existing catalog.ProductImage
		err := tx.First(&existing, "id = ?", image.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := &lifecycle.Mutation{Entity: catalog.EntityProductImage, Target: image}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeInsert, m); err != nil {
				return err
			}
			if err := tx.Create(image).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterInsert, m)
		case err != nil:
			return err
		default:
			m := &lifecycle.Mutation{
				Entity:  catalog.EntityProductImage,
				Target:  image,
				Changes: productImageChanges(&existing, image),
			}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeUpdate, m); err != nil {
				return err
			}
			if err := tx.Save(image).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterUpdate, m)
		}
	})
}

// Delete deletes an image row, running the cleanup hooks in the same
// transaction
func (r *GormProductImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var image catalog.ProductImage
		if err := tx.First(&image, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&catalog.ProductImage{}, "id = ?", id).Error; err != nil {
			return err
		}
		m := &lifecycle.Mutation{Entity: catalog.EntityProductImage, Target: &image}
		return r.hooks.Dispatch(txCtx, lifecycle.AfterDelete, m)
	})
}

func productImageChanges(old, updated *catalog.ProductImage) lifecycle.Changes {
	changes := lifecycle.Changes{}
	if old.ImagePath != updated.ImagePath {
		changes["image_path"] = lifecycle.Change{Old: old.ImagePath, New: updated.ImagePath}
	}
	if old.IsPrimary != updated.IsPrimary {
		changes["is_primary"] = lifecycle.Change{Old: old.IsPrimary, New: updated.IsPrimary}
	}
	return changes
}

var _ catalog.ProductImageRepository = (*GormProductImageRepository)(nil)

// GormImageSiblingStore implements catalog.ImageSiblingStore against the
// transaction carried by the context, so hook writes commit with the
// triggering write.
type GormImageSiblingStore struct {
	db *gorm.DB
}

// NewGormImageSiblingStore creates a new GormImageSiblingStore
func NewGormImageSiblingStore(db *gorm.DB) *GormImageSiblingStore {
	return &GormImageSiblingStore{db: db}
}

// DemoteSiblings clears the primary flag on every image of the product
// except the excluded one
func (s *GormImageSiblingStore) DemoteSiblings(ctx context.Context, productID, excludeID uuid.UUID) error {
	return dbFrom(ctx, s.db).WithContext(ctx).
		Model(&catalog.ProductImage{}).
		Where("product_id = ? AND id <> ? AND is_primary = ?", productID, excludeID, true).
		Update("is_primary", false).Error
}

// LatestSibling returns the most recently created image of the product,
// excluding excludeID, or nil when none remain
func (s *GormImageSiblingStore) LatestSibling(ctx context.Context, productID, excludeID uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	err := dbFrom(ctx, s.db).WithContext(ctx).
		Where("product_id = ? AND id <> ?", productID, excludeID).
		Order("created_at DESC").
		First(&image).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// Promote sets the primary flag on one image row
func (s *GormImageSiblingStore) Promote(ctx context.Context, imageID uuid.UUID) error {
	return dbFrom(ctx, s.db).WithContext(ctx).
		Model(&catalog.ProductImage{}).
		Where("id = ?", imageID).
		Update("is_primary", true).Error
}

var _ catalog.ImageSiblingStore = (*GormImageSiblingStore)(nil)
