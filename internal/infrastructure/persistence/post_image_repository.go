package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/blog"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPostImageRepository implements blog.PostImageRepository with the same
// hook-dispatching write path as the product image repository.
type GormPostImageRepository struct {
	db    *gorm.DB
	hooks *lifecycle.Dispatcher
}

// NewGormPostImageRepository creates a new GormPostImageRepository
func NewGormPostImageRepository(db *gorm.DB, hooks *lifecycle.Dispatcher) *GormPostImageRepository {
	return &GormPostImageRepository{db: db, hooks: hooks}
}

// FindByID finds an image by its ID
func (r *GormPostImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.PostImage, error) {
	var image blog.PostImage
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByPost lists a post's images, primary first
func (r *GormPostImageRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]blog.PostImage, error) {
	var images []blog.PostImage
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("is_primary DESC, sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// CountByPost counts a post's images
func (r *GormPostImageRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&blog.PostImage{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an image row, running the image hooks in the
// write transaction
func (r *GormPostImageRepository) Save(ctx context.Context, image *blog.PostImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var existing blog.PostImage
		err := tx.First(&existing, "id = ?", image.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := &lifecycle.Mutation{Entity: blog.EntityPostImage, Target: image}
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
				Entity:  blog.EntityPostImage,
				Target:  image,
				Changes: postImageChanges(&existing, image),
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
func (r *GormPostImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var image blog.PostImage
		if err := tx.First(&image, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&blog.PostImage{}, "id = ?", id).Error; err != nil {
			return err
		}
		m := &lifecycle.Mutation{Entity: blog.EntityPostImage, Target: &image}
		return r.hooks.Dispatch(txCtx, lifecycle.AfterDelete, m)
	})
}

func postImageChanges(old, updated *blog.PostImage) lifecycle.Changes {
	changes := lifecycle.Changes{}
	if old.ImagePath != updated.ImagePath {
		changes["image_path"] = lifecycle.Change{Old: old.ImagePath, New: updated.ImagePath}
	}
	if old.IsPrimary != updated.IsPrimary {
		changes["is_primary"] = lifecycle.Change{Old: old.IsPrimary, New: updated.IsPrimary}
	}
	return changes
}

var _ blog.PostImageRepository = (*GormPostImageRepository)(nil)

// GormPostImageSiblingStore implements blog.PostImageSiblingStore against
// the transaction carried by the context.
type GormPostImageSiblingStore struct {
	db *gorm.DB
}

// NewGormPostImageSiblingStore creates a new GormPostImageSiblingStore
func NewGormPostImageSiblingStore(db *gorm.DB) *GormPostImageSiblingStore {
	return &GormPostImageSiblingStore{db: db}
}

// DemoteSiblings clears the primary flag on every image of the post except
// the excluded one
func (s *GormPostImageSiblingStore) DemoteSiblings(ctx context.Context, postID, excludeID uuid.UUID) error {
	return dbFrom(ctx, s.db).WithContext(ctx).
		Model(&blog.PostImage{}).
		Where("post_id = ? AND id <> ? AND is_primary = ?", postID, excludeID, true).
		Update("is_primary", false).Error
}

// LatestSibling returns the most recently created image of the post,
// excluding excludeID, or nil when none remain
func (s *GormPostImageSiblingStore) LatestSibling(ctx context.Context, postID, excludeID uuid.UUID) (*blog.PostImage, error) {
	var image blog.PostImage
	err := dbFrom(ctx, s.db).WithContext(ctx).
		Where("post_id = ? AND id <> ?", postID, excludeID).
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
func (s *GormPostImageSiblingStore) Promote(ctx context.Context, imageID uuid.UUID) error {
	return dbFrom(ctx, s.db).WithContext(ctx).
		Model(&blog.PostImage{}).
		Where("id = ?", imageID).
		Update("is_primary", true).Error
}

var _ blog.PostImageSiblingStore = (*GormPostImageSiblingStore)(nil)
