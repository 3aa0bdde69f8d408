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

// GormCategoryRepository implements catalog.CategoryRepository using GORM.
// Writes run the category lifecycle hooks inside the write transaction.
type GormCategoryRepository struct {
	db    *gorm.DB
	hooks *lifecycle.Dispatcher
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB, hooks *lifecycle.Dispatcher) *GormCategoryRepository {
	return &GormCategoryRepository{db: db, hooks: hooks}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug finds a category by its slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := applyFilter(r.db.WithContext(ctx).Model(&catalog.Category{}), filter)
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindActive finds active categories ordered for display
func (r *GormCategoryRepository) FindActive(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ExistsByNameFold reports whether another category already uses the name,
// compared case-insensitively
func (r *GormCategoryRepository) ExistsByNameFold(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Category{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasProducts checks if a category has any associated products
func (r *GormCategoryRepository) HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category, running the category hooks in the
// write transaction
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var existing catalog.Category
		err := tx.First(&existing, "id = ?", category.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := &lifecycle.Mutation{Entity: catalog.EntityCategory, Target: category}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeInsert, m); err != nil {
				return err
			}
			if err := tx.Create(category).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterInsert, m)
		case err != nil:
			return err
		default:
			m := &lifecycle.Mutation{
				Entity:  catalog.EntityCategory,
				Target:  category,
				Changes: categoryChanges(&existing, category),
			}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeUpdate, m); err != nil {
				return err
			}
			if err := tx.Save(category).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterUpdate, m)
		}
	})
}

// Delete deletes a category, running the after-delete hooks in the same
// transaction
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var category catalog.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&catalog.Category{}, "id = ?", id).Error; err != nil {
			return err
		}
		m := &lifecycle.Mutation{Entity: catalog.EntityCategory, Target: &category}
		return r.hooks.Dispatch(txCtx, lifecycle.AfterDelete, m)
	})
}

// categoryChanges records the fields the hooks care about
func categoryChanges(old, updated *catalog.Category) lifecycle.Changes {
	changes := lifecycle.Changes{}
	if old.Name != updated.Name {
		changes["name"] = lifecycle.Change{Old: old.Name, New: updated.Name}
	}
	if old.ImagePath != updated.ImagePath {
		changes["image_path"] = lifecycle.Change{Old: old.ImagePath, New: updated.ImagePath}
	}
	if old.IsActive != updated.IsActive {
		changes["is_active"] = lifecycle.Change{Old: old.IsActive, New: updated.IsActive}
	}
	return changes
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
