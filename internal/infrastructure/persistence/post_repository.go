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

// GormPostRepository implements blog.PostRepository. Updates run the blog
// lifecycle hooks, so superseded revisions land in the edit-history table
// within the same transaction.
type GormPostRepository struct {
	db    *gorm.DB
	hooks *lifecycle.Dispatcher
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB, hooks *lifecycle.Dispatcher) *GormPostRepository {
	return &GormPostRepository{db: db, hooks: hooks}
}

// FindByID finds a post by its ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	var post blog.Post
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindBySlug finds a post by its slug
func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	var post blog.Post
	if err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindAll finds all posts matching the filter
func (r *GormPostRepository) FindAll(ctx context.Context, filter shared.Filter) ([]blog.Post, error) {
	var posts []blog.Post
	query := applyFilter(r.db.WithContext(ctx).Model(&blog.Post{}), filter)
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindPublished lists published posts, newest first
func (r *GormPostRepository) FindPublished(ctx context.Context, filter shared.Filter) ([]blog.Post, error) {
	var posts []blog.Post
	query := r.db.WithContext(ctx).Model(&blog.Post{}).
		Where("is_active = ?", true).
		Order("published_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindFeatured lists featured published posts
func (r *GormPostRepository) FindFeatured(ctx context.Context) ([]blog.Post, error) {
	var posts []blog.Post
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("sort_order ASC, published_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Save creates or updates a post, running the blog hooks in the write
// transaction
func (r *GormPostRepository) Save(ctx context.Context, post *blog.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var existing blog.Post
		err := tx.First(&existing, "id = ?", post.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := &lifecycle.Mutation{Entity: blog.EntityPost, Target: post}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeInsert, m); err != nil {
				return err
			}
			if err := tx.Create(post).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterInsert, m)
		case err != nil:
			return err
		default:
			m := &lifecycle.Mutation{
				Entity:  blog.EntityPost,
				Target:  post,
				Changes: postChanges(&existing, post),
			}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeUpdate, m); err != nil {
				return err
			}
			if err := tx.Save(post).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterUpdate, m)
		}
	})
}

// Delete deletes a post
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&blog.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// postChanges records the fields the edit-history hook cares about
func postChanges(old, updated *blog.Post) lifecycle.Changes {
	changes := lifecycle.Changes{}
	if old.Title != updated.Title {
		changes["title"] = lifecycle.Change{Old: old.Title, New: updated.Title}
	}
	if old.Content != updated.Content {
		changes["content"] = lifecycle.Change{Old: old.Content, New: updated.Content}
	}
	if old.IsActive != updated.IsActive {
		changes["is_active"] = lifecycle.Change{Old: old.IsActive, New: updated.IsActive}
	}
	return changes
}

var _ blog.PostRepository = (*GormPostRepository)(nil)

// GormPostEditHistoryRepository reads the append-only edit audit trail and
// doubles as the appender the edit-history hook writes through.
type GormPostEditHistoryRepository struct {
	db *gorm.DB
}

// NewGormPostEditHistoryRepository creates a new GormPostEditHistoryRepository
func NewGormPostEditHistoryRepository(db *gorm.DB) *GormPostEditHistoryRepository {
	return &GormPostEditHistoryRepository{db: db}
}

// FindByPost lists archived revisions of a post, newest first
func (r *GormPostEditHistoryRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]blog.PostEditHistory, error) {
	var rows []blog.PostEditHistory
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Append inserts one revision snapshot within the active transaction
func (r *GormPostEditHistoryRepository) Append(ctx context.Context, row *blog.PostEditHistory) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(row).Error
}

var (
	_ blog.PostEditHistoryRepository = (*GormPostEditHistoryRepository)(nil)
	_ blog.EditHistoryAppender       = (*GormPostEditHistoryRepository)(nil)
)
