package blog

import (
	"context"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// FindByID finds a post by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindBySlug finds a post by its slug
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// FindAll finds all posts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Post, error)

	// FindPublished lists published posts, newest first
	FindPublished(ctx context.Context, filter shared.Filter) ([]Post, error)

	// FindFeatured lists featured published posts
	FindFeatured(ctx context.Context) ([]Post, error)

	// Save creates or updates a post. Updates run the blog lifecycle hooks,
	// including the edit-history snapshot, inside the transaction.
	Save(ctx context.Context, post *Post) error

	// Delete deletes a post
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostImageRepository defines the interface for post image persistence.
// Save and Delete run the blog lifecycle hooks inside their transaction.
type PostImageRepository interface {
	// FindByID finds an image by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PostImage, error)

	// FindByPost lists a post's images, primary first
	FindByPost(ctx context.Context, postID uuid.UUID) ([]PostImage, error)

	// CountByPost counts a post's images
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)

	// Save creates or updates an image row
	Save(ctx context.Context, image *PostImage) error

	// Delete deletes an image row
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostEditHistoryRepository reads the append-only edit audit trail.
// There are deliberately no update or delete operations.
type PostEditHistoryRepository interface {
	// FindByPost lists archived revisions of a post, newest first
	FindByPost(ctx context.Context, postID uuid.UUID) ([]PostEditHistory, error)
}
