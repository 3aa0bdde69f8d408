// Package blog contains application services for shop-front content.
package blog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/blog"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PostService handles post business operations. Edit snapshots are archived
// by the edit-history hook inside the repository transaction.
type PostService struct {
	posts   blog.PostRepository
	images  blog.PostImageRepository
	history blog.PostEditHistoryRepository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	posts blog.PostRepository,
	images blog.PostImageRepository,
	history blog.PostEditHistoryRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:   posts,
		images:  images,
		history: history,
		events:  events,
		logger:  logger,
	}
}

// Create creates an unpublished post, optionally with a first image
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*PostResponse, error) {
	post, err := blog.NewPost(req.Title, req.Content, req.Excerpt, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, post)

	if req.Image != nil {
		if _, err := s.AttachImage(ctx, post.ID, *req.Image); err != nil {
			// The post itself is saved; report the image failure.
			return nil, err
		}
	}
	return ToPostResponse(post), nil
}

// Update edits a post's title and body. The prior revision is archived by the
// edit-history hook.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		if err := post.Retitle(req.Title); err != nil {
			return nil, err
		}
	}
	if req.Content != "" {
		excerpt := post.Excerpt
		if req.Excerpt != nil {
			excerpt = *req.Excerpt
		}
		if err := post.UpdateContent(req.Content, excerpt); err != nil {
			return nil, err
		}
	} else if req.Excerpt != nil {
		if err := post.UpdateContent(post.Content, *req.Excerpt); err != nil {
			return nil, err
		}
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, post)
	return ToPostResponse(post), nil
}

// Publish makes a post visible on the shop front
func (s *PostService) Publish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Publish(time.Now())
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, post)
	return ToPostResponse(post), nil
}

// Unpublish hides a post
func (s *PostService) Unpublish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Unpublish()
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return ToPostResponse(post), nil
}

// GetBySlug retrieves a post by slug and records the view
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*PostResponse, error) {
	post, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	post.RecordView()
	if err := s.posts.Save(ctx, post); err != nil {
		// Losing one view count is not worth failing the read.
		s.logger.Warn("failed to record post view", zap.Error(err))
	}
	return ToPostResponse(post), nil
}

// ListPublished lists published posts, newest first
func (s *PostService) ListPublished(ctx context.Context, filter shared.Filter) ([]PostResponse, error) {
	posts, err := s.posts.FindPublished(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toPostResponses(posts), nil
}

// ListFeatured lists featured published posts
func (s *PostService) ListFeatured(ctx context.Context) ([]PostResponse, error) {
	posts, err := s.posts.FindFeatured(ctx)
	if err != nil {
		return nil, err
	}
	return toPostResponses(posts), nil
}

// EditHistory lists archived revisions of a post, newest first
func (s *PostService) EditHistory(ctx context.Context, id uuid.UUID) ([]EditHistoryResponse, error) {
	rows, err := s.history.FindByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]EditHistoryResponse, len(rows))
	for i := range rows {
		responses[i] = ToEditHistoryResponse(&rows[i])
	}
	return responses, nil
}

// AttachImage adds an image to a post's gallery
func (s *PostService) AttachImage(ctx context.Context, postID uuid.UUID, req AttachImageRequest) (*PostImageResponse, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	count, err := s.images.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if count >= blog.MaxImagesPerPost {
		return nil, shared.NewDomainError("GALLERY_FULL", "a post can hold at most 4 images")
	}

	image, err := blog.NewPostImage(postID, req.ImagePath, req.FileName, req.FileSize)
	if err != nil {
		return nil, err
	}
	if req.AltText != "" {
		image.SetAltText(req.AltText)
	}
	if req.IsPrimary || count == 0 {
		image.MarkPrimary()
	}

	if err := s.images.Save(ctx, image); err != nil {
		return nil, err
	}
	return ToPostImageResponse(image), nil
}

// RemoveImage deletes a post image; the cleanup hook handles the file
func (s *PostService) RemoveImage(ctx context.Context, imageID uuid.UUID) error {
	return s.images.Delete(ctx, imageID)
}

// Delete deletes a post
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.posts.Delete(ctx, id)
}

func (s *PostService) publish(ctx context.Context, post *blog.Post) {
	events := post.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish post events", zap.Error(err))
	}
	post.ClearDomainEvents()
}
