package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/blog"
)

// CreatePostRequest is the payload for creating a post. An optional image may
// be attached in the same call.
type CreatePostRequest struct {
	Title   string              `json:"title" binding:"required,min=3,max=255"`
	Excerpt string              `json:"excerpt" binding:"max=500"`
	Content string              `json:"content" binding:"required"`
	Image   *AttachImageRequest `json:"image"`
}

// UpdatePostRequest is the payload for editing a post
type UpdatePostRequest struct {
	Title   string  `json:"title" binding:"omitempty,min=3,max=255"`
	Excerpt *string `json:"excerpt" binding:"omitempty,max=500"`
	Content string  `json:"content"`
}

// AttachImageRequest is the payload for attaching an image to a post
type AttachImageRequest struct {
	ImagePath string `json:"image_path" binding:"required,max=500"`
	FileName  string `json:"file_name" binding:"required,max=255"`
	FileSize  int64  `json:"file_size" binding:"required,gt=0"`
	AltText   string `json:"alt_text" binding:"max=255"`
	IsPrimary bool   `json:"is_primary"`
}

// PostResponse is the API shape of a post
type PostResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	AuthorID    uuid.UUID  `json:"author_id"`
	IsFeatured  bool       `json:"is_featured"`
	ViewCount   int64      `json:"view_count"`
	IsActive    bool       `json:"is_active"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToPostResponse maps a post to its API shape
func ToPostResponse(p *blog.Post) *PostResponse {
	return &PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		AuthorID:    p.AuthorID,
		IsFeatured:  p.IsFeatured,
		ViewCount:   p.ViewCount,
		IsActive:    p.IsActive,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// toPostResponses maps posts to their API shape
func toPostResponses(posts []blog.Post) []PostResponse {
	responses := make([]PostResponse, len(posts))
	for i := range posts {
		responses[i] = *ToPostResponse(&posts[i])
	}
	return responses
}

// PostImageResponse is the API shape of a post image
type PostImageResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	ImagePath string    `json:"image_path"`
	FileName  string    `json:"file_name"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
}

// ToPostImageResponse maps a post image to its API shape
func ToPostImageResponse(i *blog.PostImage) *PostImageResponse {
	return &PostImageResponse{
		ID:        i.ID,
		PostID:    i.PostID,
		ImagePath: i.ImagePath,
		FileName:  i.FileName,
		AltText:   i.AltText,
		IsPrimary: i.IsPrimary,
	}
}

// EditHistoryResponse is the API shape of one archived revision
type EditHistoryResponse struct {
	ID               uuid.UUID `json:"id"`
	OldTitle         string    `json:"old_title"`
	OldContent       string    `json:"old_content"`
	ModificationType string    `json:"modification_type"`
	ChangedBy        uuid.UUID `json:"changed_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToEditHistoryResponse maps an archived revision to its API shape
func ToEditHistoryResponse(h *blog.PostEditHistory) EditHistoryResponse {
	return EditHistoryResponse{
		ID:               h.ID,
		OldTitle:         h.OldTitle,
		OldContent:       h.OldContent,
		ModificationType: string(h.ModificationType),
		ChangedBy:        h.ChangedBy,
		CreatedAt:        h.CreatedAt,
	}
}
