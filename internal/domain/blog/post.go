package blog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// Post is a blog article. Content updates are audited: the edit-history hook
// snapshots the previous body into PostEditHistory before each update.
type Post struct {
	shared.BaseAggregateRoot
	Title       string     `gorm:"type:varchar(255);not null"`
	Slug        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Excerpt     string     `gorm:"type:varchar(500)"`
	Content     string     `gorm:"type:text;not null"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	IsFeatured  bool       `gorm:"not null;default:false"`
	ViewCount   int64      `gorm:"not null;default:0"`
	SortOrder   int        `gorm:"not null;default:0"`
	IsActive    bool       `gorm:"not null;default:false"`
	PublishedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "posts"
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewValidationError("title", "post title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewValidationError("title", "post title cannot exceed 255 characters")
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return shared.NewValidationError("content", "post content cannot be empty")
	}
	return nil
}

// NewPost creates an unpublished post
func NewPost(title, content, excerpt string, authorID uuid.UUID) (*Post, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if authorID == uuid.Nil {
		return nil, shared.NewValidationError("author_id", "post requires an author")
	}

	title = strings.TrimSpace(title)
	post := &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Slug:              shared.Slugify(title),
		Excerpt:           excerpt,
		Content:           content,
		AuthorID:          authorID,
	}
	post.AddDomainEvent(NewPostCreatedEvent(post))
	return post, nil
}

// UpdateContent replaces the body and excerpt
func (p *Post) UpdateContent(content, excerpt string) error {
	if err := validateContent(content); err != nil {
		return err
	}
	p.Content = content
	p.Excerpt = excerpt
	p.touch()
	return nil
}

// Retitle changes the title and re-derives the slug
func (p *Post) Retitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	p.Title = strings.TrimSpace(title)
	p.Slug = shared.Slugify(p.Title)
	p.touch()
	return nil
}

// Publish makes the post visible on the shop front
func (p *Post) Publish(now time.Time) {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.PublishedAt = &now
	p.touch()
	p.AddDomainEvent(NewPostPublishedEvent(p))
}

// Unpublish hides the post
func (p *Post) Unpublish() {
	p.IsActive = false
	p.touch()
}

// Feature pins the post on the landing page
func (p *Post) Feature() {
	p.IsFeatured = true
	p.touch()
}

// Unfeature removes the landing-page pin
func (p *Post) Unfeature() {
	p.IsFeatured = false
	p.touch()
}

// RecordView bumps the view counter
func (p *Post) RecordView() {
	p.ViewCount++
}

func (p *Post) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
