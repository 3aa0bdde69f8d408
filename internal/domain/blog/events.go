package blog

import (
	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePost = "Post"

// Event type constants
const (
	EventTypePostCreated   = "PostCreated"
	EventTypePostPublished = "PostPublished"
	EventTypePostEdited    = "PostEdited"
)

// PostCreatedEvent is published when a new post is created
type PostCreatedEvent struct {
	shared.BaseDomainEvent
	PostID   uuid.UUID `json:"post_id"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	AuthorID uuid.UUID `json:"author_id"`
}

// NewPostCreatedEvent creates a new PostCreatedEvent
func NewPostCreatedEvent(post *Post) *PostCreatedEvent {
	return &PostCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostCreated, AggregateTypePost, post.ID),
		PostID:          post.ID,
		Title:           post.Title,
		Slug:            post.Slug,
		AuthorID:        post.AuthorID,
	}
}

// PostPublishedEvent is published when a post goes live
type PostPublishedEvent struct {
	shared.BaseDomainEvent
	PostID uuid.UUID `json:"post_id"`
	Slug   string    `json:"slug"`
}

// NewPostPublishedEvent creates a new PostPublishedEvent
func NewPostPublishedEvent(post *Post) *PostPublishedEvent {
	return &PostPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostPublished, AggregateTypePost, post.ID),
		PostID:          post.ID,
		Slug:            post.Slug,
	}
}

// PostEditedEvent is published after a content revision was archived
type PostEditedEvent struct {
	shared.BaseDomainEvent
	PostID    uuid.UUID `json:"post_id"`
	ChangedBy uuid.UUID `json:"changed_by"`
}

// NewPostEditedEvent creates a new PostEditedEvent
func NewPostEditedEvent(postID, changedBy uuid.UUID) *PostEditedEvent {
	return &PostEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostEdited, AggregateTypePost, postID),
		PostID:          postID,
		ChangedBy:       changedBy,
	}
}
