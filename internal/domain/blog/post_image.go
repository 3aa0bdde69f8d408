package blog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// DefaultPostImagePath is assigned when a post image has no usable file
const DefaultPostImagePath = "static/shop/post/post_default.png"

// MaxImagesPerPost caps the gallery size per post
const MaxImagesPerPost = 4

// PostImage is one image in a post's gallery. The same single-primary rule
// as the product gallery applies: at most one image per post is primary.
type PostImage struct {
	shared.AuditedEntity
	PostID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ImagePath string    `gorm:"type:varchar(500);not null"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	FileSize  int64     `gorm:"not null"`
	AltText   string    `gorm:"type:varchar(255)"`
	IsPrimary bool      `gorm:"not null;default:false;index"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PostImage) TableName() string {
	return "post_images"
}

// NewPostImage creates a new post image record
func NewPostImage(postID uuid.UUID, imagePath, fileName string, fileSize int64) (*PostImage, error) {
	if postID == uuid.Nil {
		return nil, shared.NewValidationError("post_id", "image requires a post")
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, shared.NewValidationError("file_name", "file name cannot be empty")
	}
	if fileSize <= 0 {
		return nil, shared.NewValidationError("file_size", "file size must be positive")
	}
	return &PostImage{
		AuditedEntity: shared.NewAuditedEntity(),
		PostID:        postID,
		ImagePath:     imagePath,
		FileName:      fileName,
		FileSize:      fileSize,
	}, nil
}

// MarkPrimary flags this image as the post's representative image
func (i *PostImage) MarkPrimary() {
	i.IsPrimary = true
	i.UpdatedAt = time.Now()
}

// Demote clears the primary flag
func (i *PostImage) Demote() {
	i.IsPrimary = false
	i.UpdatedAt = time.Now()
}

// SetAltText updates the accessibility text
func (i *PostImage) SetAltText(text string) {
	i.AltText = text
	i.UpdatedAt = time.Now()
}
