package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// DefaultProductImagePath is assigned when a product image has no usable file
const DefaultProductImagePath = "static/shop/product/prod_default.png"

// MaxImagesPerProduct caps the gallery size per product
const MaxImagesPerProduct = 4

// ProductImage is one image in a product's gallery. At most one image per
// product carries the primary flag; the primary-enforcement hook demotes
// siblings inside the triggering transaction.
type ProductImage struct {
	shared.AuditedEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImagePath string    `gorm:"type:varchar(500);not null"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	FileSize  int64     `gorm:"not null"`
	AltText   string    `gorm:"type:varchar(255)"`
	IsPrimary bool      `gorm:"not null;default:false;index"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// MaxImageFileSize is the upload size cap in bytes
const MaxImageFileSize = 2 << 20

func validateImageFile(fileName string, fileSize int64) error {
	if strings.TrimSpace(fileName) == "" {
		return shared.NewValidationError("file_name", "file name cannot be empty")
	}
	dot := strings.LastIndex(fileName, ".")
	if dot < 0 || !allowedImageExtensions[strings.ToLower(fileName[dot:])] {
		return shared.NewValidationError("file_name", "unsupported image format, expected jpg, jpeg, png or webp")
	}
	if fileSize <= 0 {
		return shared.NewValidationError("file_size", "file size must be positive")
	}
	if fileSize > MaxImageFileSize {
		return shared.NewValidationError("file_size", "image exceeds the 2MB size limit")
	}
	return nil
}

// NewProductImage creates a new product image record
func NewProductImage(productID uuid.UUID, imagePath, fileName string, fileSize int64) (*ProductImage, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "image requires a product")
	}
	if err := validateImageFile(fileName, fileSize); err != nil {
		return nil, err
	}
	return &ProductImage{
		AuditedEntity: shared.NewAuditedEntity(),
		ProductID:     productID,
		ImagePath:     imagePath,
		FileName:      fileName,
		FileSize:      fileSize,
	}, nil
}

// MarkPrimary flags this image as the product's representative image
func (i *ProductImage) MarkPrimary() {
	i.IsPrimary = true
	i.UpdatedAt = time.Now()
}

// Demote clears the primary flag
func (i *ProductImage) Demote() {
	i.IsPrimary = false
	i.UpdatedAt = time.Now()
}

// SetAltText sets the accessibility description
func (i *ProductImage) SetAltText(text string) {
	i.AltText = text
	i.UpdatedAt = time.Now()
}
