package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product business operations
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		events:     events,
		logger:     logger,
	}
}

// Create creates a new product in an existing category
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	taken, err := s.products.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a product with this SKU already exists")
	}

	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(sku, req.Name, req.Description, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	return ToProductResponse(product), nil
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != "" {
		name = req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		if err := product.MoveToCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	return ToProductResponse(product), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// ListByCategory lists products in a category
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]ProductResponse, error) {
	products, err := s.products.FindByCategory(ctx, categoryID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *ToProductResponse(&products[i])
	}
	return responses, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events", zap.Error(err))
	}
	product.ClearDomainEvents()
}

// ProductImageService manages product gallery metadata. The image lifecycle
// hooks keep the single-primary invariant and clean up files; the service only
// drives repository writes.
type ProductImageService struct {
	images   catalog.ProductImageRepository
	products catalog.ProductRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewProductImageService creates a new ProductImageService
func NewProductImageService(
	images catalog.ProductImageRepository,
	products catalog.ProductRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductImageService {
	return &ProductImageService{
		images:   images,
		products: products,
		events:   events,
		logger:   logger,
	}
}

// Add attaches an image to a product's gallery
func (s *ProductImageService) Add(ctx context.Context, productID uuid.UUID, req AddImageRequest) (*ImageResponse, error) {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	count, err := s.images.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if count >= catalog.MaxImagesPerProduct {
		return nil, shared.NewDomainError("GALLERY_FULL", "a product can hold at most 4 images")
	}

	image, err := catalog.NewProductImage(productID, req.ImagePath, req.FileName, req.FileSize)
	if err != nil {
		return nil, err
	}
	if req.AltText != "" {
		image.SetAltText(req.AltText)
	}
	if req.IsPrimary || count == 0 {
		// The first image of a gallery always becomes primary.
		image.MarkPrimary()
	}

	if err := s.images.Save(ctx, image); err != nil {
		return nil, err
	}
	if image.IsPrimary {
		s.publishPrimaryChanged(ctx, image)
	}
	return ToImageResponse(image), nil
}

// SetPrimary makes one image the product's representative image
func (s *ProductImageService) SetPrimary(ctx context.Context, imageID uuid.UUID) (*ImageResponse, error) {
	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.IsPrimary {
		return ToImageResponse(image), nil
	}
	image.MarkPrimary()

	if err := s.images.Save(ctx, image); err != nil {
		return nil, err
	}
	s.publishPrimaryChanged(ctx, image)
	return ToImageResponse(image), nil
}

// List lists a product's gallery, primary first
func (s *ProductImageService) List(ctx context.Context, productID uuid.UUID) ([]ImageResponse, error) {
	images, err := s.images.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]ImageResponse, len(images))
	for i := range images {
		responses[i] = *ToImageResponse(&images[i])
	}
	return responses, nil
}

// Delete removes an image. The cleanup hook queues the file for removal and
// promotes a replacement primary when needed.
func (s *ProductImageService) Delete(ctx context.Context, imageID uuid.UUID) error {
	return s.images.Delete(ctx, imageID)
}

func (s *ProductImageService) publishPrimaryChanged(ctx context.Context, image *catalog.ProductImage) {
	if err := s.events.Publish(ctx, catalog.NewPrimaryImageChangedEvent(image)); err != nil {
		s.logger.Warn("failed to publish primary image event", zap.Error(err))
	}
}
