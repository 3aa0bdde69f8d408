package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with normalized SKU", func(t *testing.T) {
		category, err := catalog.NewCategory("Solar Panels", "")
		require.NoError(t, err)

		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		events := &stubPublisher{}
		service := NewProductService(products, categories, events, zap.NewNop())

		products.On("ExistsBySKU", ctx, "SP-450W").Return(false, nil)
		categories.On("FindByID", ctx, category.ID).Return(category, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(ctx, CreateProductRequest{
			SKU:        "  sp-450w ",
			Name:       "Panou solar 450W",
			CategoryID: category.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, "SP-450W", resp.SKU)
		assert.Equal(t, category.ID, resp.CategoryID)
		assert.NotEmpty(t, events.events)
		products.AssertExpectations(t)
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		products := new(MockProductRepository)
		service := NewProductService(products, new(MockCategoryRepository), &stubPublisher{}, zap.NewNop())

		products.On("ExistsBySKU", ctx, "SP-450W").Return(true, nil)

		_, err := service.Create(ctx, CreateProductRequest{
			SKU:        "SP-450W",
			Name:       "Panou solar 450W",
			CategoryID: uuid.New(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		service := NewProductService(products, categories, &stubPublisher{}, zap.NewNop())

		categoryID := uuid.New()
		products.On("ExistsBySKU", ctx, "SP-450W").Return(false, nil)
		categories.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateProductRequest{
			SKU:        "SP-450W",
			Name:       "Panou solar 450W",
			CategoryID: categoryID,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("moves product to an existing category", func(t *testing.T) {
		product, err := catalog.NewProduct("SP-450W", "Panou solar 450W", "", uuid.New())
		require.NoError(t, err)
		target, err := catalog.NewCategory("Batteries", "")
		require.NoError(t, err)

		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		service := NewProductService(products, categories, &stubPublisher{}, zap.NewNop())

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		categories.On("FindByID", ctx, target.ID).Return(target, nil)
		products.On("Save", ctx, product).Return(nil)

		resp, err := service.Update(ctx, product.ID, UpdateProductRequest{CategoryID: &target.ID})

		require.NoError(t, err)
		assert.Equal(t, target.ID, resp.CategoryID)
	})

	t.Run("deactivates product", func(t *testing.T) {
		product, err := catalog.NewProduct("SP-450W", "Panou solar 450W", "", uuid.New())
		require.NoError(t, err)

		products := new(MockProductRepository)
		service := NewProductService(products, new(MockCategoryRepository), &stubPublisher{}, zap.NewNop())

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("Save", ctx, product).Return(nil)

		inactive := false
		resp, err := service.Update(ctx, product.ID, UpdateProductRequest{IsActive: &inactive})

		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})
}

func TestProductImageService_Add(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("first image becomes primary", func(t *testing.T) {
		images := new(MockProductImageRepository)
		products := new(MockProductRepository)
		events := &stubPublisher{}
		service := NewProductImageService(images, products, events, zap.NewNop())

		products.On("Exists", ctx, productID).Return(true, nil)
		images.On("CountByProduct", ctx, productID).Return(int64(0), nil)
		images.On("Save", ctx, mock.AnythingOfType("*catalog.ProductImage")).Return(nil)

		resp, err := service.Add(ctx, productID, AddImageRequest{
			ImagePath: "static/shop/product/sp-450w.jpg",
			FileName:  "sp-450w.jpg",
			FileSize:  2048,
		})

		require.NoError(t, err)
		assert.True(t, resp.IsPrimary)
		assert.Len(t, events.events, 1)
	})

	t.Run("later images stay secondary unless requested", func(t *testing.T) {
		images := new(MockProductImageRepository)
		products := new(MockProductRepository)
		events := &stubPublisher{}
		service := NewProductImageService(images, products, events, zap.NewNop())

		products.On("Exists", ctx, productID).Return(true, nil)
		images.On("CountByProduct", ctx, productID).Return(int64(2), nil)
		images.On("Save", ctx, mock.AnythingOfType("*catalog.ProductImage")).Return(nil)

		resp, err := service.Add(ctx, productID, AddImageRequest{
			ImagePath: "static/shop/product/sp-450w-side.jpg",
			FileName:  "sp-450w-side.jpg",
			FileSize:  1024,
		})

		require.NoError(t, err)
		assert.False(t, resp.IsPrimary)
		assert.Empty(t, events.events)
	})

	t.Run("rejects a full gallery", func(t *testing.T) {
		images := new(MockProductImageRepository)
		products := new(MockProductRepository)
		service := NewProductImageService(images, products, &stubPublisher{}, zap.NewNop())

		products.On("Exists", ctx, productID).Return(true, nil)
		images.On("CountByProduct", ctx, productID).Return(int64(catalog.MaxImagesPerProduct), nil)

		_, err := service.Add(ctx, productID, AddImageRequest{
			ImagePath: "static/shop/product/sp-450w-5.jpg",
			FileName:  "sp-450w-5.jpg",
			FileSize:  1024,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "GALLERY_FULL", domainErr.Code)
		images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		images := new(MockProductImageRepository)
		products := new(MockProductRepository)
		service := NewProductImageService(images, products, &stubPublisher{}, zap.NewNop())

		products.On("Exists", ctx, productID).Return(false, nil)

		_, err := service.Add(ctx, productID, AddImageRequest{
			ImagePath: "static/shop/product/x.jpg",
			FileName:  "x.jpg",
			FileSize:  1,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductImageService_SetPrimary(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes a secondary image", func(t *testing.T) {
		image, err := catalog.NewProductImage(uuid.New(), "static/shop/product/a.jpg", "a.jpg", 100)
		require.NoError(t, err)

		images := new(MockProductImageRepository)
		events := &stubPublisher{}
		service := NewProductImageService(images, new(MockProductRepository), events, zap.NewNop())

		images.On("FindByID", ctx, image.ID).Return(image, nil)
		images.On("Save", ctx, image).Return(nil)

		resp, err := service.SetPrimary(ctx, image.ID)

		require.NoError(t, err)
		assert.True(t, resp.IsPrimary)
		assert.Len(t, events.events, 1)
	})

	t.Run("is idempotent for the current primary", func(t *testing.T) {
		image, err := catalog.NewProductImage(uuid.New(), "static/shop/product/a.jpg", "a.jpg", 100)
		require.NoError(t, err)
		image.MarkPrimary()

		images := new(MockProductImageRepository)
		events := &stubPublisher{}
		service := NewProductImageService(images, new(MockProductRepository), events, zap.NewNop())

		images.On("FindByID", ctx, image.ID).Return(image, nil)

		resp, err := service.SetPrimary(ctx, image.ID)

		require.NoError(t, err)
		assert.True(t, resp.IsPrimary)
		assert.Empty(t, events.events)
		images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
