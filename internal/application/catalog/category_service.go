// Package catalog contains application services for the shop catalog.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryCache caches the active category listing. Any error from Get is
// treated as a miss; the service rebuilds from the repository.
type CategoryCache interface {
	GetCategories(ctx context.Context) ([]catalog.Category, error)
	SetCategories(ctx context.Context, categories []catalog.Category) error
	InvalidateCategories(ctx context.Context) error
}

// CategoryService handles category business operations
type CategoryService struct {
	categories catalog.CategoryRepository
	cache      CategoryCache
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewCategoryService creates a new CategoryService. cache may be nil when no
// Redis is configured.
func NewCategoryService(
	categories catalog.CategoryRepository,
	cache CategoryCache,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		cache:      cache,
		events:     events,
		logger:     logger,
	}
}

// Create creates a new category. Names are unique case-insensitively.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	taken, err := s.categories.ExistsByNameFold(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a category with this name already exists")
	}

	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publish(ctx, category)
	s.invalidate(ctx)

	return ToCategoryResponse(category), nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && catalog.NormalizeCategoryName(req.Name) != category.Name {
		taken, err := s.categories.ExistsByNameFold(ctx, req.Name, category.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "a category with this name already exists")
		}
		if err := category.Rename(req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		category.UpdateDescription(*req.Description)
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.IsActive != nil {
		if *req.IsActive {
			category.Activate()
		} else {
			category.Deactivate()
		}
	}
	// Sort-order and activation changes do not raise events on the aggregate
	if len(category.GetDomainEvents()) == 0 {
		category.AddDomainEvent(catalog.NewCategoryUpdatedEvent(category))
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publish(ctx, category)
	s.invalidate(ctx)

	return ToCategoryResponse(category), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// ListActive returns the active category listing, served from cache when warm
func (s *CategoryService) ListActive(ctx context.Context) ([]CategoryResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCategories(ctx); err == nil {
			return toCategoryResponses(cached), nil
		}
	}

	categories, err := s.categories.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			s.logger.Warn("failed to warm category cache", zap.Error(err))
		}
	}
	return toCategoryResponses(categories), nil
}

// Delete deletes a category. Categories still holding products cannot be
// deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if category.IsUnknown {
		return shared.NewDomainError("SYSTEM_CATEGORY", "the fallback category cannot be deleted")
	}

	hasProducts, err := s.categories.HasProducts(ctx, category.ID)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewDomainError("HAS_PRODUCTS", "cannot delete a category that still has products")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.events.Publish(ctx, catalog.NewCategoryDeletedEvent(category)); err != nil {
		s.logger.Warn("failed to publish category deleted event", zap.Error(err))
	}
	s.invalidate(ctx)
	return nil
}

// publish flushes the aggregate's pending events after a successful write
func (s *CategoryService) publish(ctx context.Context, category *catalog.Category) {
	events := category.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish category events", zap.Error(err))
	}
	category.ClearDomainEvents()
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		s.logger.Warn("failed to invalidate category cache", zap.Error(err))
	}
}

func toCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *ToCategoryResponse(&categories[i])
	}
	return responses
}
