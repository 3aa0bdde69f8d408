package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/blog"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/marketing"
	"github.com/solarmd/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUserInteractionRepository implements marketing.UserInteractionRepository.
// Writes run the marketing lifecycle hooks, so dangling target references
// are rejected before the row lands.
type GormUserInteractionRepository struct {
	db    *gorm.DB
	hooks *lifecycle.Dispatcher
}

// NewGormUserInteractionRepository creates a new GormUserInteractionRepository
func NewGormUserInteractionRepository(db *gorm.DB, hooks *lifecycle.Dispatcher) *GormUserInteractionRepository {
	return &GormUserInteractionRepository{db: db, hooks: hooks}
}

// FindByID finds an interaction by its ID
func (r *GormUserInteractionRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketing.UserInteraction, error) {
	var interaction marketing.UserInteraction
	if err := r.db.WithContext(ctx).First(&interaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &interaction, nil
}

// FindByClientAndTarget finds the row for one client/target pair
func (r *GormUserInteractionRepository) FindByClientAndTarget(ctx context.Context, clientID uuid.UUID, target marketing.TargetType, targetID uuid.UUID) (*marketing.UserInteraction, error) {
	var interaction marketing.UserInteraction
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND target_type = ? AND target_id = ?", clientID, target, targetID).
		First(&interaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &interaction, nil
}

// FindByClient lists a client's interactions, most recent first
func (r *GormUserInteractionRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]marketing.UserInteraction, error) {
	var interactions []marketing.UserInteraction
	query := r.db.WithContext(ctx).Model(&marketing.UserInteraction{}).
		Where("client_id = ?", clientID).
		Order("last_viewed_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

// CountByTarget totals recorded views for one target
func (r *GormUserInteractionRepository) CountByTarget(ctx context.Context, target marketing.TargetType, targetID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&marketing.UserInteraction{}).
		Where("target_type = ? AND target_id = ?", target, targetID).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Save creates or updates an interaction row, running the marketing hooks
// in the write transaction
func (r *GormUserInteractionRepository) Save(ctx context.Context, interaction *marketing.UserInteraction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var existing marketing.UserInteraction
		err := tx.First(&existing, "id = ?", interaction.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := &lifecycle.Mutation{Entity: marketing.EntityUserInteraction, Target: interaction}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeInsert, m); err != nil {
				return err
			}
			if err := tx.Create(interaction).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterInsert, m)
		case err != nil:
			return err
		default:
			m := &lifecycle.Mutation{
				Entity:  marketing.EntityUserInteraction,
				Target:  interaction,
				Changes: lifecycle.Changes{},
			}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeUpdate, m); err != nil {
				return err
			}
			if err := tx.Save(interaction).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterUpdate, m)
		}
	})
}

var _ marketing.UserInteractionRepository = (*GormUserInteractionRepository)(nil)

// GormUserRequestRepository implements marketing.UserRequestRepository
type GormUserRequestRepository struct {
	db *gorm.DB
}

// NewGormUserRequestRepository creates a new GormUserRequestRepository
func NewGormUserRequestRepository(db *gorm.DB) *GormUserRequestRepository {
	return &GormUserRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormUserRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketing.UserRequest, error) {
	var request marketing.UserRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindUnprocessed lists requests awaiting staff attention, oldest first
func (r *GormUserRequestRepository) FindUnprocessed(ctx context.Context, filter shared.Filter) ([]marketing.UserRequest, error) {
	var requests []marketing.UserRequest
	query := r.db.WithContext(ctx).Model(&marketing.UserRequest{}).
		Where("is_processed = ?", false).
		Order("created_at ASC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByClient lists a client's requests
func (r *GormUserRequestRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]marketing.UserRequest, error) {
	var requests []marketing.UserRequest
	query := applyFilter(
		r.db.WithContext(ctx).Model(&marketing.UserRequest{}).Where("client_id = ?", clientID),
		filter,
	)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a request
func (r *GormUserRequestRepository) Save(ctx context.Context, request *marketing.UserRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

var _ marketing.UserRequestRepository = (*GormUserRequestRepository)(nil)

// GormTargetStore implements marketing.TargetStore against the transaction
// carried by the context. The discriminator selects which table is probed.
type GormTargetStore struct {
	db *gorm.DB
}

// NewGormTargetStore creates a new GormTargetStore
func NewGormTargetStore(db *gorm.DB) *GormTargetStore {
	return &GormTargetStore{db: db}
}

// TargetExists reports whether the discriminated reference points at a row
func (s *GormTargetStore) TargetExists(ctx context.Context, target marketing.TargetType, targetID uuid.UUID) (bool, error) {
	var model any
	switch target {
	case marketing.TargetCategory:
		model = &catalog.Category{}
	case marketing.TargetProduct:
		model = &catalog.Product{}
	case marketing.TargetPost:
		model = &blog.Post{}
	default:
		return false, fmt.Errorf("persistence: unknown interaction target type %q", target)
	}

	var count int64
	if err := dbFrom(ctx, s.db).WithContext(ctx).Model(model).
		Where("id = ?", targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ marketing.TargetStore = (*GormTargetStore)(nil)
