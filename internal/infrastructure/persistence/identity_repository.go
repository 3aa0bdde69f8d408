package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/identity"
	"github.com/solarmd/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClientRepository implements identity.ClientRepository
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Client, error) {
	var client identity.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByEmail finds a client by email
func (r *GormClientRepository) FindByEmail(ctx context.Context, email string) (*identity.Client, error) {
	var client identity.Client
	if err := r.db.WithContext(ctx).
		First(&client, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindAll finds all clients matching the filter
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Client, error) {
	var clients []identity.Client
	query := applyFilter(r.db.WithContext(ctx).Model(&identity.Client{}), filter)
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// ExistsByEmail reports whether a client with the email exists
func (r *GormClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.Client{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *identity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

var _ identity.ClientRepository = (*GormClientRepository)(nil)

// GormStaffRepository implements identity.StaffRepository
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// FindByID finds a staff member by its ID
func (r *GormStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindByEmail finds a staff member by email
func (r *GormStaffRepository) FindByEmail(ctx context.Context, email string) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).
		First(&staff, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindActive lists active staff members
func (r *GormStaffRepository) FindActive(ctx context.Context) ([]identity.Staff, error) {
	var staff []identity.Staff
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// Save creates or updates a staff member
func (r *GormStaffRepository) Save(ctx context.Context, staff *identity.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

var _ identity.StaffRepository = (*GormStaffRepository)(nil)
