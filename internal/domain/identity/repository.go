package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByEmail finds a client by email
	FindByEmail(ctx context.Context, email string) (*Client, error)

	// FindAll finds all clients matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)

	// ExistsByEmail reports whether a client with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error
}

// StaffRepository defines the interface for staff persistence
type StaffRepository interface {
	// FindByID finds a staff member by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Staff, error)

	// FindByEmail finds a staff member by email
	FindByEmail(ctx context.Context, email string) (*Staff, error)

	// FindActive lists active staff members
	FindActive(ctx context.Context) ([]Staff, error)

	// Save creates or updates a staff member
	Save(ctx context.Context, staff *Staff) error
}
