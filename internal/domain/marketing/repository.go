package marketing

import (
	"context"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/shared"
)

// UserInteractionRepository defines the interface for interaction persistence.
// Save runs the marketing lifecycle hooks inside its transaction.
type UserInteractionRepository interface {
	// FindByID finds an interaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*UserInteraction, error)

	// FindByClientAndTarget finds the row for one client/target pair, or
	// shared.ErrNotFound
	FindByClientAndTarget(ctx context.Context, clientID uuid.UUID, target TargetType, targetID uuid.UUID) (*UserInteraction, error)

	// FindByClient lists a client's interactions, most recent first
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]UserInteraction, error)

	// CountByTarget totals recorded views for one target
	CountByTarget(ctx context.Context, target TargetType, targetID uuid.UUID) (int64, error)

	// Save creates or updates an interaction row
	Save(ctx context.Context, interaction *UserInteraction) error
}

// UserRequestRepository defines the interface for client request persistence
type UserRequestRepository interface {
	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*UserRequest, error)

	// FindUnprocessed lists requests awaiting staff attention, oldest first
	FindUnprocessed(ctx context.Context, filter shared.Filter) ([]UserRequest, error)

	// FindByClient lists a client's requests
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]UserRequest, error)

	// Save creates or updates a request
	Save(ctx context.Context, request *UserRequest) error
}
