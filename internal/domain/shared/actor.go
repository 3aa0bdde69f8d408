package shared

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// WithActor returns a context carrying the acting staff member's ID.
// Set per request by the HTTP actor middleware; read at write time by the
// audit-stamp hook.
func WithActor(ctx context.Context, staffID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, staffID)
}

// ActorFrom extracts the acting staff ID from the context, if any.
func ActorFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	return id, ok
}
