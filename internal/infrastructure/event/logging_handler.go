package event

import (
	"context"

	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingEventHandler records every published domain event. Subscribed as a
// wildcard handler it gives an audit trail of what the write paths emitted.
type LoggingEventHandler struct {
	logger *zap.Logger
}

// NewLoggingEventHandler creates a new LoggingEventHandler
func NewLoggingEventHandler(logger *zap.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{logger: logger.Named("events")}
}

// EventTypes returns nil, subscribing the handler to all event types
func (h *LoggingEventHandler) EventTypes() []string { return nil }

// Handle logs the event
func (h *LoggingEventHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}
