package sale

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityOrder is the mutation entity kind for orders
const EntityOrder = "order"

// StatusHistoryAppender appends transition rows within the active transaction
type StatusHistoryAppender interface {
	Append(ctx context.Context, row *OrderStatusHistory) error
}

// OrderStatusHistoryHook appends one immutable history row whenever an
// order's status changes. Updates that leave the status untouched append
// nothing.
type OrderStatusHistoryHook struct {
	history StatusHistoryAppender
	logger  *zap.Logger
}

// NewOrderStatusHistoryHook creates the status audit hook
func NewOrderStatusHistoryHook(history StatusHistoryAppender, logger *zap.Logger) *OrderStatusHistoryHook {
	return &OrderStatusHistoryHook{history: history, logger: logger}
}

// Name identifies the hook
func (h *OrderStatusHistoryHook) Name() string { return "log_status_change" }

// Handle appends a history row when the status changed
func (h *OrderStatusHistoryHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	order, ok := m.Target.(*Order)
	if !ok {
		return fmt.Errorf("sale: unexpected target %T for %s", m.Target, EntityOrder)
	}
	if !m.Changes.Changed("status") {
		return nil
	}

	actor, err := h.actingStaff(ctx, order)
	if err != nil {
		return err
	}

	oldStatus := order.Status
	if old, ok := m.Changes.Old("status"); ok {
		switch v := old.(type) {
		case OrderStatus:
			oldStatus = v
		case string:
			oldStatus = OrderStatus(v)
		}
	}

	row := &OrderStatusHistory{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    order.ID,
		OldStatus:  oldStatus,
		NewStatus:  order.Status,
		ChangedBy:  actor,
	}
	if err := h.history.Append(ctx, row); err != nil {
		return err
	}
	h.logger.Info("order status transition recorded",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(row.OldStatus)),
		zap.String("to", string(row.NewStatus)),
	)
	return nil
}

// actingStaff resolves who moved the order, falling back to the row's audit
// stamps. A transition with no attributable staff member violates the audit
// invariant.
func (h *OrderStatusHistoryHook) actingStaff(ctx context.Context, order *Order) (uuid.UUID, error) {
	if actor, ok := shared.ActorFrom(ctx); ok {
		return actor, nil
	}
	if order.ModifiedBy != nil {
		return *order.ModifiedBy, nil
	}
	if order.CreatedBy != nil {
		return *order.CreatedBy, nil
	}
	return uuid.Nil, shared.NewIntegrityViolation(EntityOrder, "status change requires an acting staff member")
}

// ListenerDomain is the registry group name for sale hooks
const ListenerDomain = "sale"

// Bindings assembles the sale listener group: the status audit trail.
func Bindings(history StatusHistoryAppender, logger *zap.Logger) []lifecycle.Binding {
	status := NewOrderStatusHistoryHook(history, logger)

	return []lifecycle.Binding{
		{Entity: EntityOrder, Phase: lifecycle.BeforeUpdate, Hook: status},
	}
}
