package marketing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityUserInteraction is the mutation entity kind for interactions
const EntityUserInteraction = "user_interaction"

// TargetStore checks that a discriminated target reference points at a live
// row, executing against the transaction carried by the context.
type TargetStore interface {
	TargetExists(ctx context.Context, target TargetType, targetID uuid.UUID) (bool, error)
}

// InteractionTargetHook verifies the (target_type, target_id) pair of an
// incoming interaction before it is persisted. A dangling reference aborts
// the write as an integrity violation.
type InteractionTargetHook struct {
	targets TargetStore
	logger  *zap.Logger
}

// NewInteractionTargetHook creates the target-reference validation hook
func NewInteractionTargetHook(targets TargetStore, logger *zap.Logger) *InteractionTargetHook {
	return &InteractionTargetHook{targets: targets, logger: logger}
}

// Name identifies the hook
func (h *InteractionTargetHook) Name() string { return "validate_interaction_target" }

// Handle rejects interactions whose target row does not exist
func (h *InteractionTargetHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	interaction, ok := m.Target.(*UserInteraction)
	if !ok {
		return fmt.Errorf("marketing: unexpected target %T for %s", m.Target, EntityUserInteraction)
	}
	exists, err := h.targets.TargetExists(ctx, interaction.TargetType, interaction.TargetID)
	if err != nil {
		return err
	}
	if !exists {
		h.logger.Warn("interaction references missing target",
			zap.String("target_type", string(interaction.TargetType)),
			zap.String("target_id", interaction.TargetID.String()),
		)
		return shared.NewIntegrityViolation(EntityUserInteraction,
			fmt.Sprintf("%s %s does not exist", interaction.TargetType, interaction.TargetID))
	}
	return nil
}
