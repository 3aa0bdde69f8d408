package marketing

import (
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"go.uber.org/zap"
)

// ListenerDomain is the registry group name for marketing hooks
const ListenerDomain = "marketing"

// Bindings assembles the marketing listener group: target-reference
// validation on interaction writes.
func Bindings(targets TargetStore, logger *zap.Logger) []lifecycle.Binding {
	validate := NewInteractionTargetHook(targets, logger)

	return []lifecycle.Binding{
		{Entity: EntityUserInteraction, Phase: lifecycle.BeforeInsert, Hook: validate},
		{Entity: EntityUserInteraction, Phase: lifecycle.BeforeUpdate, Hook: validate},
	}
}
