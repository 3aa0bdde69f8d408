package identity

import (
	"context"

	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditStampHook fills creator/modifier stamps on audited entities from the
// ambient actor. On insert an unset created_by is filled and modified_by is
// always set; on update only modified_by is refreshed, so the creator stamp
// survives later edits. Targets that do not carry audit stamps pass through
// untouched, which lets the hook bind to any entity kind.
type AuditStampHook struct {
	phase  lifecycle.Phase
	logger *zap.Logger
}

// NewAuditStampHook creates a stamp hook for one phase
func NewAuditStampHook(phase lifecycle.Phase, logger *zap.Logger) *AuditStampHook {
	return &AuditStampHook{phase: phase, logger: logger}
}

// Name identifies the hook
func (h *AuditStampHook) Name() string { return "audit_stamp" }

// Handle stamps the target with the acting staff member
func (h *AuditStampHook) Handle(ctx context.Context, m *lifecycle.Mutation) error {
	audited, ok := m.Target.(shared.Audited)
	if !ok {
		return nil
	}
	actor, ok := shared.ActorFrom(ctx)
	if !ok {
		// Anonymous writes (storefront traffic) carry no actor; the
		// stamps stay as the caller left them.
		return nil
	}

	if h.phase == lifecycle.BeforeInsert && audited.GetCreatedBy() == nil {
		audited.SetCreatedBy(actor)
	}
	audited.SetModifiedBy(actor)
	h.logger.Debug("audit stamp applied",
		zap.String("entity", m.Entity),
		zap.String("actor", actor.String()),
	)
	return nil
}

// ListenerDomain is the registry group name for audit stamping
const ListenerDomain = "user"

// Bindings assembles the audit-stamp listener group for the given entity
// kinds. The same stamping rule applies across domains, so the composition
// root passes in every audited entity kind it persists.
func Bindings(entities []string, logger *zap.Logger) []lifecycle.Binding {
	insertStamp := NewAuditStampHook(lifecycle.BeforeInsert, logger)
	updateStamp := NewAuditStampHook(lifecycle.BeforeUpdate, logger)

	bindings := make([]lifecycle.Binding, 0, len(entities)*2)
	for _, entity := range entities {
		bindings = append(bindings,
			lifecycle.Binding{Entity: entity, Phase: lifecycle.BeforeInsert, Hook: insertStamp},
			lifecycle.Binding{Entity: entity, Phase: lifecycle.BeforeUpdate, Hook: updateStamp},
		)
	}
	return bindings
}
