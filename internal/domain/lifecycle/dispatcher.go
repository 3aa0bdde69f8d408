package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Hook reacts to one entity lifecycle phase. A hook returning an error aborts
// the triggering write; the surrounding transaction rolls back.
type Hook interface {
	// Name identifies the hook within its (entity, phase) slot
	Name() string
	// Handle applies the hook to an in-flight mutation
	Handle(ctx context.Context, m *Mutation) error
}

// HookFunc adapts a function to the Hook interface
type HookFunc struct {
	HookName string
	Fn       func(ctx context.Context, m *Mutation) error
}

// Name returns the hook name
func (h HookFunc) Name() string { return h.HookName }

// Handle invokes the wrapped function
func (h HookFunc) Handle(ctx context.Context, m *Mutation) error { return h.Fn(ctx, m) }

// Binding attaches a hook to an (entity, phase) pair
type Binding struct {
	Entity string
	Phase  Phase
	Hook   Hook
}

type slotKey struct {
	entity string
	phase  Phase
}

// Dispatcher routes mutations to the hooks attached for their entity kind and
// phase. Hooks run synchronously, in attach order, inside the caller's
// transaction.
type Dispatcher struct {
	mu     sync.RWMutex
	slots  map[slotKey][]Hook
	logger *zap.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		slots:  make(map[slotKey][]Hook),
		logger: logger,
	}
}

// Attach adds a hook to its slot. Attaching a second hook with the same name
// to the same slot is an error; it would mean duplicated side effects.
func (d *Dispatcher) Attach(b Binding) error {
	if b.Hook == nil {
		return fmt.Errorf("lifecycle: nil hook for entity %q phase %s", b.Entity, b.Phase)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	key := slotKey{entity: b.Entity, phase: b.Phase}
	for _, h := range d.slots[key] {
		if h.Name() == b.Hook.Name() {
			return fmt.Errorf("lifecycle: hook %q already attached to %s/%s", b.Hook.Name(), b.Entity, b.Phase)
		}
	}
	d.slots[key] = append(d.slots[key], b.Hook)
	return nil
}

// Detach removes a hook by name from its slot. Reports whether it was attached.
func (d *Dispatcher) Detach(entity string, phase Phase, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := slotKey{entity: entity, phase: phase}
	hooks := d.slots[key]
	for i, h := range hooks {
		if h.Name() == name {
			d.slots[key] = append(hooks[:i:i], hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Attached reports whether a hook is currently attached to a slot
func (d *Dispatcher) Attached(entity string, phase Phase, name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, h := range d.slots[slotKey{entity: entity, phase: phase}] {
		if h.Name() == name {
			return true
		}
	}
	return false
}

// Dispatch runs every hook attached for the mutation's entity and the given
// phase. The first error stops dispatch and propagates to the caller, which
// must roll back the surrounding transaction.
func (d *Dispatcher) Dispatch(ctx context.Context, phase Phase, m *Mutation) error {
	d.mu.RLock()
	hooks := d.slots[slotKey{entity: m.Entity, phase: phase}]
	// Copy so a concurrent detach cannot shift the slice under us.
	pending := make([]Hook, len(hooks))
	copy(pending, hooks)
	d.mu.RUnlock()

	for _, h := range pending {
		if err := h.Handle(ctx, m); err != nil {
			d.logger.Error("lifecycle hook failed",
				zap.String("hook", h.Name()),
				zap.String("entity", m.Entity),
				zap.String("phase", phase.String()),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}
