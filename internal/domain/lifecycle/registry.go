package lifecycle

import (
	"fmt"
	"sort"
	"sync"

	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// GroupState is the registration state of a hook group
type GroupState string

const (
	StateRegistered   GroupState = "registered"
	StateUnregistered GroupState = "unregistered"
)

// ToggleResult reports the outcome of a register/disable call
type ToggleResult struct {
	Domain  string     `json:"domain"`
	State   GroupState `json:"state"`
	Changed bool       `json:"changed"`
}

// Registry toggles named groups of hooks (one group per domain: catalog,
// blog, marketing, user, sale) on a dispatcher. It is owned by the
// composition root and injected wherever write paths need it; there is no
// module-level state. Toggling is process-wide and affects all subsequent
// writes, so it is guarded against concurrent use.
type Registry struct {
	mu         sync.Mutex
	dispatcher *Dispatcher
	groups     map[string][]Binding
	registered map[string]bool
	logger     *zap.Logger
}

// NewRegistry creates a registry over the given dispatcher
func NewRegistry(dispatcher *Dispatcher, logger *zap.Logger) *Registry {
	return &Registry{
		dispatcher: dispatcher,
		groups:     make(map[string][]Binding),
		registered: make(map[string]bool),
		logger:     logger,
	}
}

// AddGroup declares a domain group and its bindings. Declaring does not
// attach anything; call Register for that.
func (r *Registry) AddGroup(domain string, bindings []Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[domain] = bindings
}

// Register attaches every hook in the domain group. Idempotent: if the group
// is already registered it is a no-op reporting the prior state. Attachment
// is all-or-nothing — on partial failure every hook attached so far is
// detached again and the group state is not flipped.
func (r *Registry) Register(domain string) (ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bindings, ok := r.groups[domain]
	if !ok {
		return ToggleResult{Domain: domain, State: StateUnregistered}, fmt.Errorf("lifecycle: unknown listener domain %q: %w", domain, shared.ErrNotFound)
	}
	if r.registered[domain] {
		r.logger.Debug("listener group already registered", zap.String("domain", domain))
		return ToggleResult{Domain: domain, State: StateRegistered, Changed: false}, nil
	}

	for i, b := range bindings {
		if err := r.dispatcher.Attach(b); err != nil {
			for _, attached := range bindings[:i] {
				r.dispatcher.Detach(attached.Entity, attached.Phase, attached.Hook.Name())
			}
			return ToggleResult{Domain: domain, State: StateUnregistered}, err
		}
	}

	r.registered[domain] = true
	r.logger.Info("listener group registered", zap.String("domain", domain), zap.Int("hooks", len(bindings)))
	return ToggleResult{Domain: domain, State: StateRegistered, Changed: true}, nil
}

// Enable is an alias for Register
func (r *Registry) Enable(domain string) (ToggleResult, error) {
	return r.Register(domain)
}

// Disable detaches every hook in the domain group. Idempotent: disabling an
// unregistered group is a no-op.
func (r *Registry) Disable(domain string) (ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bindings, ok := r.groups[domain]
	if !ok {
		return ToggleResult{Domain: domain, State: StateUnregistered}, fmt.Errorf("lifecycle: unknown listener domain %q: %w", domain, shared.ErrNotFound)
	}
	if !r.registered[domain] {
		r.logger.Debug("listener group not registered, nothing to disable", zap.String("domain", domain))
		return ToggleResult{Domain: domain, State: StateUnregistered, Changed: false}, nil
	}

	for _, b := range bindings {
		r.dispatcher.Detach(b.Entity, b.Phase, b.Hook.Name())
	}

	r.registered[domain] = false
	r.logger.Info("listener group disabled", zap.String("domain", domain))
	return ToggleResult{Domain: domain, State: StateUnregistered, Changed: true}, nil
}

// Status reports the current state of one domain group without side effects
func (r *Registry) Status(domain string) (GroupState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[domain]; !ok {
		return StateUnregistered, fmt.Errorf("lifecycle: unknown listener domain %q: %w", domain, shared.ErrNotFound)
	}
	if r.registered[domain] {
		return StateRegistered, nil
	}
	return StateUnregistered, nil
}

// StatusAll reports the state of every declared group
func (r *Registry) StatusAll() map[string]GroupState {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make(map[string]GroupState, len(r.groups))
	for domain := range r.groups {
		if r.registered[domain] {
			states[domain] = StateRegistered
		} else {
			states[domain] = StateUnregistered
		}
	}
	return states
}

// Domains returns the declared domain names, sorted
func (r *Registry) Domains() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	domains := make([]string, 0, len(r.groups))
	for d := range r.groups {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// RegisterAll registers every declared group, failing fast within each group
// and aggregating per-domain failures into a single RegistrationError.
// Groups that did register stay registered; the caller decides (by
// configuration) whether the error is startup-fatal.
func (r *Registry) RegisterAll() error {
	reasons := make(map[string]error)
	for _, domain := range r.Domains() {
		if _, err := r.Register(domain); err != nil {
			reasons[domain] = err
		}
	}
	if len(reasons) > 0 {
		return shared.NewRegistrationError(reasons)
	}
	return nil
}
