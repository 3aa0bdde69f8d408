package lifecycle

import "context"

// Change records the pending old and new value of a single field on an
// in-flight write.
type Change struct {
	Old any
	New any
}

// Changes is the pending-change record of a mutation, keyed by column name.
// Repositories populate it before issuing an UPDATE so hooks can compare old
// and new values without re-querying.
type Changes map[string]Change

// Changed reports whether the field has a pending change
func (c Changes) Changed(field string) bool {
	_, ok := c[field]
	return ok
}

// Old returns the previous value of a changed field
func (c Changes) Old(field string) (any, bool) {
	ch, ok := c[field]
	if !ok {
		return nil, false
	}
	return ch.Old, true
}

// New returns the incoming value of a changed field
func (c Changes) New(field string) (any, bool) {
	ch, ok := c[field]
	if !ok {
		return nil, false
	}
	return ch.New, true
}

// Mutation describes one entity write flowing through the dispatcher.
// Target points at the row being written; hooks may mutate it during the
// before phases.
type Mutation struct {
	Entity  string
	Target  any
	Changes Changes
}

type txKey struct{}

// WithTx returns a context carrying the active transaction handle. Hooks that
// need database access resolve it through their store implementations, which
// keeps the hooks themselves free of any ORM dependency.
func WithTx(ctx context.Context, tx any) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom extracts the active transaction handle, if any
func TxFrom(ctx context.Context) any {
	return ctx.Value(txKey{})
}
