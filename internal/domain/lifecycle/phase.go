// Package lifecycle implements the derived-state maintenance layer: hooks
// that react to entity write phases to enforce invariants spanning multiple
// rows, and the registry that toggles groups of those hooks per domain.
package lifecycle

// Phase identifies the point in an entity write at which a hook runs.
type Phase int

const (
	BeforeInsert Phase = iota
	BeforeUpdate
	AfterInsert
	AfterUpdate
	AfterDelete
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case BeforeInsert:
		return "before_insert"
	case BeforeUpdate:
		return "before_update"
	case AfterInsert:
		return "after_insert"
	case AfterUpdate:
		return "after_update"
	case AfterDelete:
		return "after_delete"
	default:
		return "unknown"
	}
}
