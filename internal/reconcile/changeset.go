package reconcile

import "qcr/internal/domain"

// CustomFieldChange is one repaired custom field value
type CustomFieldChange struct {
	ID    int64
	Value string
}

// ChangeSet holds the leaves of one test case whose repaired value differs
// from the original. It lives only between Walk and BuildPayload.
type ChangeSet struct {
	// Fields maps a top-level field name to its repaired value
	Fields map[string]string
	// Steps is the full re-emitted step list, nil when no step changed
	Steps []domain.StepUpdate
	// CustomFields lists changed custom values in record order
	CustomFields []CustomFieldChange
}

// IsEmpty reports whether nothing changed
func (cs ChangeSet) IsEmpty() bool {
	return len(cs.Fields) == 0 && len(cs.Steps) == 0 && len(cs.CustomFields) == 0
}

// Len counts the changed groups: each field, the step list, each custom field
func (cs ChangeSet) Len() int {
	n := len(cs.Fields) + len(cs.CustomFields)
	if len(cs.Steps) > 0 {
		n++
	}
	return n
}
