// Package reconcile turns repaired test case text into minimal partial
// updates and submits them.
package reconcile

import (
	"strings"

	"qcr/internal/domain"
	"qcr/internal/repair"
)

// Placeholder replaces a step action that would otherwise be sent empty.
// The server rejects steps without an action.
const Placeholder = "."

// Walker applies one repairer to every text leaf of a test case
type Walker struct {
	repairer repair.Repairer
}

// NewWalker creates a Walker for the given repairer
func NewWalker(r repair.Repairer) *Walker {
	return &Walker{repairer: r}
}

// Walk repairs every leaf of tc and collects the ones that changed.
// tc is not modified.
func (w *Walker) Walk(tc *domain.TestCase) ChangeSet {
	var cs ChangeSet

	scalars := []struct {
		name  string
		value domain.Text
	}{
		{"description", tc.Description},
		{"preconditions", tc.Preconditions},
		{"postconditions", tc.Postconditions},
	}
	for _, f := range scalars {
		if res := w.repairer.Repair(f.value); res.Changed() {
			if cs.Fields == nil {
				cs.Fields = make(map[string]string)
			}
			cs.Fields[f.name] = res.Value
		}
	}

	if steps, changed := w.walkSteps(tc.Steps); changed {
		cs.Steps = EnsureStepActions(steps)
	}

	for _, cf := range tc.CustomFields {
		res := w.repairer.Repair(cf.Value)
		if !res.Changed() || cf.ID == nil {
			continue
		}
		cs.CustomFields = append(cs.CustomFields, CustomFieldChange{ID: *cf.ID, Value: res.Value})
	}

	return cs
}

// walkSteps re-emits every step with its identifiers and reports whether any
// leaf at any depth changed
func (w *Walker) walkSteps(steps []domain.Step) ([]domain.StepUpdate, bool) {
	if len(steps) == 0 {
		return nil, false
	}
	out := make([]domain.StepUpdate, 0, len(steps))
	changed := false
	for _, step := range steps {
		su := domain.StepUpdate{
			Position: step.Position,
			Hash:     step.Hash,
		}
		var leafChanged bool
		su.Action, leafChanged = w.leaf(step.Action)
		changed = changed || leafChanged
		su.ExpectedResult, leafChanged = w.leaf(step.ExpectedResult)
		changed = changed || leafChanged
		su.Data, leafChanged = w.leaf(step.Data)
		changed = changed || leafChanged

		nested, nestedChanged := w.walkSteps(step.Steps)
		su.Steps = nested
		changed = changed || nestedChanged

		out = append(out, su)
	}
	return out, changed
}

// leaf returns the value to emit for one step leaf: the repaired value, the
// original one, or nil when the leaf is absent
func (w *Walker) leaf(t domain.Text) (*string, bool) {
	res := w.repairer.Repair(t)
	if res.Changed() {
		return domain.StrPtr(res.Value), true
	}
	if v, ok := t.Get(); ok {
		return domain.StrPtr(v), false
	}
	return nil, false
}

// EnsureStepActions returns a copy of steps in which every empty or blank
// action, at any depth, is replaced by Placeholder
func EnsureStepActions(steps []domain.StepUpdate) []domain.StepUpdate {
	if steps == nil {
		return nil
	}
	out := make([]domain.StepUpdate, len(steps))
	for i, s := range steps {
		if s.Action == nil || strings.TrimSpace(*s.Action) == "" {
			s.Action = domain.StrPtr(Placeholder)
		}
		s.Steps = EnsureStepActions(s.Steps)
		out[i] = s
	}
	return out
}

// MissingActions counts steps, at any depth, whose action is empty or blank
func MissingActions(steps []domain.StepUpdate) int {
	n := 0
	for _, s := range steps {
		if s.Action == nil || strings.TrimSpace(*s.Action) == "" {
			n++
		}
		n += MissingActions(s.Steps)
	}
	return n
}
