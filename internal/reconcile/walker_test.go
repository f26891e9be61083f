package reconcile

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcr/internal/domain"
	"qcr/internal/repair"
)

const attachmentOnly = "[![attachment](http://x/att/abc)](index.php?/attachments/get/42)"

func mustRepairer(t *testing.T, name string) repair.Repairer {
	t.Helper()
	r, err := repair.New(name, repair.Options{Extension: "csv"})
	require.NoError(t, err)
	return r
}

func customID(id int64) *int64 {
	return &id
}

func TestWalker_NothingToRepair(t *testing.T) {
	w := NewWalker(mustRepairer(t, repair.StrategyReferences))
	tc := &domain.TestCase{
		ID:          1,
		Description: domain.Some("plain text"),
		Steps: []domain.Step{
			{Position: domain.IntPtr(1), Action: domain.Some("open the app")},
		},
		CustomFields: []domain.CustomFieldValue{{ID: customID(3), Value: domain.Some("nothing here")}},
	}

	cs := w.Walk(tc)
	assert.True(t, cs.IsEmpty())
	assert.Equal(t, 0, cs.Len())
	assert.True(t, BuildPayload(cs).IsEmpty())
}

func TestWalker_ScalarFields(t *testing.T) {
	w := NewWalker(mustRepairer(t, repair.StrategyReferences))
	tc := &domain.TestCase{
		ID:             1,
		Description:    domain.Some("see ![data.csv](http://x/data) here"),
		Preconditions:  domain.Some("untouched"),
		Postconditions: domain.None(),
	}

	cs := w.Walk(tc)
	assert.Equal(t, map[string]string{"description": "see [data.csv](http://x/data) here"}, cs.Fields)
	assert.Nil(t, cs.Steps)
	assert.Nil(t, cs.CustomFields)
	assert.Equal(t, "see ![data.csv](http://x/data) here", tc.Description.String(), "input must not be modified")
}

func TestWalker_StepListReEmittedWithPlaceholder(t *testing.T) {
	w := NewWalker(mustRepairer(t, repair.StrategyAttachments))
	tc := &domain.TestCase{
		ID: 7,
		Steps: []domain.Step{
			{
				Position:       domain.IntPtr(1),
				Hash:           domain.StrPtr("h1"),
				Action:         domain.Some("Open the page"),
				ExpectedResult: domain.Some("Page is open"),
			},
			{
				Position:       domain.IntPtr(2),
				Hash:           domain.StrPtr("h2"),
				Action:         domain.Some(attachmentOnly),
				ExpectedResult: domain.Some("Done"),
			},
		},
	}

	cs := w.Walk(tc)
	want := []domain.StepUpdate{
		{
			Position:       domain.IntPtr(1),
			Hash:           domain.StrPtr("h1"),
			Action:         domain.StrPtr("Open the page"),
			ExpectedResult: domain.StrPtr("Page is open"),
		},
		{
			Position:       domain.IntPtr(2),
			Hash:           domain.StrPtr("h2"),
			Action:         domain.StrPtr(Placeholder),
			ExpectedResult: domain.StrPtr("Done"),
		},
	}
	if diff := cmp.Diff(want, cs.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, cs.Fields)
}

func TestWalker_EmptyActionAloneDoesNotEmitSteps(t *testing.T) {
	w := NewWalker(mustRepairer(t, repair.StrategyHTML))
	tc := &domain.TestCase{
		Steps: []domain.Step{
			{Position: domain.IntPtr(1), Action: domain.Some("")},
			{Position: domain.IntPtr(2), ExpectedResult: domain.Some("fine")},
		},
	}

	assert.True(t, w.Walk(tc).IsEmpty())
}

func TestWalker_PlaceholderForPreexistingEmptyAction(t *testing.T) {
	w := NewWalker(mustRepairer(t, repair.StrategyHTML))
	tc := &domain.TestCase{
		Steps: []domain.Step{
			{Position: domain.IntPtr(1), Action: domain.Some("  ")},
			{Position: domain.IntPtr(2), Action: domain.Some("<b>bold</b>"), Data: domain.None()},
		},
	}

	cs := w.Walk(tc)
	require.Len(t, cs.Steps, 2)
	assert.Equal(t, Placeholder, *cs.Steps[0].Action)
	assert.Equal(t, "bold", *cs.Steps[1].Action)
	assert.Nil(t, cs.Steps[1].Data, "absent leaves stay absent")
	assert.Nil(t, cs.Steps[1].Hash)
}

// nestedSteps builds a chain of depth levels with the repairable text at
// the deepest one
func nestedSteps(depth int, leaf string) []domain.Step {
	step := domain.Step{Position: domain.IntPtr(depth), Action: domain.Some(leaf)}
	for level := depth - 1; level >= 1; level-- {
		step = domain.Step{
			Position: domain.IntPtr(level),
			Hash:     domain.StrPtr(fmt.Sprintf("h%d", level)),
			Action:   domain.Some(fmt.Sprintf("level %d", level)),
			Steps:    []domain.Step{step},
		}
	}
	return []domain.Step{step}
}

func TestWalker_NestedSteps(t *testing.T) {
	w := NewWalker(mustRepairer(t, repair.StrategyReferences))

	for depth := 1; depth <= 8; depth++ {
		t.Run(fmt.Sprintf("depth %d", depth), func(t *testing.T) {
			tc := &domain.TestCase{Steps: nestedSteps(depth, "get ![a.csv](http://x/a)")}

			cs := w.Walk(tc)
			require.Len(t, cs.Steps, 1)

			cur := cs.Steps[0]
			for level := 1; level < depth; level++ {
				assert.Equal(t, level, *cur.Position)
				assert.Equal(t, fmt.Sprintf("h%d", level), *cur.Hash)
				assert.Equal(t, fmt.Sprintf("level %d", level), *cur.Action)
				require.Len(t, cur.Steps, 1)
				cur = cur.Steps[0]
			}
			assert.Equal(t, depth, *cur.Position)
			assert.Equal(t, "get [a.csv](http://x/a)", *cur.Action)
			assert.Empty(t, cur.Steps)
		})
	}
}

func TestWalker_CustomFields(t *testing.T) {
	w := NewWalker(mustRepairer(t, repair.StrategyHTML))
	tc := &domain.TestCase{
		CustomFields: []domain.CustomFieldValue{
			{ID: customID(1), Value: domain.Some("<i>changed</i>")},
			{ID: customID(2), Value: domain.Some("unchanged")},
			{ID: nil, Value: domain.Some("<i>no id</i>")},
			{ID: customID(4), Value: domain.None()},
		},
	}

	cs := w.Walk(tc)
	assert.Equal(t, []CustomFieldChange{{ID: 1, Value: "changed"}}, cs.CustomFields)

	p := BuildPayload(cs)
	assert.Equal(t, map[string]string{"1": "changed"}, p.CustomField)
	assert.Equal(t, []string{"custom_field"}, p.Keys())
}

func TestBuildPayload(t *testing.T) {
	cs := ChangeSet{
		Fields:       map[string]string{"description": "d", "preconditions": "p"},
		Steps:        []domain.StepUpdate{{Position: domain.IntPtr(1), Action: domain.StrPtr("a")}},
		CustomFields: []CustomFieldChange{{ID: 10, Value: "x"}, {ID: 20, Value: "y"}},
	}

	p := BuildPayload(cs)
	assert.Equal(t, cs.Fields, p.Fields)
	assert.Equal(t, cs.Steps, p.Steps)
	assert.Equal(t, map[string]string{"10": "x", "20": "y"}, p.CustomField)
	assert.Equal(t, []string{"custom_field", "description", "preconditions", "steps"}, p.Keys())
	assert.Equal(t, 5, cs.Len())

	cs.Fields["description"] = "mutated"
	assert.Equal(t, "d", p.Fields["description"], "payload owns its field map")

	assert.True(t, BuildPayload(ChangeSet{}).IsEmpty())
}

func TestEnsureStepActions(t *testing.T) {
	steps := []domain.StepUpdate{
		{Position: domain.IntPtr(1), Action: nil},
		{Position: domain.IntPtr(2), Action: domain.StrPtr("keep"), Steps: []domain.StepUpdate{
			{Position: domain.IntPtr(1), Action: domain.StrPtr(" \t")},
		}},
	}
	assert.Equal(t, 2, MissingActions(steps))

	fixed := EnsureStepActions(steps)
	assert.Equal(t, 0, MissingActions(fixed))
	assert.Equal(t, Placeholder, *fixed[0].Action)
	assert.Equal(t, "keep", *fixed[1].Action)
	assert.Equal(t, Placeholder, *fixed[1].Steps[0].Action)

	assert.Nil(t, steps[0].Action, "input must not be modified")
	assert.Equal(t, " \t", *steps[1].Steps[0].Action)
	assert.Nil(t, EnsureStepActions(nil))
}
