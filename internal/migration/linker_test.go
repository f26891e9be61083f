package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcr/internal/domain"
)

func linkAPI() *fakeAPI {
	return &fakeAPI{
		custom: []domain.FieldDefinition{{ID: 5, Title: "References"}},
		cases: mustCases(`[
			{"id": 1, "custom_fields": [{"id": 5, "value": "PROJ-1, PROJ-2"}]},
			{"id": 2, "refs": ["https://jira/browse/PROJ-2"]},
			{"id": 3, "refs": "no keys"},
			{"id": 4},
			{"id": 5, "custom_fields": [{"id": 5, "value": "PROJ-9"}]}
		]`),
	}
}

func TestCollect(t *testing.T) {
	links, stats := Collect(linkAPI().cases, 5)

	assert.Equal(t, []domain.ExternalIssueLink{
		{CaseID: 1, ExternalIssues: []string{"PROJ-1", "PROJ-2"}},
		{CaseID: 2, ExternalIssues: []string{"PROJ-2"}},
		{CaseID: 5, ExternalIssues: []string{"PROJ-9"}},
	}, links)
	assert.Equal(t, domain.LinkStats{
		Total:            5,
		WithRefs:         4,
		WithoutRefs:      1,
		WithIssues:       3,
		IssueOccurrences: 4,
		UniqueIssues:     3,
	}, stats)
}

func TestLinker_ResolvesRefsFieldByName(t *testing.T) {
	api := linkAPI()
	res, err := NewLinker(api, LinkOptions{IssueType: "jira-cloud", BatchSize: 50}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), res.RefsFieldID)
	require.Len(t, api.attached, 1)
	assert.Len(t, api.attached[0], 3)
	assert.Equal(t, 1, res.Stats.BatchesAttached)
	assert.Equal(t, 3, res.Stats.CasesAttached)
}

func TestLinker_FailedBatchRetriedPerCase(t *testing.T) {
	api := linkAPI()
	api.attachErr = func(links []domain.ExternalIssueLink) error {
		if len(links) > 1 {
			return errors.New("batch rejected")
		}
		if links[0].CaseID == 2 {
			return errors.New("issue not found")
		}
		return nil
	}

	res, err := NewLinker(api, LinkOptions{IssueType: "jira-server", BatchSize: 2, RefsFieldID: 5}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, api.customCalls)
	assert.Equal(t, 2, res.Stats.Batches)
	// batch 1 (cases 1, 2) fails, batch 2 (case 5) succeeds, then cases 1 and 2 alone
	require.Len(t, api.attached, 4)
	assert.Equal(t, 1, res.Stats.BatchesAttached)
	assert.Equal(t, 2, res.Stats.CasesAttached)
	assert.Equal(t, 1, res.Stats.Errors)
	assert.Equal(t, []int64{2}, res.FailedCases)
}

func TestLinker_DryRun(t *testing.T) {
	api := linkAPI()
	res, err := NewLinker(api, LinkOptions{BatchSize: 2, RefsFieldID: 5, DryRun: true}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, api.attached)
	assert.Equal(t, 2, res.Stats.Batches)
	assert.Len(t, res.Links, 3)
}

func TestLinker_FallsBackToSystemRefs(t *testing.T) {
	api := linkAPI()
	api.custom = nil

	res, err := NewLinker(api, LinkOptions{BatchSize: 10}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.RefsFieldID)
	assert.Equal(t, []domain.ExternalIssueLink{{CaseID: 2, ExternalIssues: []string{"PROJ-2"}}}, res.Links)
}
