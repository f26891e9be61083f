package migration

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"qcr/internal/domain"
)

type updateCall struct {
	id      int64
	payload domain.UpdatePayload
}

// fakeAPI is an in-memory stand-in for the Qase client
type fakeAPI struct {
	mu          sync.Mutex
	cases       []domain.TestCase
	system      []domain.FieldDefinition
	custom      []domain.FieldDefinition
	listErr     error
	updateErr   map[int64]error
	attachErr   func(links []domain.ExternalIssueLink) error
	updates     []updateCall
	attached    [][]domain.ExternalIssueLink
	listCalls   int
	customCalls int
}

func (f *fakeAPI) ListCases(context.Context) ([]domain.TestCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.cases, f.listErr
}

func (f *fakeAPI) ListSystemFields(context.Context) ([]domain.FieldDefinition, error) {
	return f.system, nil
}

func (f *fakeAPI) ListCustomFields(context.Context) ([]domain.FieldDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customCalls++
	return f.custom, nil
}

func (f *fakeAPI) UpdateCase(_ context.Context, id int64, payload domain.UpdatePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{id: id, payload: payload})
	return f.updateErr[id]
}

func (f *fakeAPI) AttachExternalIssues(_ context.Context, _ string, links []domain.ExternalIssueLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, links)
	if f.attachErr != nil {
		return f.attachErr(links)
	}
	return nil
}

// mustCases decodes cases from API JSON so system fields are reachable by slug
func mustCases(raw string) []domain.TestCase {
	var cases []domain.TestCase
	if err := json.Unmarshal([]byte(raw), &cases); err != nil {
		panic(err)
	}
	return cases
}
