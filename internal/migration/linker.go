package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"qcr/internal/discovery"
	"qcr/internal/domain"
	"qcr/internal/execution"
)

// DefaultRefsField is the refs field name searched when none is configured
const DefaultRefsField = "refs"

// IssueStore is everything JIRA linking needs from the API
type IssueStore interface {
	ListCases(ctx context.Context) ([]domain.TestCase, error)
	ListCustomFields(ctx context.Context) ([]domain.FieldDefinition, error)
	AttachExternalIssues(ctx context.Context, issueType string, links []domain.ExternalIssueLink) error
}

// LinkOptions configure JIRA linking
type LinkOptions struct {
	IssueType   string
	BatchSize   int
	RefsField   string
	RefsFieldID int64
	DryRun      bool
	Logger      *zap.Logger
}

// LinkResult is the outcome of a linking run
type LinkResult struct {
	Stats       domain.LinkStats
	Links       []domain.ExternalIssueLink
	RefsFieldID int64
	// FailedCases lists cases whose link failed even when sent alone
	FailedCases []int64
}

// Linker extracts JIRA keys from case references and attaches them as
// external issues
type Linker struct {
	store IssueStore
	opts  LinkOptions
}

// NewLinker creates a new Linker
func NewLinker(store IssueStore, opts LinkOptions) *Linker {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RefsField == "" {
		opts.RefsField = DefaultRefsField
	}
	return &Linker{store: store, opts: opts}
}

// ResolveRefsField returns the custom field holding references, or 0 when
// only the system refs field is used
func (l *Linker) ResolveRefsField(ctx context.Context) (int64, error) {
	if l.opts.RefsFieldID != 0 {
		return l.opts.RefsFieldID, nil
	}
	fields, err := l.store.ListCustomFields(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list custom fields: %w", err)
	}
	cat := Catalog{Custom: fields}
	id, ok := cat.CustomFieldID(l.opts.RefsField, "references", "refs")
	if !ok {
		l.opts.Logger.Info("refs custom field not found, using system refs", zap.String("field", l.opts.RefsField))
		return 0, nil
	}
	return id, nil
}

// Collect builds one link per case that references at least one issue
func Collect(cases []domain.TestCase, refsFieldID int64) ([]domain.ExternalIssueLink, domain.LinkStats) {
	stats := domain.LinkStats{Total: len(cases)}
	unique := make(map[string]struct{})
	var links []domain.ExternalIssueLink
	for i := range cases {
		keys, source := discovery.ExtractFromCase(&cases[i], refsFieldID)
		if source == discovery.RefsNone {
			stats.WithoutRefs++
		} else {
			stats.WithRefs++
		}
		if len(keys) == 0 {
			continue
		}
		stats.WithIssues++
		stats.IssueOccurrences += len(keys)
		for _, k := range keys {
			unique[k] = struct{}{}
		}
		links = append(links, domain.ExternalIssueLink{CaseID: cases[i].ID, ExternalIssues: keys})
	}
	stats.UniqueIssues = len(unique)
	return links, stats
}

// Run collects links for every case and attaches them in batches. A failed
// batch is retried one case at a time.
func (l *Linker) Run(ctx context.Context) (LinkResult, error) {
	var res LinkResult

	refsFieldID, err := l.ResolveRefsField(ctx)
	if err != nil {
		return res, err
	}
	res.RefsFieldID = refsFieldID

	cases, err := l.store.ListCases(ctx)
	if err != nil {
		return res, err
	}
	res.Links, res.Stats = Collect(cases, refsFieldID)

	batches := execution.Batches(res.Links, l.opts.BatchSize)
	res.Stats.Batches = len(batches)
	if l.opts.DryRun || len(batches) == 0 {
		return res, nil
	}

	var failed [][]domain.ExternalIssueLink
	for i, batch := range batches {
		if err := l.store.AttachExternalIssues(ctx, l.opts.IssueType, batch); err != nil {
			l.opts.Logger.Warn("batch attach failed, retrying per case",
				zap.Int("batch", i+1), zap.Int("cases", len(batch)), zap.Error(err))
			failed = append(failed, batch)
			continue
		}
		res.Stats.BatchesAttached++
		res.Stats.CasesAttached += len(batch)
	}

	for _, batch := range failed {
		for _, link := range batch {
			if err := l.store.AttachExternalIssues(ctx, l.opts.IssueType, []domain.ExternalIssueLink{link}); err != nil {
				l.opts.Logger.Error("attach failed", zap.Int64("case_id", link.CaseID), zap.Error(err))
				res.Stats.Errors++
				res.FailedCases = append(res.FailedCases, link.CaseID)
				continue
			}
			res.Stats.CasesAttached++
		}
	}
	return res, nil
}
