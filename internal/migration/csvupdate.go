package migration

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"qcr/internal/discovery"
	"qcr/internal/domain"
	"qcr/internal/reconcile"
)

// CSVOptions configure a CSV driven update
type CSVOptions struct {
	// Rows are the code/value pairs read from the CSV file
	Rows      []discovery.CSVRow
	FieldName string
	FieldID   int64
	DryRun    bool
	Logger    *zap.Logger
}

// CSVResult is the outcome of a CSV update run
type CSVResult struct {
	Stats    domain.CSVUpdateStats
	Run      reconcile.RunResult
	FieldID  int64
	NotFound []string
}

// CSVUpdater writes CSV values into a custom field of the matching cases.
// The CSV is the source of truth: matched cases are always updated, even
// when the value is already equal.
type CSVUpdater struct {
	store    Store
	opts     CSVOptions
	observer reconcile.Observer
}

// NewCSVUpdater creates a new CSVUpdater
func NewCSVUpdater(store Store, opts CSVOptions) *CSVUpdater {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &CSVUpdater{store: store, opts: opts}
}

// SetObserver sets the progress observer
func (u *CSVUpdater) SetObserver(o reconcile.Observer) {
	u.observer = o
}

// ResolveFieldID returns the configured field id or looks it up by name
func (u *CSVUpdater) ResolveFieldID(ctx context.Context) (int64, error) {
	if u.opts.FieldID != 0 {
		return u.opts.FieldID, nil
	}
	if strings.TrimSpace(u.opts.FieldName) == "" {
		return 0, fmt.Errorf("custom field is not set")
	}
	fields, err := u.store.ListCustomFields(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list custom fields: %w", err)
	}
	cat := Catalog{Custom: fields}
	id, ok := cat.CustomFieldID(u.opts.FieldName)
	if !ok {
		return 0, fmt.Errorf("custom field %q not found (available: %s)",
			u.opts.FieldName, strings.Join(cat.CustomFieldTitles(), ", "))
	}
	return id, nil
}

// Run matches CSV rows to cases and updates the field of every match
func (u *CSVUpdater) Run(ctx context.Context) (CSVResult, error) {
	res := CSVResult{Stats: domain.CSVUpdateStats{Rows: len(u.opts.Rows)}}
	if len(u.opts.Rows) == 0 {
		return res, nil
	}

	fieldID, err := u.ResolveFieldID(ctx)
	if err != nil {
		return res, err
	}
	res.FieldID = fieldID
	fieldKey := strconv.FormatInt(fieldID, 10)

	cases, err := u.store.ListCases(ctx)
	if err != nil {
		return res, err
	}
	index := discovery.NewCaseIndex(cases)

	values := make(map[int64]string, len(u.opts.Rows))
	for _, row := range u.opts.Rows {
		tc, ok := index.Lookup(row.Code)
		if !ok {
			res.Stats.NotFound++
			res.NotFound = append(res.NotFound, row.Code)
			continue
		}
		res.Stats.Matched++
		values[tc.ID] = row.Value
	}
	u.opts.Logger.Info("csv rows matched",
		zap.Int("rows", res.Stats.Rows),
		zap.Int("matched", res.Stats.Matched),
		zap.Int("not_found", res.Stats.NotFound))

	analyzer := reconcile.AnalyzerFunc(func(tc *domain.TestCase) domain.UpdatePayload {
		value, ok := values[tc.ID]
		if !ok {
			return domain.UpdatePayload{}
		}
		return domain.UpdatePayload{CustomField: map[string]string{fieldKey: value}}
	})
	d := reconcile.NewDriver(preloaded{Store: u.store, cases: cases}, analyzer, reconcile.Options{
		DryRun: u.opts.DryRun,
		Filter: func(tc *domain.TestCase) bool {
			_, ok := values[tc.ID]
			return ok
		},
		Logger: u.opts.Logger,
	})
	if u.observer != nil {
		d.SetObserver(u.observer)
	}

	run, err := d.Run(ctx)
	res.Run = run
	res.Stats.Updated = run.Stats.Fixed
	res.Stats.Errors = run.Stats.Errors
	return res, err
}

// preloaded serves an already fetched case list so the driver does not
// list the project twice
type preloaded struct {
	Store
	cases []domain.TestCase
}

func (p preloaded) ListCases(context.Context) ([]domain.TestCase, error) {
	return p.cases, nil
}
