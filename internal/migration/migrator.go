// Package migration moves and imports field content across test cases:
// system to custom field migration, CSV driven updates and JIRA linking.
package migration

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"qcr/internal/domain"
	"qcr/internal/reconcile"
)

// Store is everything a field migration needs from the API
type Store interface {
	reconcile.CaseStore
	FieldSource
}

// Migrator runs one kind of migration
type Migrator interface {
	Run(ctx context.Context) (reconcile.RunResult, error)
}

var _ Migrator = (*FieldMigrator)(nil)

// FieldOptions configure a field migration
type FieldOptions struct {
	SourceField        string
	DestinationField   string
	DestinationFieldID int64
	DryRun             bool
	Logger             *zap.Logger
}

// FieldMigrator copies a system field into a custom field and clears the
// source
type FieldMigrator struct {
	store    Store
	opts     FieldOptions
	observer reconcile.Observer
	plan     domain.MigrationPlan
}

// NewFieldMigrator creates a new FieldMigrator
func NewFieldMigrator(store Store, opts FieldOptions) *FieldMigrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &FieldMigrator{store: store, opts: opts}
}

// SetObserver sets the progress observer
func (m *FieldMigrator) SetObserver(o reconcile.Observer) {
	m.observer = o
}

// Plan resolves the source slug and the destination field id
func (m *FieldMigrator) Plan(ctx context.Context) (domain.MigrationPlan, error) {
	plan := domain.MigrationPlan{
		SourceField:        m.opts.SourceField,
		DestinationField:   m.opts.DestinationField,
		DestinationFieldID: m.opts.DestinationFieldID,
	}
	if strings.TrimSpace(plan.SourceField) == "" {
		return plan, fmt.Errorf("source field is not set")
	}
	if plan.DestinationFieldID == 0 && strings.TrimSpace(plan.DestinationField) == "" {
		return plan, fmt.Errorf("destination field is not set")
	}

	cat, err := LoadCatalog(ctx, m.store)
	if err != nil {
		return plan, err
	}

	slug, ok := cat.SystemSlug(plan.SourceField)
	if !ok {
		return plan, fmt.Errorf("system field %q not found", plan.SourceField)
	}
	plan.SourceSlug = slug

	if plan.DestinationFieldID == 0 {
		id, ok := cat.CustomFieldID(plan.DestinationField)
		if !ok {
			return plan, fmt.Errorf("custom field %q not found (available: %s)",
				plan.DestinationField, strings.Join(cat.CustomFieldTitles(), ", "))
		}
		plan.DestinationFieldID = id
	}

	m.opts.Logger.Info("migration planned",
		zap.String("source_slug", plan.SourceSlug),
		zap.Int64("destination_field_id", plan.DestinationFieldID))
	return plan, nil
}

// Run plans the migration and applies it to every case
func (m *FieldMigrator) Run(ctx context.Context) (reconcile.RunResult, error) {
	plan, err := m.Plan(ctx)
	if err != nil {
		return reconcile.RunResult{}, err
	}
	m.plan = plan

	d := reconcile.NewDriver(m.store, FieldAnalyzer(plan), reconcile.Options{
		DryRun: m.opts.DryRun,
		Logger: m.opts.Logger,
	})
	if m.observer != nil {
		d.SetObserver(m.observer)
	}
	return d.Run(ctx)
}

// Resolved returns the plan of the last Run
func (m *FieldMigrator) Resolved() domain.MigrationPlan {
	return m.plan
}

// FieldAnalyzer builds the migration payload: the source text goes into the
// destination custom field and the source field is cleared. Cases with a
// blank source need nothing.
func FieldAnalyzer(plan domain.MigrationPlan) reconcile.Analyzer {
	fieldKey := strconv.FormatInt(plan.DestinationFieldID, 10)
	return reconcile.AnalyzerFunc(func(tc *domain.TestCase) domain.UpdatePayload {
		src := tc.SystemField(plan.SourceSlug)
		if src.IsBlank() {
			return domain.UpdatePayload{}
		}
		return domain.UpdatePayload{
			Fields:      map[string]string{plan.SourceSlug: ""},
			CustomField: map[string]string{fieldKey: src.String()},
		}
	})
}
