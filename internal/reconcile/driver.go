package reconcile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"qcr/internal/domain"
	"qcr/internal/repair"
)

// CaseStore is the remote side the driver reads from and writes to
type CaseStore interface {
	ListCases(ctx context.Context) ([]domain.TestCase, error)
	UpdateCase(ctx context.Context, id int64, payload domain.UpdatePayload) error
}

// Analyzer computes the partial update one test case needs. An empty
// payload means nothing to do.
type Analyzer interface {
	Analyze(tc *domain.TestCase) domain.UpdatePayload
}

// AnalyzerFunc adapts a function to Analyzer
type AnalyzerFunc func(tc *domain.TestCase) domain.UpdatePayload

// Analyze calls f(tc)
func (f AnalyzerFunc) Analyze(tc *domain.TestCase) domain.UpdatePayload {
	return f(tc)
}

// RepairAnalyzer walks a case with a repairer and builds the payload
func RepairAnalyzer(r repair.Repairer) Analyzer {
	w := NewWalker(r)
	return AnalyzerFunc(func(tc *domain.TestCase) domain.UpdatePayload {
		return BuildPayload(w.Walk(tc))
	})
}

// Observer is notified as the driver progresses
type Observer interface {
	Start(total int)
	Record(outcome domain.RecordOutcome, stats domain.RunStats)
	Finish(stats domain.RunStats)
}

// Options configure a Driver
type Options struct {
	DryRun bool
	// Filter selects which fetched cases are processed, nil keeps all
	Filter func(tc *domain.TestCase) bool
	Logger *zap.Logger
}

// RunResult is the outcome of a whole run
type RunResult struct {
	Stats    domain.RunStats
	Outcomes []domain.RecordOutcome
	Duration time.Duration
}

// Driver fetches every case, analyzes it and submits the needed updates
// sequentially, with a single retry for step action rejections
type Driver struct {
	store    CaseStore
	analyzer Analyzer
	opts     Options
	observer Observer
	logger   *zap.Logger
}

// NewDriver creates a Driver
func NewDriver(store CaseStore, analyzer Analyzer, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		store:    store,
		analyzer: analyzer,
		opts:     opts,
		logger:   logger,
	}
}

// SetObserver sets the progress observer
func (d *Driver) SetObserver(o Observer) {
	d.observer = o
}

// Run processes every case. A fetch failure aborts the run. Per record
// failures are counted and the run continues. A cancelled context stops the
// run between records and returns the partial result with the context error.
func (d *Driver) Run(ctx context.Context) (RunResult, error) {
	start := time.Now()
	var res RunResult

	cases, err := d.store.ListCases(ctx)
	if err != nil {
		return res, err
	}

	selected := cases[:0:0]
	for i := range cases {
		if d.opts.Filter == nil || d.opts.Filter(&cases[i]) {
			selected = append(selected, cases[i])
		}
	}
	d.logger.Info("cases fetched", zap.Int("fetched", len(cases)), zap.Int("selected", len(selected)))

	if d.observer != nil {
		d.observer.Start(len(selected))
	}
	for i := range selected {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
		outcome := d.Reconcile(ctx, &selected[i])
		res.Stats = res.Stats.Add(outcome)
		res.Outcomes = append(res.Outcomes, outcome)
		if d.observer != nil {
			d.observer.Record(outcome, res.Stats)
		}
	}
	if d.observer != nil {
		d.observer.Finish(res.Stats)
	}
	res.Duration = time.Since(start)
	return res, nil
}

// Reconcile drives one case through analysis and submission and returns its
// terminal outcome
func (d *Driver) Reconcile(ctx context.Context, tc *domain.TestCase) domain.RecordOutcome {
	o := domain.RecordOutcome{
		CaseID: tc.ID,
		Code:   tc.DisplayCode(),
		Title:  tc.DisplayTitle(),
		State:  domain.StateFetched,
	}
	log := d.logger.With(zap.Int64("case_id", tc.ID), zap.String("code", o.Code))

	payload := d.analyzer.Analyze(tc)
	o.State = domain.StateAnalyzed
	if payload.IsEmpty() {
		o.State = domain.StateNoChangeNeeded
		return o
	}
	o.State = domain.StatePendingUpdate
	o.Payload = payload
	log.Debug("update needed", zap.Strings("fields", payload.Keys()))

	if d.opts.DryRun {
		o.State = domain.StateDryRun
		return o
	}

	err := d.store.UpdateCase(ctx, tc.ID, payload)
	if err == nil {
		o.State = domain.StateApplied
		return o
	}

	if requiresStepAction(err) && len(payload.Steps) > 0 {
		o.State = domain.StateRejectedRetry
		o.Retried = true
		payload.Steps = EnsureStepActions(payload.Steps)
		o.Payload = payload
		log.Warn("step action rejected, retrying with placeholders", zap.Error(err))

		err = d.store.UpdateCase(ctx, tc.ID, payload)
		if err == nil {
			o.State = domain.StateApplied
			return o
		}
	}

	o.State = domain.StateFailed
	o.Error = err.Error()
	log.Error("update failed", zap.Error(err))
	return o
}

// stepActionRejection is implemented by errors that can tell whether the
// server refused the update for a missing step action
type stepActionRejection interface {
	RequiresStepAction() bool
}

func requiresStepAction(err error) bool {
	var r stepActionRejection
	return errors.As(err, &r) && r.RequiresStepAction()
}
