package assign

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"airassign/internal/dataset"
	"airassign/internal/metrics"
	"airassign/internal/mip"
	"airassign/internal/model"
)

// Run lifecycle events passed to Runner.Notify.
const (
	EventStarted   = "run.started"
	EventCompleted = "run.completed"
	EventFailed    = "run.failed"
)

// Runner executes the part of a run after loading: build, solve, format.
type Runner struct {
	Solver mip.Solver
	// Verify re-solves the LP relaxation with the simplex backend and records
	// whether its objective matches.
	Verify bool
	// Notify, if set, receives lifecycle events.
	Notify func(runID, event string, data map[string]any)
	// Done, if set, receives the final report, failed runs included, before
	// the terminal event is published.
	Done func(rep *model.Report)
}

// Run solves ds once. Data and model problems are returned as errors; a
// non-optimal solver outcome is a normal report.
func (r *Runner) Run(ctx context.Context, ds *model.Dataset, runID string) (*model.Report, error) {
	if runID == "" {
		runID = uuid.New().String()
	}
	backend := r.Solver.Name()
	r.notify(runID, EventStarted, map[string]any{"dataset": ds.Name, "backend": backend})

	m, vars, err := Build(ds)
	if err != nil {
		r.fail(runID, ds.Name, backend, "model", err)
		return nil, err
	}

	start := time.Now()
	res, err := r.Solver.Solve(ctx, m)
	dur := time.Since(start)
	metrics.SolveDuration.WithLabelValues(backend).Observe(dur.Seconds())
	if err != nil {
		r.fail(runID, ds.Name, backend, "solver", err)
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	metrics.SolveRuns.WithLabelValues(backend, res.Status.String()).Inc()

	rep := &model.Report{
		RunID:       runID,
		Dataset:     ds.Name,
		Backend:     backend,
		Status:      res.Status.String(),
		Optimal:     res.Optimal(),
		Assignments: Assignments(vars, res),
		DurationMs:  dur.Milliseconds(),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Text:        Format(vars, res),
	}
	if res.Optimal() {
		rep.Objective = res.Objective
		if r.Verify {
			ok := r.verify(ctx, m, res)
			rep.Verified = &ok
		}
	}
	log.Printf("run=%s dataset=%s backend=%s status=%s objective=%g dur=%v", runID, ds.Name, backend, res.Status, rep.Objective, dur)
	r.done(rep)
	r.notify(runID, EventCompleted, map[string]any{"status": rep.Status, "optimal": rep.Optimal, "objective": rep.Objective})
	return rep, nil
}

func (r *Runner) verify(ctx context.Context, m *mip.Model, res *mip.Result) bool {
	relaxed, err := (&mip.Simplex{Relax: true}).Solve(ctx, m)
	if err != nil {
		log.Printf("verify: %v", err)
		return false
	}
	ok := relaxed.Optimal() && math.Abs(relaxed.Objective-res.Objective) <= 1e-6*math.Max(1, math.Abs(res.Objective))
	if !ok {
		metrics.VerifyMismatches.Inc()
		log.Printf("verify: relaxation %s objective=%g, solver objective=%g", relaxed.Status, relaxed.Objective, res.Objective)
	}
	return ok
}

func (r *Runner) fail(runID, dsName, backend, kind string, err error) {
	metrics.SolveFailures.WithLabelValues(kind).Inc()
	log.Printf("run=%s failed: %v", runID, err)
	r.done(FailedReport(runID, dsName, backend, err))
	r.notify(runID, EventFailed, map[string]any{"kind": kind, "error": err.Error()})
}

// FailedReport is the registry entry of a run that aborted with err.
func FailedReport(runID, dsName, backend string, err error) *model.Report {
	return &model.Report{
		RunID:     runID,
		Dataset:   dsName,
		Backend:   backend,
		Status:    model.StatusFailed,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Error:     err.Error(),
	}
}

func (r *Runner) done(rep *model.Report) {
	if r.Done != nil {
		r.Done(rep)
	}
}

func (r *Runner) notify(runID, event string, data map[string]any) {
	if r.Notify != nil {
		r.Notify(runID, event, data)
	}
}

// Option configures Solve.
type Option func(*options)

type options struct {
	solver mip.Solver
	files  dataset.Files
	verify bool
}

// WithSolver selects the backend; the default is HiGHS with default settings.
func WithSolver(s mip.Solver) Option { return func(o *options) { o.solver = s } }

// WithFiles overrides the table file names.
func WithFiles(f dataset.Files) Option { return func(o *options) { o.files = f } }

// WithVerify enables the LP relaxation cross-check.
func WithVerify(v bool) Option { return func(o *options) { o.verify = v } }

// Solve loads the tables in dir, solves them once and returns the text report.
// runID is optional.
func Solve(ctx context.Context, dir, runID string, opts ...Option) (string, error) {
	rep, err := SolveReport(ctx, dir, runID, opts...)
	if err != nil {
		return "", err
	}
	return rep.Text, nil
}

// SolveReport is Solve returning the structured report.
func SolveReport(ctx context.Context, dir, runID string, opts ...Option) (*model.Report, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.solver == nil {
		o.solver = &mip.HiGHS{}
	}
	ds, err := dataset.Load(dir, o.files)
	if err != nil {
		metrics.SolveFailures.WithLabelValues("data").Inc()
		return nil, err
	}
	return (&Runner{Solver: o.solver, Verify: o.verify}).Run(ctx, ds, runID)
}
