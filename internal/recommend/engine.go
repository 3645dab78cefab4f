package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/khanglvm/dev-advisor/internal/metrics"
)

const (
	// coverageTarget is both the threshold and the suggested target.
	coverageTarget = 70

	// mediumPriorityCount is the list length that must be exceeded for Medium.
	mediumPriorityCount = 2
)

// Inspector supplies project signals for a path. Each method fails
// independently when the path is inaccessible.
type Inspector interface {
	HasTests(ctx context.Context, path string) (bool, error)
	HasCI(ctx context.Context, path string) (bool, error)
	HasBackend(ctx context.Context, path string) (bool, error)
	CoveragePercent(ctx context.Context, path string) (int, error)
}

// Engine analyzes projects and records applied upgrades.
type Engine struct {
	inspector Inspector
	now       func() time.Time

	mu      sync.Mutex
	history []UpgradeRecord
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source for applied upgrades.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHistory seeds the history, e.g. from persisted records.
func WithHistory(records []UpgradeRecord) Option {
	return func(e *Engine) {
		e.history = append(e.history, records...)
	}
}

// NewEngine creates an engine backed by the given inspector.
func NewEngine(inspector Inspector, opts ...Option) *Engine {
	e := &Engine{
		inspector: inspector,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze inspects path and derives recommendations. Inspector errors are
// returned unchanged and leave the engine untouched.
func (e *Engine) Analyze(ctx context.Context, path string) (Set, error) {
	start := time.Now()
	defer metrics.ObserveAnalyzeDuration(start)

	snap, err := e.snapshot(ctx, path)
	if err != nil {
		metrics.AnalyzeErrors.Inc()
		return Set{}, err
	}

	set := Derive(path, snap)
	metrics.Analyses.Inc()
	for _, r := range set.Recommendations {
		metrics.Recommendations.WithLabelValues(r.Kind().String()).Inc()
	}
	return set, nil
}

func (e *Engine) snapshot(ctx context.Context, path string) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.HasTests, err = e.inspector.HasTests(ctx, path); err != nil {
		return Snapshot{}, err
	}
	if snap.HasCI, err = e.inspector.HasCI(ctx, path); err != nil {
		return Snapshot{}, err
	}
	if snap.HasBackend, err = e.inspector.HasBackend(ctx, path); err != nil {
		return Snapshot{}, err
	}
	if snap.CoveragePercent, err = e.inspector.CoveragePercent(ctx, path); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Derive applies the fixed rule set to a snapshot. Rules are independent and
// their results keep this order: testing, coverage, CI, backend.
func Derive(path string, snap Snapshot) Set {
	var recs []Recommendation

	if !snap.HasTests {
		recs = append(recs, AddTesting{})
	}
	if snap.CoveragePercent < coverageTarget {
		recs = append(recs, ImproveCoverage{Current: snap.CoveragePercent, Target: coverageTarget})
	}
	if !snap.HasCI {
		recs = append(recs, AddCI{})
	}
	if !snap.HasBackend {
		recs = append(recs, AddBackend{})
	}

	return Set{
		ProjectPath:     path,
		Recommendations: recs,
		Priority:        priorityOf(recs),
	}
}

func priorityOf(recs []Recommendation) Priority {
	for _, r := range recs {
		if _, ok := r.(AddTesting); ok {
			return High
		}
	}
	if len(recs) > mediumPriorityCount {
		return Medium
	}
	return Low
}

// Apply records rec as applied to path. It does not check that rec was ever
// suggested for path.
func (e *Engine) Apply(rec Recommendation, path string) UpgradeRecord {
	e.mu.Lock()
	record := UpgradeRecord{
		Recommendation: rec,
		AppliedAt:      e.now(),
		ProjectPath:    path,
	}
	e.history = append(e.history, record)
	e.mu.Unlock()

	metrics.UpgradesApplied.Inc()
	return record
}

// History returns a copy of the applied upgrades in append order.
func (e *Engine) History() []UpgradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]UpgradeRecord, len(e.history))
	copy(out, e.history)
	return out
}
