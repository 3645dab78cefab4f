package recommend

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeInspector returns fixed signals, or err from the method named in failOn.
type fakeInspector struct {
	snap   Snapshot
	err    error
	failOn string
	calls  int
}

func (f *fakeInspector) HasTests(ctx context.Context, path string) (bool, error) {
	f.calls++
	if f.failOn == "tests" {
		return false, f.err
	}
	return f.snap.HasTests, nil
}

func (f *fakeInspector) HasCI(ctx context.Context, path string) (bool, error) {
	f.calls++
	if f.failOn == "ci" {
		return false, f.err
	}
	return f.snap.HasCI, nil
}

func (f *fakeInspector) HasBackend(ctx context.Context, path string) (bool, error) {
	f.calls++
	if f.failOn == "backend" {
		return false, f.err
	}
	return f.snap.HasBackend, nil
}

func (f *fakeInspector) CoveragePercent(ctx context.Context, path string) (int, error) {
	f.calls++
	if f.failOn == "coverage" {
		return 0, f.err
	}
	return f.snap.CoveragePercent, nil
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		want     []Recommendation
		priority Priority
	}{
		{
			name:     "missing tests and low coverage",
			snap:     Snapshot{HasTests: false, HasCI: true, HasBackend: true, CoveragePercent: 50},
			want:     []Recommendation{AddTesting{}, ImproveCoverage{Current: 50, Target: 70}},
			priority: High,
		},
		{
			name:     "two recommendations stay low",
			snap:     Snapshot{HasTests: true, HasCI: false, HasBackend: false, CoveragePercent: 80},
			want:     []Recommendation{AddCI{}, AddBackend{}},
			priority: Low,
		},
		{
			name:     "three recommendations without testing are medium",
			snap:     Snapshot{HasTests: true, HasCI: false, HasBackend: false, CoveragePercent: 10},
			want:     []Recommendation{ImproveCoverage{Current: 10, Target: 70}, AddCI{}, AddBackend{}},
			priority: Medium,
		},
		{
			name:     "coverage at threshold is not flagged",
			snap:     Snapshot{HasTests: true, HasCI: true, HasBackend: true, CoveragePercent: 70},
			want:     nil,
			priority: Low,
		},
		{
			name:     "coverage just below threshold",
			snap:     Snapshot{HasTests: true, HasCI: true, HasBackend: true, CoveragePercent: 69},
			want:     []Recommendation{ImproveCoverage{Current: 69, Target: 70}},
			priority: Low,
		},
		{
			name: "everything missing",
			snap: Snapshot{CoveragePercent: 0},
			want: []Recommendation{
				AddTesting{}, ImproveCoverage{Current: 0, Target: 70}, AddCI{}, AddBackend{},
			},
			priority: High,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Derive("/proj", tt.snap)
			if set.ProjectPath != "/proj" {
				t.Errorf("expected project path /proj, got %q", set.ProjectPath)
			}
			if !reflect.DeepEqual(set.Recommendations, tt.want) {
				t.Errorf("recommendations = %#v, want %#v", set.Recommendations, tt.want)
			}
			if set.Priority != tt.priority {
				t.Errorf("priority = %v, want %v", set.Priority, tt.priority)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	insp := &fakeInspector{snap: Snapshot{HasTests: true, HasCI: true, HasBackend: true, CoveragePercent: 75}}
	engine := NewEngine(insp)

	set, err := engine.Analyze(context.Background(), "/test/path")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if set.ProjectPath != "/test/path" {
		t.Errorf("expected /test/path, got %q", set.ProjectPath)
	}
	if len(set.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", set.Recommendations)
	}
	if insp.calls != 4 {
		t.Errorf("expected 4 inspector calls, got %d", insp.calls)
	}
}

func TestAnalyzeInspectorFailure(t *testing.T) {
	errInaccessible := errors.New("path inaccessible")

	for _, failOn := range []string{"tests", "ci", "backend", "coverage"} {
		t.Run(failOn, func(t *testing.T) {
			insp := &fakeInspector{err: errInaccessible, failOn: failOn}
			engine := NewEngine(insp)
			engine.Apply(AddCI{}, "/before")

			set, err := engine.Analyze(context.Background(), "/missing")
			if err != errInaccessible {
				t.Fatalf("expected inspector error unchanged, got %v", err)
			}
			if set.ProjectPath != "" || set.Recommendations != nil {
				t.Errorf("expected zero Set on failure, got %+v", set)
			}
			if got := len(engine.History()); got != 1 {
				t.Errorf("history changed on failure: %d records", got)
			}
		})
	}
}

func TestApplyUpgrade(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	engine := NewEngine(&fakeInspector{}, WithClock(func() time.Time { return fixed }))

	record := engine.Apply(AddTesting{}, "/test/path")
	if record.AppliedAt != fixed {
		t.Errorf("expected AppliedAt %v, got %v", fixed, record.AppliedAt)
	}

	history := engine.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	if history[0].ProjectPath != "/test/path" || history[0].Recommendation != (AddTesting{}) {
		t.Errorf("unexpected record: %+v", history[0])
	}
}

func TestUpgradeHistoryOrderAndIsolation(t *testing.T) {
	engine := NewEngine(&fakeInspector{})

	engine.Apply(AddTesting{}, "/path1")
	engine.Apply(AddCI{}, "/path2")
	engine.Apply(ImproveCoverage{Current: 40, Target: 70}, "/path3")

	history := engine.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 records, got %d", len(history))
	}
	wantPaths := []string{"/path1", "/path2", "/path3"}
	for i, rec := range history {
		if rec.ProjectPath != wantPaths[i] {
			t.Errorf("record %d path = %q, want %q", i, rec.ProjectPath, wantPaths[i])
		}
	}

	engine.Apply(AddBackend{}, "/path4")
	if len(history) != 3 {
		t.Error("earlier snapshot was affected by a later append")
	}

	history[0].ProjectPath = "mutated"
	if engine.History()[0].ProjectPath != "/path1" {
		t.Error("mutating a snapshot changed engine state")
	}
}

func TestWithHistory(t *testing.T) {
	seed := []UpgradeRecord{{Recommendation: AddDocumentation{}, ProjectPath: "/old"}}
	engine := NewEngine(&fakeInspector{}, WithHistory(seed))
	engine.Apply(AddCI{}, "/new")

	history := engine.History()
	if len(history) != 2 || history[0].ProjectPath != "/old" || history[1].ProjectPath != "/new" {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestConcurrentApply(t *testing.T) {
	engine := NewEngine(&fakeInspector{})

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine.Apply(AddCI{}, "/p")
		}()
	}
	wg.Wait()

	history := engine.History()
	if len(history) != n {
		t.Fatalf("expected %d records, got %d", n, len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].AppliedAt.Before(history[i-1].AppliedAt) {
			t.Fatalf("record %d timestamp precedes record %d", i, i-1)
		}
	}
}
