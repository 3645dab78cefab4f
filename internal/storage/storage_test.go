/*
Package storage provides tests for the storage layer.
*/
package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	storage := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	if err := storage.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

// TestNewStorageDefaultPath verifies the default database location.
func TestNewStorageDefaultPath(t *testing.T) {
	storage := NewStorage("")
	if storage == nil {
		t.Fatal("NewStorage returned nil")
	}
	if storage.Path() != "" && !strings.HasSuffix(storage.Path(), filepath.Join(".dev-advisor", "history.db")) {
		t.Errorf("unexpected default path %q", storage.Path())
	}
}

// TestInit verifies database initialization and schema creation.
func TestInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	storage := NewStorage(dbPath)

	if err := storage.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer storage.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}
	if !storage.Enabled() {
		t.Error("expected storage to be enabled")
	}

	// Init is idempotent.
	if err := storage.Init(); err != nil {
		t.Errorf("second Init failed: %v", err)
	}
}

// TestRecordUpgrade verifies upgrade rows round-trip in append order.
func TestRecordUpgrade(t *testing.T) {
	storage := newTestStorage(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := []UpgradeRow{
		{Kind: "add_ci", ProjectPath: "/p", AppliedAt: base},
		{Kind: "improve_coverage", CoverageCurrent: 40, CoverageTarget: 70, ProjectPath: "/p", AppliedAt: base.Add(time.Second)},
		{Kind: "add_testing", ProjectPath: "/q", AppliedAt: base.Add(2 * time.Second)},
	}
	for _, row := range rows {
		if err := storage.RecordUpgrade(row); err != nil {
			t.Fatalf("RecordUpgrade failed: %v", err)
		}
	}

	got, err := storage.ListUpgrades()
	if err != nil {
		t.Fatalf("ListUpgrades failed: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i].Kind != rows[i].Kind || got[i].ProjectPath != rows[i].ProjectPath {
			t.Errorf("row %d: expected %+v, got %+v", i, rows[i], got[i])
		}
		if !got[i].AppliedAt.Equal(rows[i].AppliedAt) {
			t.Errorf("row %d: timestamp %v != %v", i, got[i].AppliedAt, rows[i].AppliedAt)
		}
	}
	if got[1].CoverageCurrent != 40 || got[1].CoverageTarget != 70 {
		t.Errorf("coverage payload lost: %+v", got[1])
	}
}

// TestRecordActivity verifies both event kinds persist in order.
func TestRecordActivity(t *testing.T) {
	storage := newTestStorage(t)
	now := time.Date(2026, 5, 2, 8, 30, 0, 123456789, time.UTC)

	events := []ActivityEvent{
		{Kind: ActivityContribution, Contribution: "post", RecordedAt: now},
		{Kind: ActivityLearning, Topic: "SwiftUI", Minutes: 45, RecordedAt: now},
		{Kind: ActivityContribution, Contribution: "help_provided", RecordedAt: now.Add(time.Minute)},
	}
	if err := storage.RecordActivityBatch(events); err != nil {
		t.Fatalf("RecordActivityBatch failed: %v", err)
	}
	if err := storage.RecordActivity(ActivityEvent{Kind: ActivityLearning, Topic: "Testing", Minutes: 10, RecordedAt: now}); err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}

	got, err := storage.ListActivity()
	if err != nil {
		t.Fatalf("ListActivity failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 events, got %d", len(got))
	}
	if got[0].Contribution != "post" || got[2].Contribution != "help_provided" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[1].Topic != "SwiftUI" || got[1].Minutes != 45 {
		t.Errorf("learning payload lost: %+v", got[1])
	}
	if !got[0].RecordedAt.Equal(now) {
		t.Errorf("expected nanosecond timestamp %v, got %v", now, got[0].RecordedAt)
	}
}

// TestRecordActivityRejectsUnknownKind verifies a bad batch is not partially written.
func TestRecordActivityRejectsUnknownKind(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.RecordActivityBatch([]ActivityEvent{
		{Kind: ActivityContribution, Contribution: "post", RecordedAt: time.Now()},
		{Kind: "bogus", RecordedAt: time.Now()},
	})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}

	got, err := storage.ListActivity()
	if err != nil {
		t.Fatalf("ListActivity failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected rollback, found %d events", len(got))
	}
}

// TestRecordContent verifies the content log ordering and limit.
func TestRecordContent(t *testing.T) {
	storage := newTestStorage(t)
	base := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		rec := ContentRecord{
			ID:               id,
			Topic:            "Testing",
			Title:            "Title " + id,
			Difficulty:       "Beginner",
			EstimatedMinutes: 15,
			GeneratedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		if err := storage.RecordContent(rec); err != nil {
			t.Fatalf("RecordContent failed: %v", err)
		}
	}
	// Duplicate ids are ignored.
	if err := storage.RecordContent(ContentRecord{ID: "a", Topic: "Testing", Title: "dup", Difficulty: "Beginner", GeneratedAt: base}); err != nil {
		t.Fatalf("duplicate RecordContent failed: %v", err)
	}

	got, err := storage.ListContent(2)
	if err != nil {
		t.Fatalf("ListContent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}

	all, err := storage.ListContent(0)
	if err != nil {
		t.Fatalf("ListContent failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 records, got %d", len(all))
	}
}

// TestReopenKeepsData verifies state survives a new storage instance.
func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	first := NewStorage(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := first.RecordUpgrade(UpgradeRow{Kind: "add_backend", ProjectPath: "/p", AppliedAt: time.Now()}); err != nil {
		t.Fatalf("RecordUpgrade failed: %v", err)
	}
	first.Close()

	second := NewStorage(dbPath)
	if err := second.Init(); err != nil {
		t.Fatalf("reopen Init failed: %v", err)
	}
	defer second.Close()

	got, err := second.ListUpgrades()
	if err != nil {
		t.Fatalf("ListUpgrades failed: %v", err)
	}
	if len(got) != 1 || got[0].Kind != "add_backend" {
		t.Errorf("expected persisted upgrade, got %+v", got)
	}
}

// TestGracefulDegradation verifies behavior when DB is unavailable.
func TestGracefulDegradation(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	storage := NewStorage(filepath.Join(blocker, "sub", "test.db"))

	if err := storage.Init(); err == nil {
		t.Error("expected Init to report the failure")
	}
	if storage.Enabled() {
		t.Error("expected storage to be disabled")
	}

	if err := storage.RecordUpgrade(UpgradeRow{Kind: "add_ci"}); err != nil {
		t.Errorf("RecordUpgrade should return nil on disabled storage, got: %v", err)
	}
	if err := storage.RecordActivity(ActivityEvent{Kind: ActivityContribution}); err != nil {
		t.Errorf("RecordActivity should return nil on disabled storage, got: %v", err)
	}

	upgrades, err := storage.ListUpgrades()
	if err != nil || len(upgrades) != 0 {
		t.Errorf("expected empty history on disabled storage, got %v, %v", upgrades, err)
	}
	activity, err := storage.ListActivity()
	if err != nil || len(activity) != 0 {
		t.Errorf("expected empty activity on disabled storage, got %v, %v", activity, err)
	}
	if err := storage.Close(); err != nil {
		t.Errorf("Close on disabled storage: %v", err)
	}
}
