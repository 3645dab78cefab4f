/*
Package storage provides data models for persisted engine state.

These are flat, string-typed rows; the engines own the typed domain values and
convert at the boundary.
*/
package storage

import "time"

// Activity kinds stored in activity_log.kind.
const (
	ActivityContribution = "contribution"
	ActivityLearning     = "learning"
)

// UpgradeRow is one applied upgrade.
type UpgradeRow struct {
	// Kind is the recommendation kind name (e.g. "add_ci").
	Kind string `json:"kind"`

	// CoverageCurrent and CoverageTarget are set for "improve_coverage" only.
	CoverageCurrent int `json:"coverage_current,omitempty"`
	CoverageTarget  int `json:"coverage_target,omitempty"`

	// ProjectPath is the project the upgrade was applied to.
	ProjectPath string `json:"project_path"`

	// AppliedAt is when the upgrade was recorded.
	AppliedAt time.Time `json:"applied_at"`
}

// ActivityEvent is one contribution or learning record.
type ActivityEvent struct {
	// Kind is ActivityContribution or ActivityLearning.
	Kind string `json:"kind"`

	// Contribution is the contribution type name for contribution events.
	Contribution string `json:"contribution,omitempty"`

	// Topic and Minutes are set for learning events.
	Topic   string `json:"topic,omitempty"`
	Minutes int    `json:"minutes,omitempty"`

	// RecordedAt is when the event happened.
	RecordedAt time.Time `json:"recorded_at"`
}

// ContentRecord is a log entry for a generated content item.
type ContentRecord struct {
	ID               string    `json:"id"`
	Topic            string    `json:"topic"`
	Title            string    `json:"title"`
	Difficulty       string    `json:"difficulty"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	GeneratedAt      time.Time `json:"generated_at"`
}
