/*
Package recommend derives prioritized upgrade recommendations from a project
snapshot and keeps an append-only history of applied upgrades.
*/
package recommend

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownKind is returned when a recommendation kind cannot be parsed.
var ErrUnknownKind = errors.New("unknown recommendation kind")

// Kind names a recommendation variant.
type Kind int

const (
	KindAddTesting Kind = iota
	KindImproveCoverage
	KindAddCI
	KindAddBackend
	KindUpdateDependencies
	KindImproveAccessibility
	KindAddDocumentation
)

var kindNames = [...]string{
	KindAddTesting:           "add_testing",
	KindImproveCoverage:      "improve_coverage",
	KindAddCI:                "add_ci",
	KindAddBackend:           "add_backend",
	KindUpdateDependencies:   "update_dependencies",
	KindImproveAccessibility: "improve_accessibility",
	KindAddDocumentation:     "add_documentation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a kind by name. Dashes are accepted in place of underscores.
func ParseKind(name string) (Kind, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Recommendation is a closed set of upgrade suggestions. Only the variants
// declared in this package implement it.
type Recommendation interface {
	Kind() Kind
	isRecommendation()
}

type (
	AddTesting      struct{}
	ImproveCoverage struct {
		Current int `json:"current"`
		Target  int `json:"target"`
	}
	AddCI                struct{}
	AddBackend           struct{}
	UpdateDependencies   struct{}
	ImproveAccessibility struct{}
	AddDocumentation     struct{}
)

func (AddTesting) Kind() Kind           { return KindAddTesting }
func (ImproveCoverage) Kind() Kind      { return KindImproveCoverage }
func (AddCI) Kind() Kind                { return KindAddCI }
func (AddBackend) Kind() Kind           { return KindAddBackend }
func (UpdateDependencies) Kind() Kind   { return KindUpdateDependencies }
func (ImproveAccessibility) Kind() Kind { return KindImproveAccessibility }
func (AddDocumentation) Kind() Kind     { return KindAddDocumentation }

func (AddTesting) isRecommendation()           {}
func (ImproveCoverage) isRecommendation()      {}
func (AddCI) isRecommendation()                {}
func (AddBackend) isRecommendation()           {}
func (UpdateDependencies) isRecommendation()   {}
func (ImproveAccessibility) isRecommendation() {}
func (AddDocumentation) isRecommendation()     {}

// New builds a recommendation of the given kind. current and target are only
// used by KindImproveCoverage.
func New(kind Kind, current, target int) (Recommendation, error) {
	switch kind {
	case KindAddTesting:
		return AddTesting{}, nil
	case KindImproveCoverage:
		return ImproveCoverage{Current: current, Target: target}, nil
	case KindAddCI:
		return AddCI{}, nil
	case KindAddBackend:
		return AddBackend{}, nil
	case KindUpdateDependencies:
		return UpdateDependencies{}, nil
	case KindImproveAccessibility:
		return ImproveAccessibility{}, nil
	case KindAddDocumentation:
		return AddDocumentation{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// Describe returns a one-line human description.
func Describe(r Recommendation) string {
	switch rec := r.(type) {
	case AddTesting:
		return "Add a test suite"
	case ImproveCoverage:
		return fmt.Sprintf("Improve test coverage from %d%% to %d%%", rec.Current, rec.Target)
	case AddCI:
		return "Set up continuous integration"
	case AddBackend:
		return "Add a backend service"
	case UpdateDependencies:
		return "Update dependencies"
	case ImproveAccessibility:
		return "Improve accessibility"
	case AddDocumentation:
		return "Add documentation"
	default:
		return "Unknown recommendation"
	}
}

// Priority is derived from a recommendation list, never set directly.
type Priority int

const (
	Low Priority = iota
	Medium
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the priority as its display name.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Snapshot holds the project signals supplied by an Inspector.
type Snapshot struct {
	HasTests        bool
	HasCI           bool
	HasBackend      bool
	CoveragePercent int
}

// Set is the result of one analysis. It is a value, not a live view.
type Set struct {
	ProjectPath     string
	Recommendations []Recommendation
	Priority        Priority
}

// UpgradeRecord is one applied upgrade in the history.
type UpgradeRecord struct {
	Recommendation Recommendation
	AppliedAt      time.Time
	ProjectPath    string
}
