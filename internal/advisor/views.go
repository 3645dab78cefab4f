package advisor

import (
	"time"

	"github.com/khanglvm/dev-advisor/internal/recommend"
)

// RecommendationView is the JSON form of a recommendation.
type RecommendationView struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Current     *int   `json:"current,omitempty"`
	Target      *int   `json:"target,omitempty"`
}

// SetView is the JSON form of a recommendation set.
type SetView struct {
	ProjectPath     string               `json:"projectPath"`
	Priority        string               `json:"priority"`
	Recommendations []RecommendationView `json:"recommendations"`
}

// UpgradeView is the JSON form of an applied upgrade.
type UpgradeView struct {
	Recommendation RecommendationView `json:"recommendation"`
	AppliedAt      time.Time          `json:"appliedAt"`
	ProjectPath    string             `json:"projectPath"`
}

// ViewRecommendation renders r.
func ViewRecommendation(r recommend.Recommendation) RecommendationView {
	v := RecommendationView{
		Kind:        r.Kind().String(),
		Description: recommend.Describe(r),
	}
	if cov, ok := r.(recommend.ImproveCoverage); ok {
		current, target := cov.Current, cov.Target
		v.Current = &current
		v.Target = &target
	}
	return v
}

// ViewSet renders a recommendation set.
func ViewSet(s recommend.Set) SetView {
	v := SetView{
		ProjectPath:     s.ProjectPath,
		Priority:        s.Priority.String(),
		Recommendations: make([]RecommendationView, 0, len(s.Recommendations)),
	}
	for _, r := range s.Recommendations {
		v.Recommendations = append(v.Recommendations, ViewRecommendation(r))
	}
	return v
}

// ViewHistory renders applied upgrades in order.
func ViewHistory(records []recommend.UpgradeRecord) []UpgradeView {
	out := make([]UpgradeView, 0, len(records))
	for _, r := range records {
		out = append(out, UpgradeView{
			Recommendation: ViewRecommendation(r.Recommendation),
			AppliedAt:      r.AppliedAt,
			ProjectPath:    r.ProjectPath,
		})
	}
	return out
}
