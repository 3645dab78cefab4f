package advisor

import (
	"fmt"

	"github.com/khanglvm/dev-advisor/internal/content"
	"github.com/khanglvm/dev-advisor/internal/recommend"
	"github.com/khanglvm/dev-advisor/internal/storage"
)

// ToUpgradeRow converts an applied upgrade to the storage model.
func ToUpgradeRow(r recommend.UpgradeRecord) storage.UpgradeRow {
	row := storage.UpgradeRow{
		Kind:        r.Recommendation.Kind().String(),
		ProjectPath: r.ProjectPath,
		AppliedAt:   r.AppliedAt,
	}
	if cov, ok := r.Recommendation.(recommend.ImproveCoverage); ok {
		row.CoverageCurrent = cov.Current
		row.CoverageTarget = cov.Target
	}
	return row
}

// FromUpgradeRow converts a stored row back into an upgrade record.
func FromUpgradeRow(row storage.UpgradeRow) (recommend.UpgradeRecord, error) {
	kind, err := recommend.ParseKind(row.Kind)
	if err != nil {
		return recommend.UpgradeRecord{}, err
	}
	rec, err := recommend.New(kind, row.CoverageCurrent, row.CoverageTarget)
	if err != nil {
		return recommend.UpgradeRecord{}, err
	}
	return recommend.UpgradeRecord{
		Recommendation: rec,
		AppliedAt:      row.AppliedAt,
		ProjectPath:    row.ProjectPath,
	}, nil
}

// LoadHistory reads persisted upgrades in append order.
func LoadHistory(s storage.Storage) ([]recommend.UpgradeRecord, error) {
	rows, err := s.ListUpgrades()
	if err != nil {
		return nil, err
	}

	records := make([]recommend.UpgradeRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := FromUpgradeRow(row)
		if err != nil {
			return nil, fmt.Errorf("upgrade %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ToContentRecord converts generated content to a content log entry.
func ToContentRecord(c content.Content) storage.ContentRecord {
	return storage.ContentRecord{
		ID:               c.ID.String(),
		Topic:            c.Topic.String(),
		Title:            c.Title,
		Difficulty:       c.Difficulty.String(),
		EstimatedMinutes: c.EstimatedMinutes,
		GeneratedAt:      c.GeneratedAt,
	}
}
