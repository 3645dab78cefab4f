package storage

import (
	"fmt"
	"log"
)

// RecordUpgrade appends an applied upgrade to upgrade_history.
func (s *SQLiteStorage) RecordUpgrade(row UpgradeRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return nil
	}

	query := `
		INSERT INTO upgrade_history (kind, coverage_current, coverage_target, project_path, applied_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := s.db.Exec(query,
		row.Kind,
		row.CoverageCurrent,
		row.CoverageTarget,
		row.ProjectPath,
		formatTime(row.AppliedAt),
	); err != nil {
		return fmt.Errorf("failed to record upgrade: %w", err)
	}

	return nil
}

// ListUpgrades returns every recorded upgrade in the order it was appended.
func (s *SQLiteStorage) ListUpgrades() ([]UpgradeRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return []UpgradeRow{}, nil
	}

	query := `
		SELECT kind, coverage_current, coverage_target, project_path, applied_at
		FROM upgrade_history
		ORDER BY id ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query upgrade history: %w", err)
	}
	defer rows.Close()

	upgrades := []UpgradeRow{}
	for rows.Next() {
		var row UpgradeRow
		var appliedAt string

		if err := rows.Scan(
			&row.Kind,
			&row.CoverageCurrent,
			&row.CoverageTarget,
			&row.ProjectPath,
			&appliedAt,
		); err != nil {
			log.Printf("Warning: failed to scan upgrade row: %v", err)
			continue
		}

		row.AppliedAt, err = parseTime(appliedAt)
		if err != nil {
			log.Printf("Warning: failed to parse timestamp: %v", err)
			continue
		}

		upgrades = append(upgrades, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read upgrade history: %w", err)
	}

	return upgrades, nil
}
