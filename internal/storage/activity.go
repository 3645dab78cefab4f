package storage

import (
	"fmt"
	"log"
)

// RecordActivity appends a contribution or learning event to activity_log.
func (s *SQLiteStorage) RecordActivity(event ActivityEvent) error {
	return s.RecordActivityBatch([]ActivityEvent{event})
}

// RecordActivityBatch appends events in a single transaction, preserving order.
func (s *SQLiteStorage) RecordActivityBatch(events []ActivityEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO activity_log (kind, contribution, topic, minutes, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare activity insert: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		if event.Kind != ActivityContribution && event.Kind != ActivityLearning {
			tx.Rollback()
			return fmt.Errorf("unknown activity kind %q", event.Kind)
		}
		if _, err := stmt.Exec(
			event.Kind,
			event.Contribution,
			event.Topic,
			event.Minutes,
			formatTime(event.RecordedAt),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activity: %w", err)
	}

	return nil
}

// ListActivity returns every recorded event in the order it was appended.
func (s *SQLiteStorage) ListActivity() ([]ActivityEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return []ActivityEvent{}, nil
	}

	query := `
		SELECT kind, contribution, topic, minutes, recorded_at
		FROM activity_log
		ORDER BY id ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	events := []ActivityEvent{}
	for rows.Next() {
		var event ActivityEvent
		var recordedAt string

		if err := rows.Scan(
			&event.Kind,
			&event.Contribution,
			&event.Topic,
			&event.Minutes,
			&recordedAt,
		); err != nil {
			log.Printf("Warning: failed to scan activity row: %v", err)
			continue
		}

		event.RecordedAt, err = parseTime(recordedAt)
		if err != nil {
			log.Printf("Warning: failed to parse timestamp: %v", err)
			continue
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}

	return events, nil
}
