package storage

import (
	"fmt"
	"log"
)

// DefaultContentLimit caps ListContent when the caller passes a non-positive limit.
const DefaultContentLimit = 50

// RecordContent logs a generated content item. Re-recording an id is a no-op.
func (s *SQLiteStorage) RecordContent(record ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return nil
	}

	query := `
		INSERT OR IGNORE INTO content_log (id, topic, title, difficulty, estimated_minutes, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := s.db.Exec(query,
		record.ID,
		record.Topic,
		record.Title,
		record.Difficulty,
		record.EstimatedMinutes,
		formatTime(record.GeneratedAt),
	); err != nil {
		return fmt.Errorf("failed to record content: %w", err)
	}

	return nil
}

// ListContent returns up to limit content records, newest first.
func (s *SQLiteStorage) ListContent(limit int) ([]ContentRecord, error) {
	if limit <= 0 {
		limit = DefaultContentLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return []ContentRecord{}, nil
	}

	query := `
		SELECT id, topic, title, difficulty, estimated_minutes, generated_at
		FROM content_log
		ORDER BY generated_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query content log: %w", err)
	}
	defer rows.Close()

	records := []ContentRecord{}
	for rows.Next() {
		var record ContentRecord
		var generatedAt string

		if err := rows.Scan(
			&record.ID,
			&record.Topic,
			&record.Title,
			&record.Difficulty,
			&record.EstimatedMinutes,
			&generatedAt,
		); err != nil {
			log.Printf("Warning: failed to scan content row: %v", err)
			continue
		}

		record.GeneratedAt, err = parseTime(generatedAt)
		if err != nil {
			log.Printf("Warning: failed to parse timestamp: %v", err)
			continue
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read content log: %w", err)
	}

	return records, nil
}
