/*
Package storage implements a persistent storage layer for upgrade history,
impact activity, and generated content.

The engines keep their state in memory; this package is the snapshot/restore
layer callers use to carry that state across processes. The database is
stored at ~/.dev-advisor/history.db by default and uses modernc.org/sqlite
(a pure Go, CGo-free implementation).
*/
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent storage operations.
type Storage interface {
	// Init initializes the database and runs migrations.
	Init() error

	// RecordUpgrade appends an applied upgrade.
	RecordUpgrade(row UpgradeRow) error

	// ListUpgrades returns all applied upgrades in append order.
	ListUpgrades() ([]UpgradeRow, error)

	// RecordActivity appends an impact event.
	RecordActivity(event ActivityEvent) error

	// ListActivity returns all impact events in append order.
	ListActivity() ([]ActivityEvent, error)

	// RecordContent logs a generated content item.
	RecordContent(record ContentRecord) error

	// ListContent returns the most recent content records, newest first.
	ListContent(limit int) ([]ContentRecord, error)

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// DefaultDBPath returns ~/.dev-advisor/history.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".dev-advisor", "history.db"), nil
}

// NewStorage creates a new SQLite storage instance at dbPath, or at the
// default path when dbPath is empty.
//
// If the database cannot be located, the storage is disabled but operations
// will not fail.
func NewStorage(dbPath string) *SQLiteStorage {
	if dbPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			log.Printf("Warning: %v", err)
			return &SQLiteStorage{enabled: false}
		}
		dbPath = p
	}

	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Enabled reports whether the storage is usable.
func (s *SQLiteStorage) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled && s.db != nil
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.disable()
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.disable()
			log.Printf("Warning: %v", initErr)
			return
		}
	})

	return initErr
}

// disable closes any open handle and turns the storage into a no-op.
// Callers hold s.mu.
func (s *SQLiteStorage) disable() {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	s.enabled = false
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// ready reports whether operations should touch the database. Callers hold s.mu.
func (s *SQLiteStorage) ready() bool {
	return s.enabled && s.db != nil
}
