package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store loads and persists the registry document. Implementations hold no
// registry state between calls; LoadRegistry always reads a fresh snapshot
// and SaveRegistry replaces the whole document.
type Store interface {
	LoadRegistry() (*Registry, error)
	SaveRegistry(*Registry) error
}

// SQLiteStore persists the registry in a sqlite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenStore creates or opens the registry database at path.
func OpenStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// initSchema creates the allocations and reservations tables if needed
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS allocations (
		port INTEGER PRIMARY KEY,
		project TEXT NOT NULL,
		service TEXT NOT NULL,
		type TEXT NOT NULL,
		allocated_at TEXT NOT NULL,
		note TEXT,
		UNIQUE(project, service)
	);

	CREATE TABLE IF NOT EXISTS reservations (
		port INTEGER PRIMARY KEY,
		reason TEXT NOT NULL,
		reserved_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// LoadRegistry reads the full registry document.
func (s *SQLiteStore) LoadRegistry() (*Registry, error) {
	reg := &Registry{}

	rows, err := s.db.Query(`
		SELECT port, project, service, type, allocated_at, COALESCE(note, '')
		FROM allocations
		ORDER BY allocated_at, port
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var a PortAllocation
		var allocatedAt string

		if err := rows.Scan(&a.Port, &a.Project, &a.Service, &a.Type, &allocatedAt, &a.Note); err != nil {
			return nil, err
		}

		a.AllocatedAt, _ = time.Parse(time.RFC3339, allocatedAt)
		reg.Allocations = append(reg.Allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resRows, err := s.db.Query(`
		SELECT port, reason, reserved_at
		FROM reservations
		ORDER BY reserved_at, port
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer func() { _ = resRows.Close() }()

	for resRows.Next() {
		var r Reservation
		var reservedAt string

		if err := resRows.Scan(&r.Port, &r.Reason, &reservedAt); err != nil {
			return nil, err
		}

		r.ReservedAt, _ = time.Parse(time.RFC3339, reservedAt)
		reg.Reservations = append(reg.Reservations, r)
	}
	if err := resRows.Err(); err != nil {
		return nil, err
	}

	return reg, nil
}

// SaveRegistry replaces the stored document with reg in one transaction.
func (s *SQLiteStore) SaveRegistry(reg *Registry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM allocations"); err != nil {
		return fmt.Errorf("failed to clear allocations: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM reservations"); err != nil {
		return fmt.Errorf("failed to clear reservations: %w", err)
	}

	for _, a := range reg.Allocations {
		_, err := tx.Exec(`
			INSERT INTO allocations (port, project, service, type, allocated_at, note)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.Port, a.Project, a.Service, a.Type, a.AllocatedAt.UTC().Format(time.RFC3339), a.Note)
		if err != nil {
			return fmt.Errorf("failed to insert allocation for port %d: %w", a.Port, err)
		}
	}

	for _, r := range reg.Reservations {
		_, err := tx.Exec(`
			INSERT INTO reservations (port, reason, reserved_at)
			VALUES (?, ?, ?)
		`, r.Port, r.Reason, r.ReservedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to insert reservation for port %d: %w", r.Port, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registry: %w", err)
	}

	return nil
}
