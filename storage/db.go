// Package storage persists sessions and their messages in a local SQLite
// database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"nexushr/config"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "nexushr.db"

// ErrSessionNotFound is returned for operations on an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// Store is the SQLite-backed session store.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database in dataDir.
func NewStore(dataDir string) (*Store, error) {
	return Open(filepath.Join(dataDir, DatabaseFile))
}

// Open opens the database at dbPath and brings its schema up to date.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer; SQLite serializes anyway and this avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Storage] Opened %s", dbPath)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	PRAGMA foreign_keys = ON;
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		tool_calls TEXT,
		created_at INTEGER NOT NULL,
		UNIQUE(session_id, seq)
	);
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if err := s.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds columns introduced after the first schema version
func (s *Store) migrateSchema() error {
	hasModel, err := s.columnExists("sessions", "model")
	if err != nil {
		return fmt.Errorf("failed to check for model column: %w", err)
	}

	switch {
	case !hasModel:
		if _, err := s.db.Exec(`ALTER TABLE sessions ADD COLUMN model TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("failed to add model column: %w", err)
		}
	}

	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info
func (s *Store) columnExists(tableName, columnName string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid          int
			name         string
			dataType     string
			notNull      int
			defaultValue any
			pk           int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}

	return false, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
