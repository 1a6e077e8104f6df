// Package sqlite provides SQLite-based storage implementation.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mandalnilabja/logview/internal/storage/encryption"
	_ "modernc.org/sqlite"
)

// Storage implements the storage.Storage interface using SQLite
type Storage struct {
	db        *sql.DB
	encryptor encryption.Encryptor
	mu        sync.RWMutex
	closed    bool
}

// New creates a new SQLite storage instance. Request and response bodies
// are encrypted with enc; a nil enc derives the default machine key.
func New(dbPath string, enc encryption.Encryptor) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings for better concurrency
	db.SetMaxOpenConns(1) // SQLite works best with single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if enc == nil {
		aes, err := encryption.New()
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create encryptor: %w", err)
		}
		enc = aes
	}

	storage := &Storage{
		db:        db,
		encryptor: enc,
	}

	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := storage.migrateContentLogs(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate content logs: %w", err)
	}

	return storage, nil
}

// createSchema creates the database schema
func (s *Storage) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS channels (
		id          INTEGER PRIMARY KEY,
		name        TEXT NOT NULL,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS content_logs (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at        INTEGER NOT NULL,
		type              INTEGER NOT NULL DEFAULT 0,
		username          TEXT NOT NULL DEFAULT '',
		token_name        TEXT NOT NULL DEFAULT '',
		model_name        TEXT NOT NULL DEFAULT '',
		"group"           TEXT NOT NULL DEFAULT '',
		prompt_tokens     INTEGER DEFAULT 0,
		completion_tokens INTEGER DEFAULT 0,
		quota             INTEGER DEFAULT 0,
		channel_id        INTEGER DEFAULT 0,
		request_content   TEXT,
		response_content  TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_content_logs_created ON content_logs(created_at);
	CREATE INDEX IF NOT EXISTS idx_content_logs_username ON content_logs(username);
	CREATE INDEX IF NOT EXISTS idx_content_logs_model ON content_logs(model_name);
	CREATE INDEX IF NOT EXISTS idx_content_logs_token ON content_logs(token_name);
	CREATE INDEX IF NOT EXISTS idx_content_logs_channel ON content_logs(channel_id);

	CREATE TABLE IF NOT EXISTS admin_settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Storage) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStorageClosed
	}
	return s.db.Ping()
}
