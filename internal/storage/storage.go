// Package storage defines the persistence interface for content logs.
package storage

import (
	"github.com/mandalnilabja/logview/internal/storage/encryption"
	"github.com/mandalnilabja/logview/internal/storage/models"
	"github.com/mandalnilabja/logview/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	ContentLog       = models.ContentLog
	ContentLogFilter = models.ContentLogFilter
	Channel          = models.Channel
)

// Re-export errors from sqlite package
var (
	ErrNotFound        = sqlite.ErrNotFound
	ErrInvalidInput    = sqlite.ErrInvalidInput
	ErrStorageClosed   = sqlite.ErrStorageClosed
	ErrEncryptionError = sqlite.ErrEncryptionError
)

// Storage defines the interface for persistent data storage
type Storage interface {
	// Content log operations
	InsertContentLog(log *models.ContentLog) error
	ListContentLogs(filter models.ContentLogFilter) ([]*models.ContentLog, error)
	CountContentLogs(filter models.ContentLogFilter) (int64, error)
	DeleteContentLogs(before int64) (int64, error)

	// Channel operations
	UpsertChannel(ch *models.Channel) error
	ListChannels() ([]*models.Channel, error)

	// Admin password operations
	GetAdminPasswordHash() (string, error)
	SetAdminPasswordHash(hash string) error
	HasAdminPassword() (bool, error)

	// Maintenance operations
	Ping() error
	Close() error
}

// NewSQLiteStorage opens the SQLite database at dbPath. A nil enc uses the
// key from LOGVIEW_ENCRYPTION_KEY or the machine-derived default.
func NewSQLiteStorage(dbPath string, enc encryption.Encryptor) (Storage, error) {
	return sqlite.New(dbPath, enc)
}
