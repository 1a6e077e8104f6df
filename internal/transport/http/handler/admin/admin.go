// Package admin serves the authenticated log API.
package admin

import (
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/logview/internal/storage"
)

// CountCache holds recent COUNT(*) results keyed by filter.
type CountCache = ristretto.Cache[string, int64]

// NewCountCache creates the cache used for page totals.
func NewCountCache() (*CountCache, error) {
	return ristretto.NewCache(&ristretto.Config[string, int64]{
		NumCounters:        10_000,
		MaxCost:            1_000,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
}

// Handlers holds the dependencies for admin HTTP handlers.
type Handlers struct {
	Storage  storage.Storage
	Counts   *CountCache // optional
	CountTTL time.Duration
	Logger   *slog.Logger
}

// New creates admin handlers. counts may be nil to disable total caching.
func New(store storage.Storage, counts *CountCache, countTTL time.Duration, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Storage:  store,
		Counts:   counts,
		CountTTL: countTTL,
		Logger:   logger,
	}
}
