// Package auth provides authentication middleware for HTTP routes.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/logview/internal/storage"
	"github.com/mandalnilabja/logview/internal/transport/http/handler/shared"
)

// VerifiedTTL bounds how long a verified token skips the Argon2 check.
const VerifiedTTL = 5 * time.Minute

// VerifiedCache maps a token digest to the password hash it verified against.
type VerifiedCache = ristretto.Cache[string, string]

// NewVerifiedCache creates a small cache for verified admin tokens.
func NewVerifiedCache() (*VerifiedCache, error) {
	return ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters:        1000,
		MaxCost:            100,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
}

// AdminAuth protects admin routes. Requests carry the admin password as a
// Bearer token and are checked against the stored Argon2id hash. A non-nil
// cache remembers tokens that verified against the current hash, so a
// password change invalidates them.
func AdminAuth(store storage.Storage, cache *VerifiedCache, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				shared.WriteFailure(w, "authorization required", http.StatusUnauthorized)
				return
			}

			hash, err := store.GetAdminPasswordHash()
			if err != nil {
				logger.Error("failed to load admin password", "error", err)
				shared.WriteFailure(w, "server error", http.StatusUnauthorized)
				return
			}
			if hash == "" {
				shared.WriteFailure(w, "admin not configured", http.StatusUnauthorized)
				return
			}

			digest := tokenDigest(token)
			if cache != nil {
				if cached, found := cache.Get(digest); found && cached == hash {
					next.ServeHTTP(w, r)
					return
				}
			}

			valid, err := storage.VerifyPassword(token, hash)
			if err != nil || !valid {
				shared.WriteFailure(w, "invalid credentials", http.StatusUnauthorized)
				return
			}

			if cache != nil {
				cache.SetWithTTL(digest, hash, 1, VerifiedTTL)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
