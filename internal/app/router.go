package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/logview/internal/storage"
	"github.com/mandalnilabja/logview/internal/transport/http/handler"
	"github.com/mandalnilabja/logview/internal/transport/http/middleware"
	"github.com/mandalnilabja/logview/internal/transport/http/middleware/auth"
	"github.com/mandalnilabja/logview/internal/transport/http/middleware/ratelimit"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger      *slog.Logger
	Storage     storage.Storage
	AuthCache   *auth.VerifiedCache // optional
	RateLimiter *ratelimit.Limiter  // optional; applies to admin routes
}

// NewRouter creates the HTTP router with all application routes and the
// middleware chain CORS, RequestID, RequestLogger applied outermost first.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)

	registerAdminRoutes(mux, repo, opts)

	chain := []func(http.Handler) http.Handler{middleware.CORS, middleware.RequestID}
	if opts.Logger != nil {
		chain = append(chain, middleware.RequestLogger(opts.Logger))
	}
	return middleware.Chain(mux, chain...)
}

// registerAdminRoutes adds the authenticated log routes.
func registerAdminRoutes(mux *http.ServeMux, repo *handler.Repo, opts *RouterOptions) {
	guards := []func(http.Handler) http.Handler{}
	if opts.RateLimiter != nil {
		guards = append(guards, ratelimit.Middleware(opts.RateLimiter))
	}
	guards = append(guards, auth.AdminAuth(opts.Storage, opts.AuthCache, opts.Logger))

	withAuth := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, guards...)
	}

	mux.Handle("GET /api/log/content", withAuth(repo.Admin.ListContentLogs))
	mux.Handle("DELETE /api/log/content", withAuth(repo.Admin.DeleteContentLogs))
}
