package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/logview/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/logview/internal/version"
)

// HealthCheck handles GET /api/health. The database is pinged so a broken
// store reports 503.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"app":            "logview",
		"version":        version.Version,
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
	}

	if err := h.Storage.Ping(); err != nil {
		data["status"] = "unavailable"
		shared.WriteJSON(w, shared.Envelope{Success: false, Message: "database unavailable", Data: data},
			http.StatusServiceUnavailable)
		return
	}

	data["status"] = "active"
	shared.WriteSuccess(w, data)
}
