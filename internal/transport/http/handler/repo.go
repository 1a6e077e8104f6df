// Package handler groups the HTTP handler sets served by the router.
package handler

import (
	"github.com/mandalnilabja/logview/internal/transport/http/handler/admin"
	"github.com/mandalnilabja/logview/internal/transport/http/handler/infra"
)

// Repo holds the handler sets for each route group.
type Repo struct {
	Admin *admin.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the handler repository
func NewRepo(adminHandlers *admin.Handlers, infraHandlers *infra.Handlers) *Repo {
	return &Repo{
		Admin: adminHandlers,
		Infra: infraHandlers,
	}
}
