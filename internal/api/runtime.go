package api

import (
	"github.com/JaimeStill/umai/internal/config"
	"github.com/JaimeStill/umai/internal/infrastructure"
	"github.com/JaimeStill/umai/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Auth:      infra.Auth,
			Sessions:  infra.Sessions,
		},
		Pagination: cfg.API.Pagination,
	}
}
