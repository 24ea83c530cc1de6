// Package api assembles the JSON API module over the domain systems.
package api

import (
	"net/http"

	"github.com/JaimeStill/umai/internal/config"
	"github.com/JaimeStill/umai/internal/infrastructure"
	"github.com/JaimeStill/umai/pkg/middleware"
	"github.com/JaimeStill/umai/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))

	return m, nil
}
