package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/umai/internal/api"
	"github.com/JaimeStill/umai/internal/auth"
	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/internal/config"
	"github.com/JaimeStill/umai/internal/infrastructure"
	"github.com/JaimeStill/umai/internal/pages"
	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/middleware"
	"github.com/JaimeStill/umai/pkg/module"
	"github.com/JaimeStill/umai/pkg/web"
	"github.com/JaimeStill/umai/web/app"
)

// Modules holds the prefixed HTTP surfaces and the root page router.
type Modules struct {
	API   *module.Module
	Auth  *module.Module
	Pages *web.Router
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	authHandler := auth.NewHandler(infra.Sessions, infra.Logger)
	authModule := module.FromGroups(auth.AuthPrefix, authHandler.Routes())
	authModule.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))

	pageRouter, err := newPageRouter(infra, cfg)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:   apiModule,
		Auth:  authModule,
		Pages: pageRouter,
	}, nil
}

func newPageRouter(infra *infrastructure.Infrastructure, cfg *config.Config) (*web.Router, error) {
	views, err := pages.NewTemplates(app.FS)
	if err != nil {
		return nil, err
	}

	db := infra.Database.Connection()
	logger := infra.Logger.With("module", "pages")
	h := pages.NewHandler(
		views,
		candidates.New(db, logger, cfg.API.Pagination),
		works.New(db, logger, cfg.API.Pagination),
		sources.New(db, logger, cfg.API.Pagination),
		logger,
		cfg.API.Pagination,
	)

	router := web.NewRouter()
	router.Register(h.Routes())
	router.SetFallback(http.HandlerFunc(h.NotFound))
	return router, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Auth)
	router.HandleNative("/", m.Pages)
}

// buildHandler places the probes and static assets in front of the auth
// gateway; everything else passes through the gateway to router.
func buildHandler(infra *infrastructure.Infrastructure, router *module.Router, authz auth.Authorizer) (http.Handler, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := map[string]any{"checks": infra.Lifecycle.Readiness()}
		if !infra.Lifecycle.Ready() {
			body["status"] = "not ready"
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(body)
			return
		}
		body["status"] = "ready"
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	})

	static, err := web.Static(app.FS, "static", "/static/")
	if err != nil {
		return nil, err
	}
	mux.Handle("GET /static/", static)

	mux.Handle("/", auth.Gateway(infra.Sessions, authz, infra.Logger)(router))

	stack := middleware.New()
	stack.Use(middleware.Logger(infra.Logger))
	stack.Use(middleware.Recover(infra.Logger))
	return stack.Apply(mux), nil
}
