package api

import (
	"net/http"

	"github.com/JaimeStill/umai/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(
		mux,
		newIdentityHandler(runtime.Sessions, runtime.Logger).routes(),
		domain.Candidates.Handler().Routes(),
		domain.Works.Handler().Routes(),
		domain.Sources.Handler().Routes(),
	)
}
