package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/umai/pkg/gotrue"
	"github.com/JaimeStill/umai/pkg/handlers"
	"github.com/JaimeStill/umai/pkg/routes"
	"github.com/JaimeStill/umai/pkg/session"
)

const msgUnauthorized = "Unauthorized"

type identityHandler struct {
	sessions *session.Factory
	logger   *slog.Logger
}

func newIdentityHandler(sessions *session.Factory, logger *slog.Logger) *identityHandler {
	return &identityHandler{
		sessions: sessions,
		logger:   logger.With("handler", "identity"),
	}
}

func (h *identityHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/whoami", Handler: h.whoami},
		},
	}
}

type identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// whoami reports the signed-in user. The identity resolved by the gateway is
// used when present; otherwise the session cookies are resolved here.
func (h *identityHandler) whoami(w http.ResponseWriter, r *http.Request) {
	if id, ok := session.FromContext(r.Context()); ok && id.User != nil {
		handlers.RespondJSON(w, http.StatusOK, identity{ID: id.User.ID, Email: id.User.Email})
		return
	}

	u, _, err := h.sessions.ReadWrite(w, r).User(r.Context())
	if err != nil || u == nil {
		msg := msgUnauthorized
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			msg = gotrue.Message(err)
		}
		h.logger.Debug("identity unresolved", "error", err)
		handlers.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": msg})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, identity{ID: u.ID, Email: u.Email})
}
