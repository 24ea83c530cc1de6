package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/umai/pkg/gotrue"
	"github.com/JaimeStill/umai/pkg/handlers"
	"github.com/JaimeStill/umai/pkg/routes"
	"github.com/JaimeStill/umai/pkg/session"
)

// Messages returned by the token exchange before the auth API is contacted.
const (
	MsgInvalidJSON   = "Invalid JSON"
	MsgMissingTokens = "Missing tokens"
)

// Handler serves the session endpoints mounted under /auth.
type Handler struct {
	sessions *session.Factory
	logger   *slog.Logger
}

// NewHandler creates a Handler over the session factory.
func NewHandler(sessions *session.Factory, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger.With("handler", "auth"),
	}
}

// Routes returns the route group for session endpoints, relative to the
// module prefix.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/set-session", Handler: h.SetSession},
			{Method: "GET", Pattern: "/whoami", Handler: h.WhoAmI},
			{Method: "POST", Pattern: "/login", Handler: h.Login},
			{Method: "POST", Pattern: "/logout", Handler: h.Logout},
		},
	}
}

type setSessionRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SetSession exchanges a browser-held token pair for session cookies.
func (h *Handler) SetSession(w http.ResponseWriter, r *http.Request) {
	var req setSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondJSON(w, http.StatusBadRequest, map[string]string{"error": MsgInvalidJSON})
		return
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		handlers.RespondJSON(w, http.StatusBadRequest, map[string]string{"error": MsgMissingTokens})
		return
	}

	client := h.sessions.ReadWrite(w, r)
	s, err := client.SetSession(r.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		h.logger.Warn("token exchange rejected", "error", err)
		handlers.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": gotrue.Message(err)})
		return
	}

	h.logger.Info("session established", "user_id", s.User.ID)
	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type whoAmIUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type whoAmIResponse struct {
	Error       *string     `json:"error"`
	HasSession  bool        `json:"hasSession"`
	User        *whoAmIUser `json:"user"`
	CookieNames []string    `json:"cookieNames"`
}

// WhoAmI reports the session visible in the request cookies. It reads
// through the read-only strategy and never writes cookies.
func (h *Handler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	client := h.sessions.ReadOnly(r)
	resp := whoAmIResponse{CookieNames: client.CookieNames()}

	s, err := client.Session(r.Context())
	switch {
	case errors.Is(err, session.ErrNoSession):
	case err != nil:
		msg := gotrue.Message(err)
		resp.Error = &msg
	default:
		resp.HasSession = true
		if s.User != nil {
			resp.User = &whoAmIUser{ID: s.User.ID, Email: s.User.Email}
		}
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Login performs a password sign-in from the login form and redirects to the
// dashboard. Failures return to the login page with the provider's message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		loginFailed(w, r, "", "Invalid form submission")
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	client := h.sessions.ReadWrite(w, r)
	if _, err := client.SignInWithPassword(r.Context(), email, password); err != nil {
		h.logger.Info("sign in failed", "email", email, "error", err)
		loginFailed(w, r, email, gotrue.Message(err))
		return
	}

	h.logger.Info("signed in", "email", email)
	handlers.Redirect(w, r, HomePath)
}

// Logout revokes the session and expires its cookies.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	client := h.sessions.ReadWrite(w, r)
	if err := client.SignOut(r.Context()); err != nil {
		h.logger.Warn("session revocation failed", "error", err)
	}
	handlers.Redirect(w, r, LoginPath)
}

func loginFailed(w http.ResponseWriter, r *http.Request, email, msg string) {
	q := url.Values{"error": {msg}}
	if email != "" {
		q.Set("email", email)
	}
	handlers.Redirect(w, r, LoginPath+"?"+q.Encode())
}
