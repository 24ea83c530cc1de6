package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/umai/pkg/handlers"
	"github.com/JaimeStill/umai/pkg/session"
)

// Authorizer reports whether an authenticated user holds the admin flag.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Gateway returns middleware enforcing Decide on every request. Sessions are
// resolved through a read-write client bound to the real response, so a
// refreshed token reaches the browser whether the request is redirected or
// passed through. Resolution and lookup failures deny access.
func Gateway(sessions *session.Factory, authz Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "gateway")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if Exempt(path) {
				next.ServeHTTP(w, r)
				return
			}

			client := sessions.ReadWrite(w, r)
			user, sess, err := client.User(r.Context())
			authenticated := err == nil && user != nil
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				logger.Debug("session not resolved", "path", path, "error", err)
			}

			admin := false
			if authenticated && NeedsAdminCheck(path) {
				ok, err := authz.IsAdmin(r.Context(), user.ID)
				if err != nil {
					logger.Warn("admin lookup failed", "user_id", user.ID, "error", err)
				}
				admin = err == nil && ok
			}

			if d := Decide(path, authenticated, admin); !d.Allowed() {
				handlers.Redirect(w, r, d.Redirect)
				return
			}

			if authenticated {
				ctx := session.WithIdentity(r.Context(), &session.Identity{
					User:    user,
					Session: sess,
					IsAdmin: admin,
				})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
