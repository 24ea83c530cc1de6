package session

import (
	"context"

	"github.com/JaimeStill/umai/pkg/gotrue"
)

type contextKey struct{}

// Identity is the authenticated principal resolved for a request.
type Identity struct {
	User    *gotrue.User
	Session *gotrue.Session
	IsAdmin bool
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil && id.User != nil
}
