// Package auth gates every non-public request behind an administrator
// session and serves the endpoints that establish, inspect, and end sessions.
package auth

import "strings"

// Well-known paths the gateway redirects between.
const (
	LoginPath         = "/login"
	HomePath          = "/"
	NotAuthorizedPath = "/not-authorized"
	AuthPrefix        = "/auth"
)

// Decision is the gateway's verdict for one request. An empty Redirect allows
// the request through.
type Decision struct {
	Redirect string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Exempt reports whether path is served without resolving a session. The
// session endpoints must stay reachable before sign-in.
func Exempt(path string) bool {
	return underPrefix(path, AuthPrefix)
}

// NeedsAdminCheck reports whether an authenticated request to path must be
// confirmed against the admin flag before Decide can allow it.
func NeedsAdminCheck(path string) bool {
	return !underPrefix(path, LoginPath) && path != NotAuthorizedPath
}

// Decide applies the access policy to a request for path.
//
//   - /auth/* is always allowed
//   - unauthenticated requests to /login are allowed, all others go to /login
//   - authenticated requests to /login go to /
//   - /not-authorized is allowed for any authenticated user
//   - everything else requires admin, otherwise /not-authorized
func Decide(path string, authenticated, admin bool) Decision {
	switch {
	case Exempt(path):
		return Decision{}
	case underPrefix(path, LoginPath):
		if authenticated {
			return Decision{Redirect: HomePath}
		}
		return Decision{}
	case !authenticated:
		return Decision{Redirect: LoginPath}
	case path == NotAuthorizedPath:
		return Decision{}
	case !admin:
		return Decision{Redirect: NotAuthorizedPath}
	}
	return Decision{}
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
