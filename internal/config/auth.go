package config

import (
	"fmt"

	"github.com/JaimeStill/umai/pkg/gotrue"
	"github.com/JaimeStill/umai/pkg/session"
)

var providerEnv = &gotrue.Env{
	URL:     "UMAI_AUTH_URL",
	AnonKey: "UMAI_AUTH_ANON_KEY",
	Timeout: "UMAI_AUTH_TIMEOUT",
}

var sessionEnv = &session.Env{
	CookieName:    "UMAI_SESSION_COOKIE_NAME",
	Domain:        "UMAI_SESSION_DOMAIN",
	SameSite:      "UMAI_SESSION_SAME_SITE",
	Secure:        "UMAI_SESSION_SECURE",
	HTTPOnly:      "UMAI_SESSION_HTTP_ONLY",
	RefreshMargin: "UMAI_SESSION_REFRESH_MARGIN",
	JWTSecret:     "UMAI_AUTH_JWT_SECRET",
}

// AuthConfig holds the hosted auth API connection and the session cookie policy.
type AuthConfig struct {
	Provider gotrue.Config  `toml:"provider"`
	Session  session.Config `toml:"session"`
}

// Finalize finalizes the provider and session sections.
func (c *AuthConfig) Finalize() error {
	if err := c.Provider.Finalize(providerEnv); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := c.Session.Finalize(sessionEnv); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Provider.Merge(&overlay.Provider)
	c.Session.Merge(&overlay.Session)
}
