package session

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultMaxAge matches the provider's browser default of 400 days.
const defaultMaxAge = 400 * 24 * 60 * 60

// CookieOptions enumerates the attributes applied to every session cookie.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	Expires  time.Time
	SameSite http.SameSite
	Secure   bool
	HTTPOnly bool
}

// Cookie builds an http.Cookie carrying name and value with these options.
func (o CookieOptions) Cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Expires:  o.Expires,
		SameSite: o.SameSite,
		Secure:   o.Secure,
		HttpOnly: o.HTTPOnly,
	}
}

// Expired builds a cookie that instructs the client to delete name.
func (o CookieOptions) Expired(name string) *http.Cookie {
	c := o.Cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Time{}
	return c
}

// Config holds session cookie policy and refresh behavior.
type Config struct {
	CookieName    string `toml:"cookie_name"`
	Path          string `toml:"path"`
	Domain        string `toml:"domain"`
	MaxAge        int    `toml:"max_age"`
	SameSite      string `toml:"same_site"`
	Secure        *bool  `toml:"secure"`
	HTTPOnly      *bool  `toml:"http_only"`
	RefreshMargin string `toml:"refresh_margin"`
	JWTSecret     string `toml:"jwt_secret"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CookieName    string
	Domain        string
	SameSite      string
	Secure        string
	HTTPOnly      string
	RefreshMargin string
	JWTSecret     string
}

// Options returns the closed cookie option set derived from the config.
func (c *Config) Options() CookieOptions {
	opts := CookieOptions{
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   c.MaxAge,
		SameSite: parseSameSite(c.SameSite),
	}
	if c.Secure != nil {
		opts.Secure = *c.Secure
	}
	if c.HTTPOnly != nil {
		opts.HTTPOnly = *c.HTTPOnly
	}
	return opts
}

// RefreshMarginDuration returns RefreshMargin as a time.Duration.
func (c *Config) RefreshMarginDuration() time.Duration {
	d, _ := time.ParseDuration(c.RefreshMargin)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Pointer booleans apply when set.
func (c *Config) Merge(overlay *Config) {
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Domain != "" {
		c.Domain = overlay.Domain
	}
	if overlay.MaxAge != 0 {
		c.MaxAge = overlay.MaxAge
	}
	if overlay.SameSite != "" {
		c.SameSite = overlay.SameSite
	}
	if overlay.Secure != nil {
		c.Secure = overlay.Secure
	}
	if overlay.HTTPOnly != nil {
		c.HTTPOnly = overlay.HTTPOnly
	}
	if overlay.RefreshMargin != "" {
		c.RefreshMargin = overlay.RefreshMargin
	}
	if overlay.JWTSecret != "" {
		c.JWTSecret = overlay.JWTSecret
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = "/"
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaultMaxAge
	}
	if c.SameSite == "" {
		c.SameSite = "lax"
	}
	if c.Secure == nil {
		secure := false
		c.Secure = &secure
	}
	if c.HTTPOnly == nil {
		httpOnly := true
		c.HTTPOnly = &httpOnly
	}
	if c.RefreshMargin == "" {
		c.RefreshMargin = "90s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.CookieName != "" {
		if v := os.Getenv(env.CookieName); v != "" {
			c.CookieName = v
		}
	}
	if env.Domain != "" {
		if v := os.Getenv(env.Domain); v != "" {
			c.Domain = v
		}
	}
	if env.SameSite != "" {
		if v := os.Getenv(env.SameSite); v != "" {
			c.SameSite = v
		}
	}
	if env.Secure != "" {
		if v := os.Getenv(env.Secure); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Secure = &b
			}
		}
	}
	if env.HTTPOnly != "" {
		if v := os.Getenv(env.HTTPOnly); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.HTTPOnly = &b
			}
		}
	}
	if env.RefreshMargin != "" {
		if v := os.Getenv(env.RefreshMargin); v != "" {
			c.RefreshMargin = v
		}
	}
	if env.JWTSecret != "" {
		if v := os.Getenv(env.JWTSecret); v != "" {
			c.JWTSecret = v
		}
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.SameSite) {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("invalid same_site: %q", c.SameSite)
	}
	if strings.EqualFold(c.SameSite, "none") && !*c.Secure {
		return fmt.Errorf("same_site none requires secure cookies")
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("max_age must not be negative")
	}
	if _, err := time.ParseDuration(c.RefreshMargin); err != nil {
		return fmt.Errorf("invalid refresh_margin: %w", err)
	}
	return nil
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
