package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/umai/pkg/middleware"
	"github.com/JaimeStill/umai/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "UMAI_CORS_ENABLED",
	Origins:          "UMAI_CORS_ORIGINS",
	AllowedMethods:   "UMAI_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "UMAI_CORS_ALLOWED_HEADERS",
	AllowCredentials: "UMAI_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "UMAI_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "UMAI_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "UMAI_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds JSON API routing, request limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes. Accepts humanized sizes
// such as "64KiB" or "1 MB".
func (c *APIConfig) MaxBodySizeBytes() int64 {
	n, _ := humanize.ParseBytes(c.MaxBodySize)
	return int64(n)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MiB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("UMAI_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("UMAI_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path: %q", c.BasePath)
	}
	n, err := humanize.ParseBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("max_body_size must be positive")
	}
	return nil
}
