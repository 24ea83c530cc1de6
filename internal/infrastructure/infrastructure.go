// Package infrastructure assembles the process-wide dependencies domain
// systems require: lifecycle coordination, logging, the database pool, the
// auth API client, and the session factory. Each is constructed once and
// passed explicitly.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/umai/internal/config"
	"github.com/JaimeStill/umai/pkg/database"
	"github.com/JaimeStill/umai/pkg/gotrue"
	"github.com/JaimeStill/umai/pkg/lifecycle"
	"github.com/JaimeStill/umai/pkg/session"
)

// Infrastructure holds the core systems shared by every module.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Auth      *gotrue.Client
	Sessions  *session.Factory
}

// NewLogger creates a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// New creates an Infrastructure from a finalized configuration. Systems are
// constructed but not started; call Start separately.
func New(cfg *config.Config, logOut io.Writer) (*Infrastructure, error) {
	logger := NewLogger(logOut, cfg.Level())

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	auth := gotrue.New(&cfg.Auth.Provider)
	sessions := session.NewFactory(auth, &cfg.Auth.Session, cfg.Auth.Provider.ProjectRef())

	logger.Debug("session cookie configured", "name", sessions.CookieName())

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Auth:      auth,
		Sessions:  sessions,
	}, nil
}

// Start registers infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
