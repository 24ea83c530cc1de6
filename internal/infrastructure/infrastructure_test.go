package infrastructure_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JaimeStill/umai/internal/config"
	"github.com/JaimeStill/umai/internal/infrastructure"
	"github.com/JaimeStill/umai/pkg/database"
	"github.com/JaimeStill/umai/pkg/gotrue"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		LogLevel: "debug",
		Database: database.Config{Name: "umai", User: "umai"},
		Auth: config.AuthConfig{
			Provider: gotrue.Config{URL: "https://wxyz.supabase.co", AnonKey: "anon"},
		},
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return cfg
}

func TestNew(t *testing.T) {
	var logs bytes.Buffer
	infra, err := infrastructure.New(validConfig(t), &logs)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Database == nil || infra.Auth == nil || infra.Sessions == nil {
		t.Fatalf("infrastructure incomplete: %+v", infra)
	}
	if got := infra.Sessions.CookieName(); got != "sb-wxyz-auth-token" {
		t.Errorf("cookie name = %q", got)
	}
	if !strings.Contains(logs.String(), "session cookie configured") {
		t.Errorf("debug log missing: %q", logs.String())
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var logs bytes.Buffer
	cfg := validConfig(t)
	cfg.LogLevel = "warn"

	logger := infrastructure.NewLogger(&logs, cfg.Level())
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(logs.String(), "hidden") {
		t.Error("info record should be filtered at warn")
	}
	if !strings.Contains(logs.String(), "shown") {
		t.Error("warn record missing")
	}
}
