package database_test

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/umai/pkg/database"
	"github.com/JaimeStill/umai/pkg/lifecycle"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigDsn(t *testing.T) {
	cfg := database.Config{Name: "umai", User: "umai", Password: "p@ss word"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	dsn := cfg.Dsn()
	for _, want := range []string{"postgres://", "localhost:5432", "/umai?", "sslmode=disable", "application_name=umai-admin"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
	if strings.Contains(dsn, "p@ss word") {
		t.Errorf("password not escaped in %q", dsn)
	}
}

func TestConfigURLOverride(t *testing.T) {
	t.Setenv("TEST_DB_URL", "postgres://x:y@db.internal:6543/umai")

	var cfg database.Config
	if err := cfg.Finalize(&database.Env{URL: "TEST_DB_URL"}); err != nil {
		t.Fatalf("url config should not require name/user: %v", err)
	}
	if cfg.Dsn() != "postgres://x:y@db.internal:6543/umai" {
		t.Errorf("dsn = %q", cfg.Dsn())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"missing name", database.Config{User: "u"}},
		{"missing user", database.Config{Name: "n"}},
		{"bad lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "forever"}},
		{"bad timeout", database.Config{Name: "n", User: "u", ConnTimeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Name: "umai"}
	base.Merge(&database.Config{Host: "db", MaxOpenConns: 4})

	if base.Host != "db" || base.Name != "umai" || base.MaxOpenConns != 4 {
		t.Errorf("merged = %+v", base)
	}
}

func TestStartFailsWhenUnreachable(t *testing.T) {
	cfg := database.Config{
		Host:        "127.0.0.1",
		Port:        1,
		Name:        "umai",
		User:        "umai",
		ConnTimeout: "500ms",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatal(err)
	}

	err = lc.WaitForStartup()
	if !errors.Is(err, database.ErrNotReady) {
		t.Errorf("startup err = %v, want ErrNotReady", err)
	}
	if sys.Ready() || lc.Ready() {
		t.Error("unreachable database must not be ready")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
