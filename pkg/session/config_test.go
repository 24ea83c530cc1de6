package session_test

import (
	"net/http"
	"testing"

	"github.com/JaimeStill/umai/pkg/session"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &session.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	opts := cfg.Options()
	if opts.Path != "/" {
		t.Errorf("path = %q", opts.Path)
	}
	if opts.SameSite != http.SameSiteLaxMode {
		t.Errorf("same_site = %v", opts.SameSite)
	}
	if opts.Secure {
		t.Error("secure should default to false")
	}
	if !opts.HTTPOnly {
		t.Error("http_only should default to true")
	}
	if opts.MaxAge != 400*24*60*60 {
		t.Errorf("max_age = %d", opts.MaxAge)
	}
	if cfg.RefreshMarginDuration().Seconds() != 90 {
		t.Errorf("refresh margin = %v", cfg.RefreshMarginDuration())
	}
}

func TestConfigEnv(t *testing.T) {
	env := &session.Env{
		CookieName: "TEST_SESSION_COOKIE",
		Secure:     "TEST_SESSION_SECURE",
		SameSite:   "TEST_SESSION_SAME_SITE",
	}
	t.Setenv("TEST_SESSION_COOKIE", "custom")
	t.Setenv("TEST_SESSION_SECURE", "true")
	t.Setenv("TEST_SESSION_SAME_SITE", "none")

	cfg := &session.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.CookieName != "custom" {
		t.Errorf("cookie_name = %q", cfg.CookieName)
	}
	opts := cfg.Options()
	if !opts.Secure || opts.SameSite != http.SameSiteNoneMode {
		t.Errorf("options = %+v", opts)
	}
}

func TestConfigValidate(t *testing.T) {
	insecure := false

	tests := []struct {
		name string
		cfg  session.Config
	}{
		{"bad same_site", session.Config{SameSite: "sideways"}},
		{"none without secure", session.Config{SameSite: "none", Secure: &insecure}},
		{"negative max_age", session.Config{MaxAge: -5}},
		{"bad margin", session.Config{RefreshMargin: "soon"}},
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
	secure := true
	base := &session.Config{CookieName: "a", SameSite: "lax"}
	base.Merge(&session.Config{CookieName: "b", Secure: &secure})

	if base.CookieName != "b" || base.SameSite != "lax" || base.Secure == nil || !*base.Secure {
		t.Errorf("merged = %+v", base)
	}
}
