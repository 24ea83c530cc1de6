package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/umai/pkg/gotrue"
	"github.com/JaimeStill/umai/pkg/gotrue/gotruetest"
	"github.com/JaimeStill/umai/pkg/session"
)

const (
	adminEmail = "curator@umai.test"
	staffEmail = "intern@umai.test"
	password   = "archive-everything"
)

type fixture struct {
	srv      *gotruetest.Server
	sessions *session.Factory
	adminID  string
	staffID  string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	srv := gotruetest.NewServer()
	t.Cleanup(srv.Close)

	cfg := &session.Config{JWTSecret: gotruetest.JWTSecret}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	return &fixture{
		srv:      srv,
		sessions: session.NewFactory(gotrue.New(srv.Config()), cfg, "test"),
		adminID:  srv.AddUser(adminEmail, password),
		staffID:  srv.AddUser(staffEmail, password),
	}
}

// request builds a request carrying the session cookies for s.
func (f *fixture) request(t *testing.T, method, target string, s *gotrue.Session) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if s == nil {
		return req
	}
	cookies, err := f.sessions.Cookies(s)
	if err != nil {
		t.Fatalf("cookies: %v", err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

type authorizer struct {
	admins map[string]bool
	err    error
	calls  int
}

func (a *authorizer) IsAdmin(_ context.Context, userID string) (bool, error) {
	a.calls++
	if a.err != nil {
		return false, a.err
	}
	return a.admins[userID], nil
}

var errLookup = errors.New("profiles unavailable")

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func shortLived(srv *gotruetest.Server) {
	srv.TTL = 30 * time.Second
}
