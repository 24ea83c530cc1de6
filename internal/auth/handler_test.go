package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/umai/internal/auth"
	"github.com/JaimeStill/umai/pkg/routes"
)

func authMux(f *fixture) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, auth.NewHandler(f.sessions, discard()).Routes())
	return mux
}

func TestSetSession(t *testing.T) {
	f := setup(t)
	mux := authMux(f)

	revoked := f.srv.Issue(adminEmail)
	f.srv.ExpireAccess(revoked.AccessToken)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"invalid json", `{"access_token":`, http.StatusBadRequest, auth.MsgInvalidJSON},
		{"missing refresh token", `{"access_token":"a"}`, http.StatusBadRequest, auth.MsgMissingTokens},
		{"empty tokens", `{"access_token":"","refresh_token":""}`, http.StatusBadRequest, auth.MsgMissingTokens},
		{
			"rejected by provider",
			`{"access_token":"` + revoked.AccessToken + `","refresh_token":"` + revoked.RefreshToken + `"}`,
			http.StatusUnauthorized,
			"invalid JWT: unable to parse or verify signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookups := f.srv.Lookups()
			req := httptest.NewRequest(http.MethodPost, "/set-session", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Error("failed exchange wrote cookies")
			}
			if tt.wantStatus == http.StatusBadRequest && f.srv.Lookups() != lookups {
				t.Error("validation failure contacted the auth API")
			}
		})
	}

	t.Run("valid tokens", func(t *testing.T) {
		s := f.srv.Issue(adminEmail)
		body := `{"access_token":"` + s.AccessToken + `","refresh_token":"` + s.RefreshToken + `"}`
		req := httptest.NewRequest(http.MethodPost, "/set-session", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"ok":true}` {
			t.Errorf("body = %s", got)
		}

		c := sessionCookie(rec, f.sessions.CookieName())
		if c == nil || !strings.HasPrefix(c.Value, "base64-") {
			t.Fatalf("session cookie = %+v", c)
		}
		if !c.HttpOnly || c.Path != "/" {
			t.Errorf("cookie attributes: HttpOnly=%v Path=%q", c.HttpOnly, c.Path)
		}
	})
}

func TestWhoAmI(t *testing.T) {
	f := setup(t)
	mux := authMux(f)

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body
	}

	t.Run("no session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, f.request(t, http.MethodGet, "/whoami", nil))

		body := decode(t, rec)
		if rec.Code != http.StatusOK || body["hasSession"] != false || body["user"] != nil || body["error"] != nil {
			t.Errorf("status = %d, body = %v", rec.Code, body)
		}
		if names, ok := body["cookieNames"].([]any); !ok || len(names) != 0 {
			t.Errorf("cookieNames = %v, want []", body["cookieNames"])
		}
	})

	t.Run("valid session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, f.request(t, http.MethodGet, "/whoami", f.srv.Issue(adminEmail)))

		body := decode(t, rec)
		if body["hasSession"] != true {
			t.Fatalf("body = %v", body)
		}
		user, _ := body["user"].(map[string]any)
		if user["id"] != f.adminID || user["email"] != adminEmail {
			t.Errorf("user = %v", user)
		}
		names, _ := body["cookieNames"].([]any)
		if len(names) != 1 || names[0] != f.sessions.CookieName() {
			t.Errorf("cookieNames = %v", names)
		}
	})

	t.Run("never writes cookies", func(t *testing.T) {
		shortLived(f.srv)
		t.Cleanup(func() { f.srv.TTL = time.Hour })

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, f.request(t, http.MethodGet, "/whoami", f.srv.Issue(adminEmail)))

		if len(rec.Result().Cookies()) != 0 {
			t.Errorf("whoami wrote cookies: %v", rec.Result().Cookies())
		}
	})
}

func login(mux http.Handler, email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	f := setup(t)
	mux := authMux(f)

	t.Run("success", func(t *testing.T) {
		rec := login(mux, adminEmail, password)

		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
			t.Errorf("status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
		}
		if sessionCookie(rec, f.sessions.CookieName()) == nil {
			t.Error("session cookie not written")
		}
	})

	t.Run("bad password", func(t *testing.T) {
		rec := login(mux, adminEmail, "wrong")

		loc, err := url.Parse(rec.Header().Get("Location"))
		if err != nil {
			t.Fatalf("parse location: %v", err)
		}
		if loc.Path != "/login" {
			t.Errorf("path = %q, want /login", loc.Path)
		}
		if got := loc.Query().Get("error"); got != "Invalid login credentials" {
			t.Errorf("error = %q", got)
		}
		if got := loc.Query().Get("email"); got != adminEmail {
			t.Errorf("email = %q", got)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("failed login wrote cookies")
		}
	})
}

func TestLogout(t *testing.T) {
	f := setup(t)
	mux := authMux(f)
	s := f.srv.Issue(adminEmail)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, f.request(t, http.MethodPost, "/logout", s))

	if rec.Header().Get("Location") != "/login" {
		t.Errorf("Location = %q, want /login", rec.Header().Get("Location"))
	}
	c := sessionCookie(rec, f.sessions.CookieName())
	if c == nil || c.MaxAge >= 0 {
		t.Errorf("session cookie not expired: %+v", c)
	}
}
