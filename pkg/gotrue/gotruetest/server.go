// Package gotruetest provides an in-process auth API for tests. It implements
// the password and refresh grants, user lookup, and logout with HS256-signed
// access tokens, and exposes counters so tests can assert how often tokens
// were rotated.
package gotruetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/JaimeStill/umai/pkg/gotrue"
)

const (
	// AnonKey is the public key the server requires in the apikey header.
	AnonKey = "test-anon-key"
	// JWTSecret signs every access token the server issues.
	JWTSecret = "test-jwt-secret"
)

type account struct {
	id       string
	email    string
	password string
}

type grant struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

// Server is a fake auth API backed by httptest.Server.
type Server struct {
	*httptest.Server

	TTL time.Duration
	Now func() time.Time

	mu        sync.Mutex
	accounts  map[string]*account
	access    map[string]*grant
	refresh   map[string]string
	refreshes int
	lookups   int
}

// NewServer starts a Server with a one hour token TTL.
func NewServer() *Server {
	s := &Server{
		TTL:      time.Hour,
		Now:      time.Now,
		accounts: make(map[string]*account),
		access:   make(map[string]*grant),
		refresh:  make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", s.token)
	mux.HandleFunc("GET /auth/v1/user", s.user)
	mux.HandleFunc("POST /auth/v1/logout", s.logout)

	s.Server = httptest.NewServer(s.requireKey(mux))
	return s
}

// Config returns a client configuration pointing at the server.
func (s *Server) Config() *gotrue.Config {
	return &gotrue.Config{
		URL:     s.URL,
		AnonKey: AnonKey,
		Timeout: "5s",
	}
}

// AddUser registers an account and returns its generated id.
func (s *Server) AddUser(email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.accounts[email] = &account{id: id, email: email, password: password}
	return id
}

// Issue mints a session for email as if the password grant had succeeded.
func (s *Server) Issue(email string) *gotrue.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok {
		return nil
	}
	return s.issue(acct)
}

// ExpireAccess marks an access token as expired without revoking its refresh token.
func (s *Server) ExpireAccess(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.access[accessToken]; ok {
		g.expiresAt = s.Now().Add(-time.Minute)
	}
}

// Refreshes returns how many refresh grants succeeded.
func (s *Server) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes
}

// Lookups returns how many user lookups were served.
func (s *Server) Lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != AnonKey {
			writeError(w, http.StatusUnauthorized, "no_api_key", "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "Could not parse request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Query().Get("grant_type") {
	case "password":
		acct, ok := s.accounts[body.Email]
		if !ok || acct.password != body.Password {
			writeError(w, http.StatusBadRequest, "invalid_credentials", "Invalid login credentials")
			return
		}
		writeJSON(w, http.StatusOK, s.issue(acct))
	case "refresh_token":
		userID, ok := s.refresh[body.RefreshToken]
		if !ok {
			writeError(w, http.StatusBadRequest, "refresh_token_not_found", "Invalid Refresh Token: Refresh Token Not Found")
			return
		}
		delete(s.refresh, body.RefreshToken)
		s.refreshes++
		writeJSON(w, http.StatusOK, s.issue(s.byID(userID)))
	default:
		writeError(w, http.StatusBadRequest, "unsupported_grant_type", "unsupported grant type")
	}
}

func (s *Server) user(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.bearer(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "bad_jwt", "invalid JWT: unable to parse or verify signature")
		return
	}

	s.lookups++
	acct := s.byID(g.userID)
	writeJSON(w, http.StatusOK, gotrue.User{ID: acct.id, Email: acct.email, Role: "authenticated"})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.bearer(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "bad_jwt", "invalid JWT: unable to parse or verify signature")
		return
	}

	g.revoked = true
	for token, userID := range s.refresh {
		if userID == g.userID {
			delete(s.refresh, token)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bearer(r *http.Request) (*grant, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) {
		return nil, false
	}
	g, ok := s.access[header[len(prefix):]]
	if !ok || g.revoked || !s.Now().Before(g.expiresAt) {
		return nil, false
	}
	return g, true
}

func (s *Server) byID(id string) *account {
	for _, acct := range s.accounts {
		if acct.id == id {
			return acct
		}
	}
	return nil
}

func (s *Server) issue(acct *account) *gotrue.Session {
	now := s.Now()
	exp := now.Add(s.TTL)

	claims := jwt.MapClaims{
		"sub":   acct.id,
		"email": acct.email,
		"role":  "authenticated",
		"aud":   "authenticated",
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.NewString(),
	}
	access, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	refresh := uuid.NewString()

	s.access[access] = &grant{userID: acct.id, expiresAt: exp}
	s.refresh[refresh] = acct.id

	return &gotrue.Session{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.TTL.Seconds()),
		ExpiresAt:    exp.Unix(),
		RefreshToken: refresh,
		User:         &gotrue.User{ID: acct.id, Email: acct.email, Role: "authenticated"},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error_code": code, "msg": msg})
}
