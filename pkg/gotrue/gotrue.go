// Package gotrue provides a client for the hosted auth API that issues and
// refreshes password-grant sessions. The wire format follows the GoTrue REST
// surface: /token, /user, and /logout beneath the /auth/v1 prefix.
package gotrue

import (
	"time"
)

// User is the subset of the auth provider's user record the service consumes.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	Aud          string         `json:"aud,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
}

// Session is an access/refresh token pair with its expiry.
// ExpiresAt is a unix timestamp in seconds.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Expiry returns ExpiresAt as a time.Time, or the zero time when unknown.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// ExpiresWithin reports whether the access token expires before now+margin.
// A session with unknown expiry is treated as expired.
func (s *Session) ExpiresWithin(now time.Time, margin time.Duration) bool {
	exp := s.Expiry()
	if exp.IsZero() {
		return true
	}
	return !now.Add(margin).Before(exp)
}

func (s *Session) normalize(now time.Time) {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = now.Unix() + s.ExpiresIn
	}
	if s.TokenType == "" {
		s.TokenType = "bearer"
	}
}
