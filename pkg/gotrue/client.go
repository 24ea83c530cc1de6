package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const basePath = "/auth/v1"

// Client calls the hosted auth API. It is safe for concurrent use and holds no
// per-user state; tokens are passed on every call.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

// New creates a Client from the given configuration.
func New(cfg *Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/") + basePath,
		apiKey:  cfg.AnonKey,
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		now:     time.Now,
	}
}

// SignInWithPassword exchanges an email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var s Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", payload, &s); err != nil {
		return nil, fmt.Errorf("password grant: %w", err)
	}
	s.normalize(c.now())
	return &s, nil
}

// RefreshSession exchanges a refresh token for a rotated session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	payload := map[string]string{"refresh_token": refreshToken}

	var s Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", payload, &s); err != nil {
		return nil, fmt.Errorf("refresh grant: %w", err)
	}
	s.normalize(c.now())
	return &s, nil
}

// GetUser returns the user that owns accessToken. This is the authoritative
// check: the provider rejects revoked or expired tokens.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	var u User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &u); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// SignOut revokes the refresh tokens issued for accessToken's session.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrMissingToken
	}
	if err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload, v any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, data)
	}

	if v == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
