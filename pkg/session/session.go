// Package session binds the hosted auth API to browser cookies. A Factory
// builds request-scoped Clients over one of three cookie strategies; a Client
// resolves, refreshes, establishes, and clears the cookie session through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JaimeStill/umai/pkg/gotrue"
)

// Factory constructs Clients that share one auth API client and cookie policy.
type Factory struct {
	auth   *gotrue.Client
	name   string
	opts   CookieOptions
	margin time.Duration
	secret []byte
	now    func() time.Time
}

// NewFactory creates a Factory. When cfg.CookieName is empty the cookie is
// named after projectRef the way the hosted provider's SDKs name it.
func NewFactory(auth *gotrue.Client, cfg *Config, projectRef string) *Factory {
	name := cfg.CookieName
	if name == "" {
		name = fmt.Sprintf("sb-%s-auth-token", projectRef)
	}

	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}

	return &Factory{
		auth:   auth,
		name:   name,
		opts:   cfg.Options(),
		margin: cfg.RefreshMarginDuration(),
		secret: secret,
		now:    time.Now,
	}
}

// CookieName returns the base name of the session cookie.
func (f *Factory) CookieName() string {
	return f.name
}

// Cookies returns the cookies that carry s under this factory's policy.
func (f *Factory) Cookies(s *gotrue.Session) ([]*http.Cookie, error) {
	value, err := encodeSession(s)
	if err != nil {
		return nil, err
	}
	return split(f.name, value, f.opts), nil
}

// Browser returns a Client over cookies held in jar for u.
func (f *Factory) Browser(jar http.CookieJar, u *url.URL) *Client {
	return f.client(NewJarStore(jar, u))
}

// ReadOnly returns a Client that reads r's cookies and never writes.
// Suitable for pure reads; a token refreshed through it is not persisted.
func (f *Factory) ReadOnly(r *http.Request) *Client {
	return f.client(NewRequestStore(r))
}

// ReadWrite returns a Client that reads r's cookies and writes rotations to w.
// Required for any flow that may refresh or establish a session.
func (f *Factory) ReadWrite(w http.ResponseWriter, r *http.Request) *Client {
	return f.client(NewResponseStore(w, r))
}

func (f *Factory) client(store Store) *Client {
	return &Client{factory: f, store: store}
}

// Client performs session operations for one caller over one Store.
type Client struct {
	factory *Factory
	store   Store
}

// Writable reports whether session rotations reach the client.
func (c *Client) Writable() bool {
	return c.store.Writable()
}

// CookieNames returns the names of every cookie visible through the store.
func (c *Client) CookieNames() []string {
	cookies := c.store.GetAll()
	names := make([]string, len(cookies))
	for i, ck := range cookies {
		names[i] = ck.Name
	}
	return names
}

// Session returns the stored session, refreshing it first when the access
// token expires within the refresh margin. Returns ErrNoSession when no
// decodable session cookie is present.
func (c *Client) Session(ctx context.Context) (*gotrue.Session, error) {
	s, err := c.load()
	if err != nil {
		return nil, err
	}

	if !s.ExpiresWithin(c.factory.now(), c.factory.margin) {
		return s, nil
	}

	rotated, err := c.factory.auth.RefreshSession(ctx, s.RefreshToken)
	if err != nil {
		var apiErr *gotrue.Error
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			c.clear()
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if rotated.User == nil {
		rotated.User = s.User
	}

	if err := c.save(rotated); err != nil {
		return nil, err
	}
	return rotated, nil
}

// User resolves the session and confirms it with the auth API.
func (c *Client) User(ctx context.Context) (*gotrue.User, *gotrue.Session, error) {
	s, err := c.Session(ctx)
	if err != nil {
		return nil, nil, err
	}

	u, err := c.factory.auth.GetUser(ctx, s.AccessToken)
	if err != nil {
		return nil, nil, err
	}
	return u, s, nil
}

// SetSession establishes a cookie session from a token pair issued to the
// browser. The pair is refreshed when the access token is already expired and
// confirmed with the auth API before any cookie is written.
func (c *Client) SetSession(ctx context.Context, accessToken, refreshToken string) (*gotrue.Session, error) {
	if accessToken == "" || refreshToken == "" {
		return nil, gotrue.ErrMissingToken
	}

	expiresAt, err := c.factory.expiry(accessToken)
	if err != nil {
		return nil, err
	}

	s := &gotrue.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
	}

	if s.ExpiresWithin(c.factory.now(), c.factory.margin) {
		s, err = c.factory.auth.RefreshSession(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
	}

	u, err := c.factory.auth.GetUser(ctx, s.AccessToken)
	if err != nil {
		return nil, err
	}
	s.User = u

	if err := c.save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SignInWithPassword performs the password grant and stores the session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*gotrue.Session, error) {
	s, err := c.factory.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SignOut revokes the session at the auth API and expires the cookies.
// Cookies are cleared even when revocation fails; the revocation error is returned.
func (c *Client) SignOut(ctx context.Context) error {
	s, err := c.load()
	defer c.clear()

	if err != nil {
		return nil
	}
	return c.factory.auth.SignOut(ctx, s.AccessToken)
}

func (c *Client) load() (*gotrue.Session, error) {
	value, ok := join(c.factory.name, c.store.GetAll())
	if !ok {
		return nil, ErrNoSession
	}

	s, err := decodeSession(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	if s.ExpiresAt == 0 {
		if exp, err := c.factory.expiry(s.AccessToken); err == nil {
			s.ExpiresAt = exp
		}
	}
	return s, nil
}

func (c *Client) save(s *gotrue.Session) error {
	next, err := c.factory.Cookies(s)
	if err != nil {
		return err
	}
	c.store.SetAll(replace(c.factory.name, c.store.GetAll(), next, c.factory.opts))
	return nil
}

func (c *Client) clear() {
	c.store.SetAll(replace(c.factory.name, c.store.GetAll(), nil, c.factory.opts))
}

// expiry reads the exp claim from an access token as unix seconds. The
// signature is verified when the factory holds the project's JWT secret;
// expiry itself is not enforced because an expired pair is still refreshable.
func (f *Factory) expiry(accessToken string) (int64, error) {
	var (
		token *jwt.Token
		err   error
	)

	if f.secret != nil {
		token, err = jwt.Parse(
			accessToken,
			func(t *jwt.Token) (any, error) { return f.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		)
	} else {
		token, _, err = jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	}
	if err != nil {
		return 0, fmt.Errorf("parse access token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, nil
	}
	return exp.Unix(), nil
}
