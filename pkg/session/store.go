package session

import (
	"net/http"
	"net/url"
	"strings"
)

// Store is the cookie access strategy a Client reads and writes through.
type Store interface {
	// GetAll returns the cookies currently visible to the caller.
	GetAll() []*http.Cookie
	// SetAll persists cookies back to the client. Strategies that cannot
	// write drop them.
	SetAll(cookies []*http.Cookie)
	// Writable reports whether SetAll reaches the client.
	Writable() bool
}

// RequestStore reads cookies from an incoming request and cannot write.
// A session refreshed through it is usable for the current call only.
type RequestStore struct {
	r *http.Request
}

// NewRequestStore creates a read-only Store over r.
func NewRequestStore(r *http.Request) *RequestStore {
	return &RequestStore{r: r}
}

func (s *RequestStore) GetAll() []*http.Cookie {
	return s.r.Cookies()
}

func (s *RequestStore) SetAll([]*http.Cookie) {}

func (s *RequestStore) Writable() bool {
	return false
}

// ResponseStore reads cookies from the request, overlaid with anything written
// during the request, and writes Set-Cookie headers onto the response.
// Writing a cookie name twice replaces the earlier header.
type ResponseStore struct {
	w       http.ResponseWriter
	r       *http.Request
	pending map[string]*http.Cookie
	order   []string
}

// NewResponseStore creates a read-write Store bound to w and r. Writes must
// happen before the response header is flushed.
func NewResponseStore(w http.ResponseWriter, r *http.Request) *ResponseStore {
	return &ResponseStore{
		w:       w,
		r:       r,
		pending: make(map[string]*http.Cookie),
	}
}

func (s *ResponseStore) GetAll() []*http.Cookie {
	seen := make(map[string]bool)
	cookies := make([]*http.Cookie, 0)

	for _, c := range s.r.Cookies() {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		if p, ok := s.pending[c.Name]; ok {
			if p.MaxAge >= 0 {
				cookies = append(cookies, &http.Cookie{Name: p.Name, Value: p.Value})
			}
			continue
		}
		cookies = append(cookies, c)
	}

	for _, name := range s.order {
		if seen[name] {
			continue
		}
		if p := s.pending[name]; p.MaxAge >= 0 {
			cookies = append(cookies, &http.Cookie{Name: p.Name, Value: p.Value})
		}
	}
	return cookies
}

func (s *ResponseStore) SetAll(cookies []*http.Cookie) {
	for _, c := range cookies {
		if _, ok := s.pending[c.Name]; !ok {
			s.order = append(s.order, c.Name)
		}
		s.pending[c.Name] = c
	}
	s.flush()
}

func (s *ResponseStore) Writable() bool {
	return true
}

func (s *ResponseStore) flush() {
	header := s.w.Header()
	kept := make([]string, 0, len(header["Set-Cookie"]))
	for _, line := range header["Set-Cookie"] {
		name, _, _ := strings.Cut(line, "=")
		if _, ok := s.pending[strings.TrimSpace(name)]; ok {
			continue
		}
		kept = append(kept, line)
	}
	header["Set-Cookie"] = kept

	for _, name := range s.order {
		http.SetCookie(s.w, s.pending[name])
	}
}

// JarStore holds cookies in an http.CookieJar for a fixed origin, the way a
// browser holds them for a page. Out-of-process callers use it to drive the
// service with a real cookie session.
type JarStore struct {
	jar http.CookieJar
	u   *url.URL
}

// NewJarStore creates a Store over jar scoped to u.
func NewJarStore(jar http.CookieJar, u *url.URL) *JarStore {
	return &JarStore{jar: jar, u: u}
}

func (s *JarStore) GetAll() []*http.Cookie {
	return s.jar.Cookies(s.u)
}

func (s *JarStore) SetAll(cookies []*http.Cookie) {
	s.jar.SetCookies(s.u, cookies)
}

func (s *JarStore) Writable() bool {
	return true
}
