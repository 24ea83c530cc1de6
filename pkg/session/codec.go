package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/umai/pkg/gotrue"
)

const (
	// maxChunkSize keeps each cookie under common per-cookie browser limits
	// once attributes are added.
	maxChunkSize = 3180
	maxChunks    = 64
	base64Prefix = "base64-"
)

func encodeSession(s *gotrue.Session) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return base64Prefix + base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeSession(value string) (*gotrue.Session, error) {
	data := []byte(value)
	if raw, ok := strings.CutPrefix(value, base64Prefix); ok {
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
		if err != nil {
			return nil, fmt.Errorf("decode session cookie: %w", err)
		}
		data = decoded
	}

	var s gotrue.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session cookie: %w", err)
	}
	if s.AccessToken == "" || s.RefreshToken == "" {
		return nil, fmt.Errorf("session cookie missing tokens")
	}
	return &s, nil
}

// chunkName returns the cookie name of chunk i.
func chunkName(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}

// split returns the cookies that carry value under name. Values that fit in
// one cookie use the bare name; longer values use name.0, name.1, ...
func split(name, value string, opts CookieOptions) []*http.Cookie {
	if len(value) <= maxChunkSize {
		return []*http.Cookie{opts.Cookie(name, value)}
	}

	cookies := make([]*http.Cookie, 0, len(value)/maxChunkSize+1)
	for i := 0; len(value) > 0; i++ {
		n := min(maxChunkSize, len(value))
		cookies = append(cookies, opts.Cookie(chunkName(name, i), value[:n]))
		value = value[n:]
	}
	return cookies
}

// join reassembles the value stored under name from cookies. The bare name
// takes precedence over chunks.
func join(name string, cookies []*http.Cookie) (string, bool) {
	byName := make(map[string]string, len(cookies))
	for _, c := range cookies {
		byName[c.Name] = c.Value
	}

	if v, ok := byName[name]; ok && v != "" {
		return v, true
	}

	var b strings.Builder
	for i := range maxChunks {
		v, ok := byName[chunkName(name, i)]
		if !ok {
			break
		}
		b.WriteString(v)
	}

	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// owned reports whether cookieName is name or one of its chunks.
func owned(name, cookieName string) bool {
	if cookieName == name {
		return true
	}
	suffix, ok := strings.CutPrefix(cookieName, name+".")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(suffix)
	return err == nil
}

// replace returns the writes that move the client from existing to next:
// every cookie in next plus an expiry for each stale cookie owned by name.
func replace(name string, existing, next []*http.Cookie, opts CookieOptions) []*http.Cookie {
	keep := make(map[string]bool, len(next))
	for _, c := range next {
		keep[c.Name] = true
	}

	writes := append([]*http.Cookie{}, next...)
	for _, c := range existing {
		if owned(name, c.Name) && !keep[c.Name] {
			writes = append(writes, opts.Expired(c.Name))
			keep[c.Name] = true
		}
	}
	return writes
}
