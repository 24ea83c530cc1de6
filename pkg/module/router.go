package module

import (
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/umai/pkg/routes"
)

// Router dispatches requests to mounted modules by first path segment,
// falling back to a native ServeMux for everything else.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

// NewRouter creates a Router with no modules and an empty native mux.
func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// HandleNative registers a handler on the native mux.
func (r *Router) HandleNative(pattern string, handler http.Handler) {
	r.native.Handle(pattern, handler)
}

// Register adds route groups to the native mux.
func (r *Router) Register(groups ...routes.Group) {
	routes.Register(r.native, groups...)
}

// Mount registers a module to handle requests under its prefix.
// Mounting a second module at the same prefix replaces the first.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

// Prefixes returns the mounted module prefixes, sorted.
func (r *Router) Prefixes() []string {
	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ServeHTTP dispatches to the matching module or falls back to the native mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, trimTrailingSlash(req))
		return
	}
	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}

func trimTrailingSlash(req *http.Request) *http.Request {
	path := req.URL.Path
	if len(path) <= 1 || !strings.HasSuffix(path, "/") {
		return req
	}
	r := stripPrefix(req, "")
	r.URL.Path = strings.TrimSuffix(path, "/")
	return r
}
