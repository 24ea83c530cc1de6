package routes

import (
	"net/http"
	"slices"
)

// Group organizes routes under a common prefix. Children inherit the prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, h)
	})
}

// Patterns returns the "METHOD /path" pattern of every route in groups, sorted.
func Patterns(groups ...Group) []string {
	var out []string
	walk(groups, func(pattern string, _ http.HandlerFunc) {
		out = append(out, pattern)
	})
	slices.Sort(out)
	return out
}

func walk(groups []Group, fn func(pattern string, h http.HandlerFunc)) {
	for _, g := range groups {
		walkGroup("", g, fn)
	}
}

func walkGroup(parent string, g Group, fn func(pattern string, h http.HandlerFunc)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		fn(r.pattern(prefix), r.Handler)
	}
	for _, child := range g.Children {
		walkGroup(prefix, child, fn)
	}
}
