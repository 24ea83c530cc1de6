// Package routes declares HTTP routes as data so domain handlers can describe
// their surface independently of where it is mounted.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Pattern uses
// http.ServeMux syntax and may be "" for the group root.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

func (r Route) pattern(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		path = "/"
	}
	if r.Method == "" {
		return path
	}
	return r.Method + " " + path
}
