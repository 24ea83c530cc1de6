package pages

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/umai/pkg/web"
)

var (
	dashboardView     = web.ViewDef{Template: "dashboard.html", Title: "Dashboard"}
	candidatesView    = web.ViewDef{Template: "candidates.html", Title: "Discovery Candidates"}
	candidateView     = web.ViewDef{Template: "candidate.html", Title: "Candidate"}
	worksView         = web.ViewDef{Template: "works.html", Title: "Works"}
	workView          = web.ViewDef{Template: "work.html", Title: "Work"}
	sourcesView       = web.ViewDef{Template: "sources.html", Title: "Discovery Sources"}
	loginView         = web.ViewDef{Template: "login.html", Title: "Sign in"}
	notAuthorizedView = web.ViewDef{Template: "not-authorized.html", Title: "Not authorized"}
	notFoundView      = web.ViewDef{Template: "not-found.html", Title: "Not found"}
	errorView         = web.ViewDef{Template: "error.html", Title: "Error"}
)

// Views lists every page template.
var Views = []web.ViewDef{
	dashboardView,
	candidatesView,
	candidateView,
	worksView,
	workView,
	sourcesView,
	loginView,
	notAuthorizedView,
	notFoundView,
	errorView,
}

// NewTemplates parses the page templates from fsys, which must contain
// templates/layouts and templates/views.
func NewTemplates(fsys fs.FS) (*web.TemplateSet, error) {
	return web.NewTemplateSet(fsys, "templates/layouts/*.html", "templates/views", "base", Funcs(), Views)
}

// Funcs returns the template helpers shared by every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"ago":     ago,
		"comma":   func(n int) string { return humanize.Comma(int64(n)) },
		"dash":    dash,
		"date":    date,
		"deref":   deref,
		"inc":     func(i int) int { return i + 1 },
		"join":    strings.Join,
		"label":   label,
		"num":     num,
		"percent": percent,
	}
}

const placeholder = "—"

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dash(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		s = deref(t)
	}
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func num(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprint(*n)
}

func percent(f *float64) string {
	if f == nil {
		return placeholder
	}
	return fmt.Sprintf("%.0f%%", *f*100)
}

// label renders a status value for display: "in_progress" becomes "In progress".
func label(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func timeOf(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	}
	return time.Time{}, false
}

func date(v any) string {
	t, ok := timeOf(v)
	if !ok {
		return placeholder
	}
	return t.Format("2006-01-02")
}

func ago(v any) string {
	t, ok := timeOf(v)
	if !ok {
		return placeholder
	}
	return humanize.Time(t)
}
