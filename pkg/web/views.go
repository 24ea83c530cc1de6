// Package web renders server-side HTML pages from embedded templates and
// serves embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef names a page template and its default title.
type ViewDef struct {
	Template string
	Title    string
}

// ViewData is passed to every page template. Section marks the active
// navigation entry; Flash and Error carry one-shot status text.
type ViewData struct {
	Title   string
	Section string
	User    any
	Flash   string
	Error   string
	Data    any
}

// TemplateSet holds pre-parsed templates: the shared layouts cloned once per view.
type TemplateSet struct {
	layout string
	views  map[string]*template.Template
}

// NewTemplateSet parses the layouts matched by layoutGlob, then clones them
// for each view found under viewDir. layout names the template every render
// executes. Parse errors surface here, at startup.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewDir, layout string, funcs template.FuncMap, views []ViewDef) (*TemplateSet, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	viewFS, err := fs.Sub(fsys, viewDir)
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewFS, v.Template); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", v.Template, err)
		}
		parsed[v.Template] = t
	}

	return &TemplateSet{layout: layout, views: parsed}, nil
}

// Render executes view into a buffer and writes it with status. Nothing is
// written when execution fails.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, view ViewDef, data ViewData) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}
	if data.Title == "" {
		data.Title = view.Title
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, ts.layout, data); err != nil {
		return fmt.Errorf("render %s: %w", view.Template, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// PageHandler returns a handler that renders view with no page data.
func (ts *TemplateSet) PageHandler(view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ts.Render(w, status, view, ViewData{}); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
