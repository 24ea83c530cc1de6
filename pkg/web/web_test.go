package web_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"

	"github.com/JaimeStill/umai/pkg/routes"
	"github.com/JaimeStill/umai/pkg/web"
)

var testFS = fstest.MapFS{
	"layouts/base.html": {Data: []byte(
		`{{ define "base" }}<html><head><title>{{ .Title }}</title></head>` +
			`<body data-section="{{ .Section }}">{{ if .Flash }}<p class="flash">{{ .Flash }}</p>{{ end }}` +
			`{{ template "content" . }}</body></html>{{ end }}`,
	)},
	"views/hello.html": {Data: []byte(
		`{{ define "content" }}<h1>{{ shout .Data }}</h1>{{ end }}`,
	)},
	"views/broken.html": {Data: []byte(
		`{{ define "content" }}{{ .Data.Missing }}{{ end }}`,
	)},
	"static/app.css": {Data: []byte("body{}")},
}

var (
	hello  = web.ViewDef{Template: "hello.html", Title: "Hello"}
	broken = web.ViewDef{Template: "broken.html", Title: "Broken"}
)

func newSet(t *testing.T) *web.TemplateSet {
	t.Helper()

	funcs := template.FuncMap{"shout": func(v any) string {
		s, _ := v.(string)
		return strings.ToUpper(s)
	}}

	ts, err := web.NewTemplateSet(testFS, "layouts/*.html", "views", "base", funcs, []web.ViewDef{hello, broken})
	if err != nil {
		t.Fatalf("template set: %v", err)
	}
	return ts
}

func TestRender(t *testing.T) {
	ts := newSet(t)
	rec := httptest.NewRecorder()

	err := ts.Render(rec, http.StatusOK, hello, web.ViewData{Section: "works", Flash: "Saved", Data: "dusk"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type = %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("title").Text(); got != "Hello" {
		t.Errorf("title = %q, want default view title", got)
	}
	if got := doc.Find("h1").Text(); got != "DUSK" {
		t.Errorf("h1 = %q", got)
	}
	if got := doc.Find(".flash").Text(); got != "Saved" {
		t.Errorf("flash = %q", got)
	}
	if got, _ := doc.Find("body").Attr("data-section"); got != "works" {
		t.Errorf("section = %q", got)
	}
}

func TestRenderFailureWritesNothing(t *testing.T) {
	ts := newSet(t)
	rec := httptest.NewRecorder()

	if err := ts.Render(rec, http.StatusOK, broken, web.ViewData{Data: 42}); err == nil {
		t.Fatal("expected render error")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("partial output written: %q", rec.Body.String())
	}
}

func TestRenderUnknownView(t *testing.T) {
	ts := newSet(t)
	if err := ts.Render(httptest.NewRecorder(), http.StatusOK, web.ViewDef{Template: "nope.html"}, web.ViewData{}); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestPageHandlerStatus(t *testing.T) {
	ts := newSet(t)
	rec := httptest.NewRecorder()

	ts.PageHandler(hello, http.StatusNotFound)(rec, httptest.NewRequest("GET", "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestNewTemplateSetParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{ define "base" }}{{ end }}`)},
		"views/bad.html":    {Data: []byte(`{{ if }}`)},
	}
	_, err := web.NewTemplateSet(fsys, "layouts/*.html", "views", "base", nil, []web.ViewDef{{Template: "bad.html"}})
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestStatic(t *testing.T) {
	h, err := web.Static(testFS, "static", "/static/")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/static/app.css", http.StatusOK},
		{"/static/", http.StatusNotFound},
		{"/static/missing.css", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouterFallback(t *testing.T) {
	r := web.NewRouter()
	r.Register(routes.Group{
		Routes: []routes.Route{{Method: "GET", Pattern: "/known", Handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}}},
	})

	t.Run("no fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	r.SetFallback(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))
		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want 418", rec.Code)
		}
	})

	t.Run("registered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/known", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
