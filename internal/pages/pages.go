// Package pages serves the server-rendered admin interface. Mutations follow
// post/redirect/get: success redirects with 303, failure re-renders the page
// with the error inline.
package pages

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/routes"
	"github.com/JaimeStill/umai/pkg/session"
	"github.com/JaimeStill/umai/pkg/web"
)

// Handler renders the admin pages over the domain systems.
type Handler struct {
	views      *web.TemplateSet
	candidates candidates.System
	works      works.System
	sources    sources.System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a page Handler.
func NewHandler(
	views *web.TemplateSet,
	cands candidates.System,
	wrks works.System,
	srcs sources.System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		views:      views,
		candidates: cands,
		works:      wrks,
		sources:    srcs,
		logger:     logger.With("handler", "pages"),
		pagination: pagination,
	}
}

// Routes returns the page route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Dashboard},
			{Method: "GET", Pattern: "/login", Handler: h.Login},
			{Method: "GET", Pattern: "/not-authorized", Handler: h.NotAuthorized},
		},
		Children: []routes.Group{
			{
				Prefix: "/candidates",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Candidates},
					{Method: "GET", Pattern: "/{id}", Handler: h.Candidate},
					{Method: "POST", Pattern: "/{id}/status", Handler: h.TriageCandidate},
					{Method: "POST", Pattern: "/{id}/promote", Handler: h.PromoteCandidate},
				},
			},
			{
				Prefix: "/works",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Works},
					{Method: "GET", Pattern: "/{id}", Handler: h.Work},
					{Method: "POST", Pattern: "/{id}", Handler: h.SaveWork},
					{Method: "POST", Pattern: "/{id}/publish", Handler: h.PublishWork},
				},
			},
			{
				Prefix: "/sources",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Sources},
					{Method: "POST", Pattern: "/{id}/toggle", Handler: h.ToggleSource},
					{Method: "POST", Pattern: "/{id}/weight", Handler: h.WeighSource},
				},
			},
		},
	}
}

// NotFound renders the 404 page for unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, notFoundView, web.ViewData{})
}

// NotAuthorized renders the landing page for signed-in non-admins.
func (h *Handler) NotAuthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, notAuthorizedView, web.ViewData{})
}

type loginData struct {
	Email string
}

// Login renders the sign-in form with any error from a failed attempt.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.render(w, r, http.StatusOK, loginView, web.ViewData{
		Error: q.Get("error"),
		Data:  loginData{Email: q.Get("email")},
	})
}

// render fills the signed-in user and writes the view. Render failures are
// logged and answered with a bare 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view web.ViewDef, data web.ViewData) {
	if id, ok := session.FromContext(r.Context()); ok && id.User != nil {
		data.User = id.User
	}
	if err := h.views.Render(w, status, view, data); err != nil {
		h.logger.Error("render failed", "view", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// pager builds page navigation links that keep the current query filters.
type pager struct {
	Page       int
	TotalPages int
	path       string
	query      url.Values
}

func newPager[T any](r *http.Request, result *pagination.PageResult[T]) pager {
	return pager{
		Page:       result.Page,
		TotalPages: result.TotalPages,
		path:       r.URL.Path,
		query:      r.URL.Query(),
	}
}

func (p pager) HasPrev() bool { return p.Page > 1 }
func (p pager) HasNext() bool { return p.Page < p.TotalPages }
func (p pager) PrevPage() int { return max(p.Page-1, 1) }
func (p pager) NextPage() int { return min(p.Page+1, p.TotalPages) }

// Href returns the current path and query with page replaced.
func (p pager) Href(page int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}
