package pages

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/pkg/handlers"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/web"
)

const sourcesSection = "sources"

type sourceList struct {
	Guide     []sources.WeightBand
	MinWeight int
	MaxWeight int
	Page      *pagination.PageResult[sources.Source]
	Pager     pager
}

// Sources renders the discovery sources with the weight guide.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	h.renderSources(w, r, http.StatusOK, "")
}

// ToggleSource switches a source on or off and returns to the list.
func (h *Handler) ToggleSource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sourceFormError(w, r, sources.ErrNotFound)
		return
	}

	src, err := h.sources.Toggle(r.Context(), id)
	if err != nil {
		h.sourceFormError(w, r, err)
		return
	}

	h.logger.Info("source toggled", "id", src.ID, "enabled", src.Enabled)
	handlers.Redirect(w, r, "/sources")
}

// WeighSource stores a new quality weight and returns to the list.
func (h *Handler) WeighSource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sourceFormError(w, r, sources.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.sourceFormError(w, r, sources.ErrInvalidBody)
		return
	}

	weight, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("quality_weight")))
	if err != nil {
		h.sourceFormError(w, r, sources.ErrInvalidWeight)
		return
	}

	src, err := h.sources.SetWeight(r.Context(), id, weight)
	if err != nil {
		h.sourceFormError(w, r, err)
		return
	}

	h.logger.Info("source weight set", "id", src.ID, "quality_weight", src.QualityWeight)
	handlers.Redirect(w, r, "/sources")
}

func (h *Handler) sourceFormError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("source action failed", "id", r.PathValue("id"), "error", err)
	h.renderSources(w, r, sources.MapHTTPStatus(err), message(err))
}

func (h *Handler) renderSources(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := sourceList{
		Guide:     sources.WeightGuide,
		MinWeight: sources.MinWeight,
		MaxWeight: sources.MaxWeight,
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	result, err := h.sources.List(r.Context(), page, sources.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.Error("list sources failed", "error", err)
		data.Page = &pagination.PageResult[sources.Source]{}
		if msg == "" {
			msg = "Could not load sources."
		}
		status = max(status, http.StatusInternalServerError)
	} else {
		data.Page = result
		data.Pager = newPager(r, result)
	}

	h.render(w, r, status, sourcesView, web.ViewData{
		Section: sourcesSection,
		Error:   msg,
		Data:    data,
	})
}
