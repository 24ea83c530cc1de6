package pages

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/pkg/handlers"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/web"
)

const candidatesSection = "candidates"

var candidateFilters = append(slices.Clone(candidates.Statuses), candidates.StatusAll)

type candidateList struct {
	Status   string
	Statuses []string
	Page     *pagination.PageResult[candidates.Candidate]
	Pager    pager
}

type candidateDetail struct {
	Candidate *candidates.Candidate
	Statuses  []string
}

// Candidates renders the triage queue. Without a status query the queue
// shows new candidates; "all" lists every status.
func (h *Handler) Candidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status == "" {
		status = candidates.StatusNew
		q.Set("status", status)
	}

	page := pagination.PageRequestFromQuery(q, h.pagination)
	result, err := h.candidates.List(r.Context(), page, candidates.FiltersFromQuery(q))
	if err != nil {
		h.logger.Error("list candidates failed", "error", err)
		h.render(w, r, http.StatusInternalServerError, candidatesView, web.ViewData{
			Section: candidatesSection,
			Error:   "Could not load candidates.",
			Data: candidateList{
				Status:   status,
				Statuses: candidateFilters,
				Page:     &pagination.PageResult[candidates.Candidate]{},
			},
		})
		return
	}

	h.render(w, r, http.StatusOK, candidatesView, web.ViewData{
		Section: candidatesSection,
		Data: candidateList{
			Status:   status,
			Statuses: candidateFilters,
			Page:     result,
			Pager:    newPager(r, result),
		},
	})
}

// Candidate renders one candidate with the triage and promote forms.
func (h *Handler) Candidate(w http.ResponseWriter, r *http.Request) {
	c, status, err := h.findCandidate(r)
	if err != nil {
		h.candidateError(w, r, status, err)
		return
	}
	h.renderCandidate(w, r, http.StatusOK, c, "")
}

// TriageCandidate applies the submitted status and notes, then returns to
// the queue.
func (h *Handler) TriageCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.candidateError(w, r, http.StatusNotFound, candidates.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.candidateFormError(w, r, id, http.StatusBadRequest, candidates.ErrInvalidBody)
		return
	}

	cmd := candidates.StatusCommand{
		Status: r.PostForm.Get("status"),
		Notes:  formNotes(r.PostForm),
	}
	if _, err := h.candidates.UpdateStatus(r.Context(), id, cmd); err != nil {
		h.candidateFormError(w, r, id, candidates.MapHTTPStatus(err), err)
		return
	}

	h.logger.Info("candidate triaged", "id", id, "status", cmd.Status)
	handlers.Redirect(w, r, "/candidates")
}

// PromoteCandidate creates a work from the candidate and opens the new work.
func (h *Handler) PromoteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.candidateError(w, r, http.StatusNotFound, candidates.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.candidateFormError(w, r, id, http.StatusBadRequest, candidates.ErrInvalidBody)
		return
	}

	result, err := h.candidates.Promote(r.Context(), id, candidates.PromoteCommand{Notes: formNotes(r.PostForm)})
	if err != nil {
		h.candidateFormError(w, r, id, candidates.MapHTTPStatus(err), err)
		return
	}

	h.logger.Info("candidate promoted", "id", id, "work_id", result.Work.ID)
	handlers.Redirect(w, r, "/works/"+url.PathEscape(result.Work.ID))
}

func (h *Handler) findCandidate(r *http.Request) (*candidates.Candidate, int, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, http.StatusNotFound, candidates.ErrNotFound
	}
	c, err := h.candidates.Find(r.Context(), id)
	if err != nil {
		return nil, candidates.MapHTTPStatus(err), err
	}
	return c, http.StatusOK, nil
}

func (h *Handler) renderCandidate(w http.ResponseWriter, r *http.Request, status int, c *candidates.Candidate, msg string) {
	title := candidateView.Title
	if c.Title != nil && *c.Title != "" {
		title = *c.Title
	}
	h.render(w, r, status, candidateView, web.ViewData{
		Title:   title,
		Section: candidatesSection,
		Error:   msg,
		Data:    candidateDetail{Candidate: c, Statuses: candidates.TriageStatuses},
	})
}

// candidateFormError re-renders the candidate detail with err inline. When
// the candidate itself cannot be loaded the not-found page is shown instead.
func (h *Handler) candidateFormError(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int, err error) {
	h.logger.Warn("candidate action failed", "id", id, "error", err)

	c, findErr := h.candidates.Find(r.Context(), id)
	if findErr != nil {
		h.candidateError(w, r, candidates.MapHTTPStatus(findErr), findErr)
		return
	}
	h.renderCandidate(w, r, status, c, message(err))
}

func (h *Handler) candidateError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("load candidate failed", "error", err)
	}
	h.renderError(w, r, status, err)
}

func formNotes(form url.Values) *string {
	notes := strings.TrimSpace(form.Get("notes"))
	if notes == "" {
		return nil
	}
	return &notes
}
