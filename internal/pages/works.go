package pages

import (
	"context"
	"net/http"
	"net/url"

	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/handlers"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/web"
)

const worksSection = "works"

var (
	editableStatuses = []string{works.StatusDraft, works.StatusInProgress, works.StatusComplete}
	rubricScores     = []string{"1", "2", "3"}
)

type workList struct {
	Status   string
	Statuses []string
	MaxTotal int
	Page     *pagination.PageResult[works.Work]
	Pager    pager
}

type workDetail struct {
	Work             *works.Work
	Dimensions       []works.Dimension
	Media            []string
	Urgencies        []string
	EditableStatuses []string
	Scores           []string
	MaxTotal         int
}

// Works renders the catalog ordered by most recently updated.
func (h *Handler) Works(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.PageRequestFromQuery(q, h.pagination)
	data := workList{
		Status:   q.Get("evaluation_status"),
		Statuses: works.Statuses,
		MaxTotal: works.MaxTotal,
	}

	result, err := h.works.List(r.Context(), page, works.FiltersFromQuery(q))
	if err != nil {
		h.logger.Error("list works failed", "error", err)
		data.Page = &pagination.PageResult[works.Work]{}
		h.render(w, r, http.StatusInternalServerError, worksView, web.ViewData{
			Section: worksSection,
			Error:   "Could not load works.",
			Data:    data,
		})
		return
	}

	data.Page = result
	data.Pager = newPager(r, result)
	h.render(w, r, http.StatusOK, worksView, web.ViewData{Section: worksSection, Data: data})
}

// Work renders the rubric editor. A saved or published query flag shows the
// confirmation left by the previous submission.
func (h *Handler) Work(w http.ResponseWriter, r *http.Request) {
	work, err := h.works.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		h.workError(w, r, err)
		return
	}

	var flash string
	switch {
	case r.URL.Query().Get("published") == "1":
		flash = "Work published."
	case r.URL.Query().Get("saved") == "1":
		flash = "Changes saved."
	}

	h.renderWork(w, r, http.StatusOK, work, web.ViewData{Flash: flash})
}

// SaveWork stores the submitted rubric and returns to the editor.
func (h *Handler) SaveWork(w http.ResponseWriter, r *http.Request) {
	h.submitWork(w, r, h.works.Save, "saved")
}

// PublishWork stores the submitted rubric, publishes the work, and returns
// to the editor.
func (h *Handler) PublishWork(w http.ResponseWriter, r *http.Request) {
	h.submitWork(w, r, h.works.Publish, "published")
}

type workAction func(ctx context.Context, id string, cmd works.SaveCommand) (*works.Work, error)

func (h *Handler) submitWork(w http.ResponseWriter, r *http.Request, action workAction, flag string) {
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		h.workFormError(w, r, id, nil, works.ErrInvalidBody)
		return
	}

	cmd, err := works.SaveCommandFromForm(r.PostForm)
	if err != nil {
		h.workFormError(w, r, id, &cmd, err)
		return
	}

	work, err := action(r.Context(), id, cmd)
	if err != nil {
		h.workFormError(w, r, id, &cmd, err)
		return
	}

	h.logger.Info("work submitted", "id", work.ID, "action", flag)
	handlers.Redirect(w, r, "/works/"+url.PathEscape(work.ID)+"?"+flag+"=1")
}

// workFormError re-renders the editor with the submitted values and err
// inline, so the operator's edits are not lost.
func (h *Handler) workFormError(w http.ResponseWriter, r *http.Request, id string, cmd *works.SaveCommand, err error) {
	status := works.MapHTTPStatus(err)
	h.logger.Warn("work submission failed", "id", id, "error", err)

	work, findErr := h.works.Find(r.Context(), id)
	if findErr != nil {
		h.workError(w, r, findErr)
		return
	}
	if cmd != nil {
		applySubmitted(work, cmd)
	}

	h.renderWork(w, r, status, work, web.ViewData{Error: message(err)})
}

func (h *Handler) workError(w http.ResponseWriter, r *http.Request, err error) {
	status := works.MapHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("load work failed", "error", err)
	}
	h.renderError(w, r, status, err)
}

func (h *Handler) renderWork(w http.ResponseWriter, r *http.Request, status int, work *works.Work, data web.ViewData) {
	data.Title = work.Title
	data.Section = worksSection
	data.Data = workDetail{
		Work:             work,
		Dimensions:       works.Dimensions,
		Media:            works.Media,
		Urgencies:        works.Urgencies,
		EditableStatuses: editableStatuses,
		Scores:           rubricScores,
		MaxTotal:         works.MaxTotal,
	}
	h.render(w, r, status, workView, data)
}

// applySubmitted overlays the submitted editor fields onto the stored work
// for re-display. The stored title is kept when the submitted one is blank.
func applySubmitted(w *works.Work, cmd *works.SaveCommand) {
	if cmd.Title != "" {
		w.Title = cmd.Title
	}
	w.Creator = cmd.Creator
	w.Year = cmd.Year
	w.Medium = cmd.Medium
	w.Country = cmd.Country
	w.Language = cmd.Language
	w.Runtime = cmd.Runtime
	w.ScoreNarrative = cmd.ScoreNarrative
	w.ScoreFormal = cmd.ScoreFormal
	w.ScoreExclusion = cmd.ScoreExclusion
	w.ScorePreservation = cmd.ScorePreservation
	w.ScoreTotal = cmd.ScoreTotal()
	w.DescNarrative = cmd.DescNarrative
	w.DescFormal = cmd.DescFormal
	w.DescExclusion = cmd.DescExclusion
	w.DescPreservation = cmd.DescPreservation
	w.CircDistribution = cmd.CircDistribution
	w.CircAudiences = cmd.CircAudiences
	w.CircInstitutional = cmd.CircInstitutional
	w.PresCopies = cmd.PresCopies
	w.PresCondition = cmd.PresCondition
	w.PresUrgency = cmd.PresUrgency
	w.CriticalNotes = cmd.CriticalNotes
	w.AccessAvailability = cmd.AccessAvailability
	w.AccessScholarship = cmd.AccessScholarship
	if cmd.EvaluationStatus != nil && !w.Published() {
		w.EvaluationStatus = *cmd.EvaluationStatus
	}
}
