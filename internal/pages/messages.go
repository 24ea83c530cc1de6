package pages

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/web"
)

var inlineMessages = []struct {
	err error
	msg string
}{
	{candidates.ErrAlreadyPromoted, "This candidate has already been promoted."},
	{candidates.ErrInvalidStatus, "Choose a valid triage status."},
	{candidates.ErrNotFound, "Candidate not found."},
	{works.ErrDuplicate, "A work with this catalog id already exists."},
	{works.ErrInvalidTitle, "Title is required."},
	{works.ErrInvalidScore, "Scores must be between 1 and 3."},
	{works.ErrInvalidUrgency, "Choose LOW, MODERATE, or HIGH urgency."},
	{works.ErrInvalidStatus, "Choose a valid evaluation status."},
	{works.ErrInvalidYear, "Year must be a number."},
	{works.ErrNotFound, "Work not found."},
	{sources.ErrInvalidWeight, "Quality weight must be between -20 and 30."},
	{sources.ErrNotFound, "Source not found."},
}

// message turns a domain error into text shown on the page. Errors without
// a mapping are shown as the datastore reported them.
func message(err error) string {
	for _, m := range inlineMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

// renderError shows the error page for failures that leave nothing to
// re-render.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status == http.StatusNotFound {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, status, errorView, web.ViewData{Error: message(err)})
}
