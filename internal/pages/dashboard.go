package pages

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/web"
)

type dashboardData struct {
	Candidates        candidates.Stats
	Works             works.Stats
	Sources           sources.Stats
	CandidateStatuses []string
	WorkStatuses      []string
}

// Dashboard renders the signed-in identity with candidate, work, and source
// counts. The three count queries run concurrently.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{
		CandidateStatuses: candidates.Statuses,
		WorkStatuses:      works.Statuses,
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Candidates, err = h.candidates.Stats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Works, err = h.works.Stats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Sources, err = h.sources.Stats(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard stats failed", "error", err)
		h.render(w, r, http.StatusInternalServerError, dashboardView, web.ViewData{
			Section: "dashboard",
			Error:   "Could not load archive statistics.",
			Data:    dashboardData{CandidateStatuses: candidates.Statuses, WorkStatuses: works.Statuses},
		})
		return
	}

	h.render(w, r, http.StatusOK, dashboardView, web.ViewData{Section: "dashboard", Data: data})
}
