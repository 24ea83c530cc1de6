package candidates_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/routes"
)

type mockSystem struct {
	listFn         func(ctx context.Context, page pagination.PageRequest, filters candidates.Filters) (*pagination.PageResult[candidates.Candidate], error)
	findFn         func(ctx context.Context, id uuid.UUID) (*candidates.Candidate, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, cmd candidates.StatusCommand) (*candidates.Candidate, error)
	promoteFn      func(ctx context.Context, id uuid.UUID, cmd candidates.PromoteCommand) (*candidates.PromoteResult, error)
	statsFn        func(ctx context.Context) (candidates.Stats, error)
}

func (m *mockSystem) Handler() *candidates.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters candidates.Filters) (*pagination.PageResult[candidates.Candidate], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*candidates.Candidate, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) UpdateStatus(ctx context.Context, id uuid.UUID, cmd candidates.StatusCommand) (*candidates.Candidate, error) {
	return m.updateStatusFn(ctx, id, cmd)
}

func (m *mockSystem) Promote(ctx context.Context, id uuid.UUID, cmd candidates.PromoteCommand) (*candidates.PromoteResult, error) {
	return m.promoteFn(ctx, id, cmd)
}

func (m *mockSystem) Stats(ctx context.Context) (candidates.Stats, error) {
	return m.statsFn(ctx)
}

func newTestHandler(sys candidates.System) *candidates.Handler {
	return candidates.NewHandler(sys, slog.New(slog.DiscardHandler), pagination.Config{DefaultPageSize: 50, MaxPageSize: 200})
}

func serve(sys candidates.System, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, newTestHandler(sys).Routes())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

var sampleID = uuid.MustParse("3f2b9d1a-6c4e-4b8f-a0d7-5e1c2b3a4d6f")

func path(suffix string) string {
	return "/candidates/" + sampleID.String() + suffix
}

func TestHandlerList(t *testing.T) {
	var got candidates.Filters
	sys := &mockSystem{listFn: func(_ context.Context, page pagination.PageRequest, filters candidates.Filters) (*pagination.PageResult[candidates.Candidate], error) {
		got = filters
		result := pagination.NewPageResult[candidates.Candidate](nil, 0, page.Page, page.PageSize)
		return &result, nil
	}}

	rec := serve(sys, httptest.NewRequest(http.MethodGet, "/candidates?status=all", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got.Status != nil {
		t.Errorf("status filter = %q, want none", *got.Status)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandlerUpdateStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"watching", `{"status":"watching","notes":"revisit after festival"}`, nil, http.StatusOK},
		{"malformed", `status=watching`, nil, http.StatusBadRequest},
		{"invalid status", `{"status":"promoted"}`, candidates.ErrInvalidStatus, http.StatusBadRequest},
		{"promoted candidate", `{"status":"rejected"}`, candidates.ErrAlreadyPromoted, http.StatusConflict},
		{"missing", `{"status":"rejected"}`, candidates.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{updateStatusFn: func(_ context.Context, id uuid.UUID, cmd candidates.StatusCommand) (*candidates.Candidate, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &candidates.Candidate{ID: id, Status: cmd.Status, TriageNotes: cmd.Notes}, nil
			}}

			rec := serve(sys, httptest.NewRequest(http.MethodPost, path("/status"), strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerPromote(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var notes *string
		sys := &mockSystem{promoteFn: func(_ context.Context, id uuid.UUID, cmd candidates.PromoteCommand) (*candidates.PromoteResult, error) {
			notes = cmd.Notes
			workID := "UMAI-FILM-654321"
			return &candidates.PromoteResult{
				Candidate: &candidates.Candidate{ID: id, Status: candidates.StatusPromoted, PromotedWorkID: &workID},
				Work:      &works.Work{ID: workID, Title: "Midnight Broadcast"},
			}, nil
		}}

		rec := serve(sys, httptest.NewRequest(http.MethodPost, path("/promote"), strings.NewReader(`{"notes":"archive it"}`)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if notes == nil || *notes != "archive it" {
			t.Errorf("notes = %v", notes)
		}

		var body candidates.PromoteResult
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Work.ID != "UMAI-FILM-654321" {
			t.Errorf("work id = %q", body.Work.ID)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		sys := &mockSystem{promoteFn: func(_ context.Context, id uuid.UUID, cmd candidates.PromoteCommand) (*candidates.PromoteResult, error) {
			if cmd.Notes != nil {
				t.Errorf("notes = %q, want nil", *cmd.Notes)
			}
			return &candidates.PromoteResult{Candidate: &candidates.Candidate{ID: id}, Work: &works.Work{ID: "UMAI-WORK-000001"}}, nil
		}}

		if rec := serve(sys, httptest.NewRequest(http.MethodPost, path("/promote"), nil)); rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", rec.Code)
		}
	})

	t.Run("already promoted", func(t *testing.T) {
		sys := &mockSystem{promoteFn: func(context.Context, uuid.UUID, candidates.PromoteCommand) (*candidates.PromoteResult, error) {
			return nil, candidates.ErrAlreadyPromoted
		}}

		rec := serve(sys, httptest.NewRequest(http.MethodPost, path("/promote"), nil))
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already been promoted") {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("bad id", func(t *testing.T) {
		rec := serve(&mockSystem{}, httptest.NewRequest(http.MethodPost, "/candidates/42/promote", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
