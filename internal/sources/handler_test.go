package sources_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/routes"
)

type mockSystem struct {
	listFn      func(ctx context.Context, page pagination.PageRequest, filters sources.Filters) (*pagination.PageResult[sources.Source], error)
	findFn      func(ctx context.Context, id uuid.UUID) (*sources.Source, error)
	toggleFn    func(ctx context.Context, id uuid.UUID) (*sources.Source, error)
	setWeightFn func(ctx context.Context, id uuid.UUID, weight int) (*sources.Source, error)
	statsFn     func(ctx context.Context) (sources.Stats, error)
}

func (m *mockSystem) Handler() *sources.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters sources.Filters) (*pagination.PageResult[sources.Source], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*sources.Source, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Toggle(ctx context.Context, id uuid.UUID) (*sources.Source, error) {
	return m.toggleFn(ctx, id)
}

func (m *mockSystem) SetWeight(ctx context.Context, id uuid.UUID, weight int) (*sources.Source, error) {
	return m.setWeightFn(ctx, id, weight)
}

func (m *mockSystem) Stats(ctx context.Context) (sources.Stats, error) {
	return m.statsFn(ctx)
}

func newTestHandler(sys sources.System) *sources.Handler {
	return sources.NewHandler(
		sys,
		slog.New(slog.DiscardHandler),
		pagination.Config{DefaultPageSize: 50, MaxPageSize: 200},
	)
}

func setupMux(h *sources.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

var sampleID = uuid.MustParse("0b5c7c8e-2f1d-4c6a-9b7e-3d2a1f0e9c8b")

func sampleSource() sources.Source {
	return sources.Source{
		ID:            sampleID,
		Name:          "Festival lineups",
		Type:          sources.TypeSERPQuery,
		Enabled:       true,
		Config:        json.RawMessage(`{"query":"festival premiere"}`),
		Tags:          []string{"festival"},
		QualityWeight: 25,
	}
}

func TestHandlerList(t *testing.T) {
	var gotFilters sources.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters sources.Filters) (*pagination.PageResult[sources.Source], error) {
			gotFilters = filters
			result := pagination.NewPageResult([]sources.Source{sampleSource()}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sources?enabled=true&type=rss", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotFilters.Enabled == nil || !*gotFilters.Enabled {
		t.Errorf("enabled filter = %v", gotFilters.Enabled)
	}
	if gotFilters.Type == nil || *gotFilters.Type != "rss" {
		t.Errorf("type filter = %v", gotFilters.Type)
	}

	var body pagination.PageResult[sources.Source]
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Name != "Festival lineups" {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestHandlerToggle(t *testing.T) {
	t.Run("returns updated row", func(t *testing.T) {
		sys := &mockSystem{
			toggleFn: func(_ context.Context, id uuid.UUID) (*sources.Source, error) {
				s := sampleSource()
				s.ID = id
				s.Enabled = false
				return &s, nil
			},
		}

		rec := httptest.NewRecorder()
		setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sources/"+sampleID.String()+"/toggle", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got sources.Source
		json.NewDecoder(rec.Body).Decode(&got)
		if got.Enabled {
			t.Error("enabled = true after toggle")
		}
	})

	t.Run("not found", func(t *testing.T) {
		sys := &mockSystem{
			toggleFn: func(context.Context, uuid.UUID) (*sources.Source, error) {
				return nil, sources.ErrNotFound
			},
		}

		rec := httptest.NewRecorder()
		setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sources/"+sampleID.String()+"/toggle", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setupMux(newTestHandler(&mockSystem{})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sources/nope/toggle", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerSetWeight(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		want       int
		wantCalled bool
	}{
		{"valid", `{"quality_weight": 12}`, http.StatusOK, true},
		{"missing field", `{}`, http.StatusBadRequest, false},
		{"malformed", `{`, http.StatusBadRequest, false},
		{"out of range", `{"quality_weight": 31}`, http.StatusBadRequest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			sys := &mockSystem{
				setWeightFn: func(_ context.Context, _ uuid.UUID, weight int) (*sources.Source, error) {
					called = true
					if err := sources.ValidateWeight(weight); err != nil {
						return nil, err
					}
					s := sampleSource()
					s.QualityWeight = weight
					return &s, nil
				},
			}

			req := httptest.NewRequest(http.MethodPut, "/sources/"+sampleID.String()+"/weight", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if called != tt.wantCalled {
				t.Errorf("system called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}
