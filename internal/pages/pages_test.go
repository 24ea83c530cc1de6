package pages_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/internal/pages"
	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/gotrue"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/routes"
	"github.com/JaimeStill/umai/pkg/session"
	"github.com/JaimeStill/umai/web/app"
)

type mockCandidates struct {
	listFn    func(ctx context.Context, page pagination.PageRequest, filters candidates.Filters) (*pagination.PageResult[candidates.Candidate], error)
	findFn    func(ctx context.Context, id uuid.UUID) (*candidates.Candidate, error)
	statusFn  func(ctx context.Context, id uuid.UUID, cmd candidates.StatusCommand) (*candidates.Candidate, error)
	promoteFn func(ctx context.Context, id uuid.UUID, cmd candidates.PromoteCommand) (*candidates.PromoteResult, error)
	statsFn   func(ctx context.Context) (candidates.Stats, error)
}

func (m *mockCandidates) Handler() *candidates.Handler { return nil }

func (m *mockCandidates) List(ctx context.Context, page pagination.PageRequest, filters candidates.Filters) (*pagination.PageResult[candidates.Candidate], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockCandidates) Find(ctx context.Context, id uuid.UUID) (*candidates.Candidate, error) {
	return m.findFn(ctx, id)
}

func (m *mockCandidates) UpdateStatus(ctx context.Context, id uuid.UUID, cmd candidates.StatusCommand) (*candidates.Candidate, error) {
	return m.statusFn(ctx, id, cmd)
}

func (m *mockCandidates) Promote(ctx context.Context, id uuid.UUID, cmd candidates.PromoteCommand) (*candidates.PromoteResult, error) {
	return m.promoteFn(ctx, id, cmd)
}

func (m *mockCandidates) Stats(ctx context.Context) (candidates.Stats, error) {
	return m.statsFn(ctx)
}

type mockWorks struct {
	listFn    func(ctx context.Context, page pagination.PageRequest, filters works.Filters) (*pagination.PageResult[works.Work], error)
	findFn    func(ctx context.Context, id string) (*works.Work, error)
	saveFn    func(ctx context.Context, id string, cmd works.SaveCommand) (*works.Work, error)
	publishFn func(ctx context.Context, id string, cmd works.SaveCommand) (*works.Work, error)
	statsFn   func(ctx context.Context) (works.Stats, error)
}

func (m *mockWorks) Handler() *works.Handler { return nil }

func (m *mockWorks) List(ctx context.Context, page pagination.PageRequest, filters works.Filters) (*pagination.PageResult[works.Work], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockWorks) Find(ctx context.Context, id string) (*works.Work, error) {
	return m.findFn(ctx, id)
}

func (m *mockWorks) Save(ctx context.Context, id string, cmd works.SaveCommand) (*works.Work, error) {
	return m.saveFn(ctx, id, cmd)
}

func (m *mockWorks) Publish(ctx context.Context, id string, cmd works.SaveCommand) (*works.Work, error) {
	return m.publishFn(ctx, id, cmd)
}

func (m *mockWorks) Stats(ctx context.Context) (works.Stats, error) {
	return m.statsFn(ctx)
}

type mockSources struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters sources.Filters) (*pagination.PageResult[sources.Source], error)
	toggleFn func(ctx context.Context, id uuid.UUID) (*sources.Source, error)
	weightFn func(ctx context.Context, id uuid.UUID, weight int) (*sources.Source, error)
	statsFn  func(ctx context.Context) (sources.Stats, error)
}

func (m *mockSources) Handler() *sources.Handler { return nil }

func (m *mockSources) List(ctx context.Context, page pagination.PageRequest, filters sources.Filters) (*pagination.PageResult[sources.Source], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSources) Find(context.Context, uuid.UUID) (*sources.Source, error) {
	return nil, sources.ErrNotFound
}

func (m *mockSources) Toggle(ctx context.Context, id uuid.UUID) (*sources.Source, error) {
	return m.toggleFn(ctx, id)
}

func (m *mockSources) SetWeight(ctx context.Context, id uuid.UUID, weight int) (*sources.Source, error) {
	return m.weightFn(ctx, id, weight)
}

func (m *mockSources) Stats(ctx context.Context) (sources.Stats, error) {
	return m.statsFn(ctx)
}

const curator = "curator@umai.test"

var (
	candidateID = uuid.MustParse("5b0b7a64-2f59-4c8e-8a7a-1c2e3d4f5a6b")
	sourceID    = uuid.MustParse("8a6f4c5e-5d0e-4a8e-9a57-6f0d8e7c2b11")
	discovered  = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func newHandler(t *testing.T, c *mockCandidates, w *mockWorks, s *mockSources) http.Handler {
	t.Helper()

	views, err := pages.NewTemplates(app.FS)
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	h := pages.NewHandler(views, c, w, s, slog.New(slog.DiscardHandler), pagination.Config{DefaultPageSize: 25, MaxPageSize: 100})

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func signedIn(r *http.Request) *http.Request {
	ctx := session.WithIdentity(r.Context(), &session.Identity{
		User:    &gotrue.User{ID: "u-1", Email: curator},
		IsAdmin: true,
	})
	return r.WithContext(ctx)
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	return serve(t, h, signedIn(httptest.NewRequest(http.MethodGet, target, nil)))
}

func post(t *testing.T, h http.Handler, target string, form url.Values) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(t, h, signedIn(req))
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body, _ := io.ReadAll(rec.Result().Body)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return rec, doc
}

func sampleCandidate() *candidates.Candidate {
	return &candidates.Candidate{
		ID:           candidateID,
		DiscoveredAt: discovered,
		Title:        ptr("Night Tape"),
		Creator:      ptr("R. Okafor"),
		Year:         ptr("1994"),
		MediumGuess:  ptr("Film"),
		SourceURL:    "https://festival.example/night-tape",
		SignalScore:  42,
		Confidence:   ptr(0.82),
		SeenCount:    3,
		ClusterSize:  1,
		Status:       candidates.StatusNew,
	}
}

func sampleWork() *works.Work {
	return &works.Work{
		ID:               "UMAI-FILM-123456",
		Title:            "Night Tape",
		Creator:          ptr("R. Okafor"),
		Year:             ptr(1994),
		Medium:           ptr("Film"),
		ScoreNarrative:   ptr(3),
		ScoreFormal:      ptr(2),
		EvaluationStatus: works.StatusInProgress,
		UpdatedAt:        discovered,
	}
}

var errDatabase = errors.New("connection refused")
