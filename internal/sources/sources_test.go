package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/pkg/pagination"
)

func TestValidateWeight(t *testing.T) {
	tests := []struct {
		weight int
		valid  bool
	}{
		{-21, false},
		{-20, true},
		{0, true},
		{30, true},
		{31, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.weight), func(t *testing.T) {
			err := ValidateWeight(tt.weight)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateWeight(%d) = %v", tt.weight, err)
			}
		})
	}
}

func TestSetWeightRejectsBeforeWrite(t *testing.T) {
	// A nil pool panics if touched, so reaching the assertion proves no
	// statement was issued.
	sys := New(nil, slog.New(slog.DiscardHandler), pagination.Config{})

	_, err := sys.SetWeight(context.Background(), uuid.New(), 99)
	if !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("SetWeight() error = %v, want ErrInvalidWeight", err)
	}
}

func TestToggleStatement(t *testing.T) {
	id := uuid.MustParse("0b5c7c8e-2f1d-4c6a-9b7e-3d2a1f0e9c8b")

	sql, args, err := toggleStatement(id)
	if err != nil {
		t.Fatalf("toggleStatement: %v", err)
	}

	want := "UPDATE public.discovery_sources s SET enabled = NOT enabled WHERE s.id = $1 RETURNING " + projection.Columns()
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 1 || args[0] != id.String() {
		t.Errorf("args = %v", args)
	}
}

func TestWeightStatement(t *testing.T) {
	id := uuid.New()

	sql, args, err := weightStatement(id, -5)
	if err != nil {
		t.Fatalf("weightStatement: %v", err)
	}

	want := "UPDATE public.discovery_sources s SET quality_weight = $1 WHERE s.id = $2 RETURNING " + projection.Columns()
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 2 || args[0] != -5 || args[1] != id.String() {
		t.Errorf("args = %v", args)
	}
}

func TestStatsStatement(t *testing.T) {
	sql, _, err := statsStatement()
	if err != nil {
		t.Fatalf("statsStatement: %v", err)
	}

	want := "SELECT COUNT(*), COUNT(*) FILTER (WHERE s.enabled) FROM public.discovery_sources s"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"weight", ErrInvalidWeight, http.StatusBadRequest},
		{"id", ErrInvalidID, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("toggle: %w", ErrNotFound), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	f := FiltersFromQuery(url.Values{"enabled": {"false"}, "type": {"rss"}})
	if f.Enabled == nil || *f.Enabled {
		t.Errorf("Enabled = %v", f.Enabled)
	}
	if f.Type == nil || *f.Type != "rss" {
		t.Errorf("Type = %v", f.Type)
	}

	empty := FiltersFromQuery(url.Values{"enabled": {"maybe"}})
	if empty.Enabled != nil || empty.Type != nil {
		t.Errorf("unparseable values should be ignored: %+v", empty)
	}
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch d := d.(type) {
		case *uuid.UUID:
			*d = r[i].(uuid.UUID)
		case *string:
			*d = r[i].(string)
		case *bool:
			*d = r[i].(bool)
		case *int:
			*d = r[i].(int)
		case *[]byte:
			if r[i] != nil {
				*d = r[i].([]byte)
			}
		}
	}
	return nil
}

func TestScanSource(t *testing.T) {
	id := uuid.New()

	t.Run("tags and config", func(t *testing.T) {
		s, err := scanSource(fakeRow{id, "Archive RSS", "rss", false, []byte(`{"url":"x"}`), []byte(`["archive","film"]`), 15, nil, nil})
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if len(s.Tags) != 2 || s.Tags[1] != "film" {
			t.Errorf("Tags = %v", s.Tags)
		}
		if string(s.Config) != `{"url":"x"}` {
			t.Errorf("Config = %s", s.Config)
		}
	})

	t.Run("null tags", func(t *testing.T) {
		s, err := scanSource(fakeRow{id, "Empty", "api", true, nil, nil, 0, nil, nil})
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if s.Tags == nil || len(s.Tags) != 0 {
			t.Errorf("Tags = %#v, want empty slice", s.Tags)
		}
		if string(s.Config) != "{}" {
			t.Errorf("Config = %s", s.Config)
		}
	})
}
