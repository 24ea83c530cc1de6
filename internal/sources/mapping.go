package sources

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "discovery_sources", "s").
	Project("id", "ID").
	Project("name", "Name").
	Project("type", "Type").
	Project("enabled", "Enabled").
	Project("config", "Config").
	ProjectExpr("array_to_json(%s)", "tags", "Tags").
	Project("quality_weight", "QualityWeight").
	Project("schedule_type", "ScheduleType").
	Project("last_run_at", "LastRunAt")

var defaultSort = []query.SortField{
	{Field: "QualityWeight", Descending: true},
	{Field: "Name"},
}

// Filters contains optional filtering criteria for source queries.
// Nil fields are ignored.
type Filters struct {
	Type    *string `json:"type,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Type", f.Type).
		WhereEquals("Enabled", f.Enabled)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("type"); t != "" {
		f.Type = &t
	}

	if e := values.Get("enabled"); e != "" {
		if v, err := strconv.ParseBool(e); err == nil {
			f.Enabled = &v
		}
	}

	return f
}

func scanSource(s repository.Scanner) (Source, error) {
	var (
		src    Source
		config []byte
		tags   []byte
	)

	err := s.Scan(
		&src.ID,
		&src.Name,
		&src.Type,
		&src.Enabled,
		&config,
		&tags,
		&src.QualityWeight,
		&src.ScheduleType,
		&src.LastRunAt,
	)
	if err != nil {
		return src, err
	}

	if len(config) > 0 {
		src.Config = json.RawMessage(config)
	} else {
		src.Config = json.RawMessage("{}")
	}

	src.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &src.Tags); err != nil {
			return src, err
		}
	}
	return src, nil
}
