// Package sources manages the discovery sources external collectors monitor:
// listing them, switching them on and off, and tuning their quality weight.
package sources

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Recommended quality weight bounds. Weights outside this range are rejected.
const (
	MinWeight = -20
	MaxWeight = 30
)

// Source types recognized by the collectors.
const (
	TypeSERPQuery    = "serp_query"
	TypeWatchURL     = "watch_url"
	TypeRSS          = "rss"
	TypeAPI          = "api"
	TypeCustomScrape = "custom_scrape"
)

// Source is a configured discovery source.
type Source struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Enabled       bool            `json:"enabled"`
	Config        json.RawMessage `json:"config"`
	Tags          []string        `json:"tags"`
	QualityWeight int             `json:"quality_weight"`
	ScheduleType  *string         `json:"schedule_type"`
	LastRunAt     *time.Time      `json:"last_run_at"`
}

// WeightBand describes one tier of the quality weight guide.
type WeightBand struct {
	Range       string
	Description string
}

// WeightGuide lists the quality weight tiers shown to operators.
var WeightGuide = []WeightBand{
	{"25-30", "Highly curated sources (major festivals)"},
	{"15-20", "Good quality sources (respected critics, archives)"},
	{"5-10", "General sources (platforms, aggregators)"},
	{"0-5", "Noisy sources (experimental, needs filtering)"},
	{"-10 to -1", "Known problematic sources (reduce signal)"},
}

// Stats summarizes the configured sources.
type Stats struct {
	Total   int `json:"total"`
	Enabled int `json:"enabled"`
}

// WeightCommand carries a new quality weight.
type WeightCommand struct {
	QualityWeight *int `json:"quality_weight"`
}

// ValidateWeight reports ErrInvalidWeight when w is outside MinWeight..MaxWeight.
func ValidateWeight(w int) error {
	if w < MinWeight || w > MaxWeight {
		return ErrInvalidWeight
	}
	return nil
}
