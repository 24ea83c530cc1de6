// Package works implements the catalog of creative works: listing, rubric
// editing, publishing, and the insert used when a candidate is promoted.
package works

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Evaluation statuses.
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
	StatusPublished  = "published"
)

// Preservation urgency levels.
const (
	UrgencyLow      = "LOW"
	UrgencyModerate = "MODERATE"
	UrgencyHigh     = "HIGH"
)

// Rubric score bounds and the maximum total across four dimensions.
const (
	MinScore  = 1
	MaxScore  = 3
	MaxTotal  = 4 * MaxScore
	idDigits  = 6
	idDefault = "WORK"
)

// Statuses lists every evaluation status in workflow order.
var Statuses = []string{StatusDraft, StatusInProgress, StatusComplete, StatusPublished}

// Urgencies lists the accepted preservation urgency values.
var Urgencies = []string{UrgencyLow, UrgencyModerate, UrgencyHigh}

// Media lists the medium values offered by the editor.
var Media = []string{"Film", "Game", "Book", "Zine", "Audio", "Art", "Other"}

// Dimension names one rubric axis.
type Dimension struct {
	Key   string
	Label string
}

// Dimensions lists the four rubric axes in display order.
var Dimensions = []Dimension{
	{"narrative", "Narrative Innovation"},
	{"formal", "Formal Experimentation"},
	{"exclusion", "Institutional Exclusion"},
	{"preservation", "Preservation Urgency"},
}

// Work is a catalog entry with its evaluation rubric and provenance.
type Work struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Creator  *string `json:"creator"`
	Year     *int    `json:"year"`
	Medium   *string `json:"medium"`
	Country  *string `json:"country"`
	Language *string `json:"language"`
	Runtime  *string `json:"runtime"`

	ScoreNarrative    *int    `json:"score_narrative"`
	ScoreFormal       *int    `json:"score_formal"`
	ScoreExclusion    *int    `json:"score_exclusion"`
	ScorePreservation *int    `json:"score_preservation"`
	ScoreTotal        *int    `json:"score_total"`
	DescNarrative     *string `json:"desc_narrative"`
	DescFormal        *string `json:"desc_formal"`
	DescExclusion     *string `json:"desc_exclusion"`
	DescPreservation  *string `json:"desc_preservation"`

	CircDistribution  *string `json:"circ_distribution"`
	CircAudiences     *string `json:"circ_audiences"`
	CircInstitutional *string `json:"circ_institutional"`

	PresCopies    *string `json:"pres_copies"`
	PresCondition *string `json:"pres_condition"`
	PresUrgency   *string `json:"pres_urgency"`

	CriticalNotes      *string `json:"critical_notes"`
	AccessAvailability *string `json:"access_availability"`
	AccessScholarship  *string `json:"access_scholarship"`

	EvaluationStatus string     `json:"evaluation_status"`
	PublishedAt      *time.Time `json:"published_at"`

	DiscoveryCandidateID *uuid.UUID `json:"discovery_candidate_id"`
	DiscoverySourceURLs  []string   `json:"discovery_source_urls"`
	DiscoveryEvidence    *string    `json:"discovery_evidence"`
	DiscoveryDate        *time.Time `json:"discovery_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score returns the score for a rubric dimension key.
func (w *Work) Score(key string) *int {
	switch key {
	case "narrative":
		return w.ScoreNarrative
	case "formal":
		return w.ScoreFormal
	case "exclusion":
		return w.ScoreExclusion
	case "preservation":
		return w.ScorePreservation
	}
	return nil
}

// Description returns the rubric text for a dimension key.
func (w *Work) Description(key string) *string {
	switch key {
	case "narrative":
		return w.DescNarrative
	case "formal":
		return w.DescFormal
	case "exclusion":
		return w.DescExclusion
	case "preservation":
		return w.DescPreservation
	}
	return nil
}

// Published reports whether the work has been published to the catalog.
func (w *Work) Published() bool {
	return w.EvaluationStatus == StatusPublished
}

// Stats counts works by evaluation status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// CreateCommand carries the fields of a new work. Nil values are stored as NULL.
type CreateCommand struct {
	ID                   string
	Title                string
	Creator              *string
	Year                 *int
	Medium               *string
	Country              *string
	Language             *string
	EvaluationStatus     string
	DiscoveryCandidateID *uuid.UUID
	DiscoverySourceURLs  []string
	DiscoveryEvidence    *string
	DiscoveryDate        *time.Time
}

var nonIDChars = regexp.MustCompile(`[^A-Z0-9]`)

// NewWorkID builds a catalog id "UMAI-<MEDIUM>-<6 digits>" from the medium
// (upper-cased, reduced to A-Z and 0-9, "WORK" when empty) and the last six
// digits of now in unix milliseconds.
func NewWorkID(medium *string, now time.Time) string {
	m := ""
	if medium != nil {
		m = nonIDChars.ReplaceAllString(strings.ToUpper(*medium), "")
	}
	if m == "" {
		m = idDefault
	}

	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > idDigits {
		ms = ms[len(ms)-idDigits:]
	}
	return "UMAI-" + m + "-" + strings.Repeat("0", idDigits-len(ms)) + ms
}

// ParseYear returns s as an integer year, or nil when s is empty or not numeric.
func ParseYear(s *string) *int {
	if s == nil {
		return nil
	}
	y, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &y
}
