package works

import (
	"encoding/json"
	"net/url"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "works", "w").
	Project("id", "ID").
	Project("title", "Title").
	Project("creator", "Creator").
	Project("year", "Year").
	Project("medium", "Medium").
	Project("country", "Country").
	Project("language", "Language").
	Project("runtime", "Runtime").
	Project("score_narrative", "ScoreNarrative").
	Project("score_formal", "ScoreFormal").
	Project("score_exclusion", "ScoreExclusion").
	Project("score_preservation", "ScorePreservation").
	Project("score_total", "ScoreTotal").
	Project("desc_narrative", "DescNarrative").
	Project("desc_formal", "DescFormal").
	Project("desc_exclusion", "DescExclusion").
	Project("desc_preservation", "DescPreservation").
	Project("circ_distribution", "CircDistribution").
	Project("circ_audiences", "CircAudiences").
	Project("circ_institutional", "CircInstitutional").
	Project("pres_copies", "PresCopies").
	Project("pres_condition", "PresCondition").
	Project("pres_urgency", "PresUrgency").
	Project("critical_notes", "CriticalNotes").
	Project("access_availability", "AccessAvailability").
	Project("access_scholarship", "AccessScholarship").
	Project("evaluation_status", "EvaluationStatus").
	Project("published_at", "PublishedAt").
	Project("discovery_candidate_id", "DiscoveryCandidateID").
	ProjectExpr("array_to_json(%s)", "discovery_source_urls", "DiscoverySourceURLs").
	Project("discovery_evidence", "DiscoveryEvidence").
	Project("discovery_date", "DiscoveryDate").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for work queries.
// Nil fields are ignored.
type Filters struct {
	EvaluationStatus *string `json:"evaluation_status,omitempty"`
	Medium           *string `json:"medium,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("EvaluationStatus", f.EvaluationStatus).
		WhereEquals("Medium", f.Medium)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("evaluation_status"); s != "" {
		f.EvaluationStatus = &s
	}

	if m := values.Get("medium"); m != "" {
		f.Medium = &m
	}

	return f
}

func scanWork(s repository.Scanner) (Work, error) {
	var (
		w    Work
		urls []byte
	)

	err := s.Scan(
		&w.ID,
		&w.Title,
		&w.Creator,
		&w.Year,
		&w.Medium,
		&w.Country,
		&w.Language,
		&w.Runtime,
		&w.ScoreNarrative,
		&w.ScoreFormal,
		&w.ScoreExclusion,
		&w.ScorePreservation,
		&w.ScoreTotal,
		&w.DescNarrative,
		&w.DescFormal,
		&w.DescExclusion,
		&w.DescPreservation,
		&w.CircDistribution,
		&w.CircAudiences,
		&w.CircInstitutional,
		&w.PresCopies,
		&w.PresCondition,
		&w.PresUrgency,
		&w.CriticalNotes,
		&w.AccessAvailability,
		&w.AccessScholarship,
		&w.EvaluationStatus,
		&w.PublishedAt,
		&w.DiscoveryCandidateID,
		&urls,
		&w.DiscoveryEvidence,
		&w.DiscoveryDate,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return w, err
	}

	w.DiscoverySourceURLs = []string{}
	if len(urls) > 0 {
		if err := json.Unmarshal(urls, &w.DiscoverySourceURLs); err != nil {
			return w, err
		}
	}
	return w, nil
}

func saveStatement(id string, cmd SaveCommand, now time.Time, publish bool) (string, []any, error) {
	b := query.Update(projection).
		Set("title", cmd.Title).
		Set("creator", cmd.Creator).
		Set("year", cmd.Year).
		Set("medium", cmd.Medium).
		Set("country", cmd.Country).
		Set("language", cmd.Language).
		Set("runtime", cmd.Runtime).
		Set("score_narrative", cmd.ScoreNarrative).
		Set("score_formal", cmd.ScoreFormal).
		Set("score_exclusion", cmd.ScoreExclusion).
		Set("score_preservation", cmd.ScorePreservation).
		Set("score_total", cmd.ScoreTotal()).
		Set("desc_narrative", cmd.DescNarrative).
		Set("desc_formal", cmd.DescFormal).
		Set("desc_exclusion", cmd.DescExclusion).
		Set("desc_preservation", cmd.DescPreservation).
		Set("circ_distribution", cmd.CircDistribution).
		Set("circ_audiences", cmd.CircAudiences).
		Set("circ_institutional", cmd.CircInstitutional).
		Set("pres_copies", cmd.PresCopies).
		Set("pres_condition", cmd.PresCondition).
		Set("pres_urgency", cmd.PresUrgency).
		Set("critical_notes", cmd.CriticalNotes).
		Set("access_availability", cmd.AccessAvailability).
		Set("access_scholarship", cmd.AccessScholarship).
		Set("updated_at", now)

	switch {
	case publish:
		b = b.Set("evaluation_status", StatusPublished).Set("published_at", now)
	case cmd.EvaluationStatus != nil:
		b = b.Set("evaluation_status", *cmd.EvaluationStatus)
	}

	return b.Where(sq.Eq{projection.Column("ID"): id}).ToSql()
}

func insertStatement(cmd CreateCommand, now time.Time) (string, []any, error) {
	status := cmd.EvaluationStatus
	if status == "" {
		status = StatusDraft
	}

	urls := cmd.DiscoverySourceURLs
	if urls == nil {
		urls = []string{}
	}

	return query.Insert(projection).
		Columns(
			"id", "title", "creator", "year", "medium", "country", "language",
			"evaluation_status", "discovery_candidate_id", "discovery_source_urls",
			"discovery_evidence", "discovery_date", "created_at", "updated_at",
		).
		Values(
			cmd.ID, cmd.Title, cmd.Creator, cmd.Year, cmd.Medium, cmd.Country, cmd.Language,
			status, cmd.DiscoveryCandidateID, pq.StringArray(urls),
			cmd.DiscoveryEvidence, cmd.DiscoveryDate, now, now,
		).
		ToSql()
}

func statsStatement() (string, []any, error) {
	col := projection.Column("EvaluationStatus")
	return sq.Select(col, "COUNT(*)").
		From(projection.Table()).
		GroupBy(col).
		ToSql()
}
