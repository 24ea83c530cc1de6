package candidates

import (
	"net/url"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "discovery_candidates", "c").
	Project("id", "ID").
	Project("source_id", "SourceID").
	Project("discovered_at", "DiscoveredAt").
	Project("title", "Title").
	Project("creator", "Creator").
	Project("year", "Year").
	Project("medium_guess", "MediumGuess").
	Project("country", "Country").
	Project("language", "Language").
	Project("source_url", "SourceURL").
	Project("evidence_snippet", "EvidenceSnippet").
	Project("signal_score", "SignalScore").
	Project("confidence", "Confidence").
	Project("fingerprint", "Fingerprint").
	Project("cluster_key", "ClusterKey").
	Project("cluster_size", "ClusterSize").
	Project("seen_count", "SeenCount").
	Project("first_seen_at", "FirstSeenAt").
	Project("last_seen_at", "LastSeenAt").
	Project("reviewed_at", "ReviewedAt").
	Project("promoted_at", "PromotedAt").
	Project("next_review_at", "NextReviewAt").
	Project("status", "Status").
	Project("triage_notes", "TriageNotes").
	Project("promoted_work_id", "PromotedWorkID")

var defaultSort = []query.SortField{
	{Field: "SignalScore", Descending: true},
	{Field: "DiscoveredAt", Descending: true},
}

// Filters contains optional filtering criteria for candidate queries.
// Nil fields are ignored.
type Filters struct {
	Status      *string    `json:"status,omitempty"`
	MediumGuess *string    `json:"medium,omitempty"`
	SourceID    *uuid.UUID `json:"source_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("MediumGuess", f.MediumGuess).
		WhereEquals("SourceID", f.SourceID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// A status of "all" leaves the status unfiltered.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" && s != StatusAll {
		f.Status = &s
	}

	if m := values.Get("medium"); m != "" {
		f.MediumGuess = &m
	}

	if sid := values.Get("source_id"); sid != "" {
		if id, err := uuid.Parse(sid); err == nil {
			f.SourceID = &id
		}
	}

	return f
}

func scanCandidate(s repository.Scanner) (Candidate, error) {
	var c Candidate
	err := s.Scan(
		&c.ID,
		&c.SourceID,
		&c.DiscoveredAt,
		&c.Title,
		&c.Creator,
		&c.Year,
		&c.MediumGuess,
		&c.Country,
		&c.Language,
		&c.SourceURL,
		&c.EvidenceSnippet,
		&c.SignalScore,
		&c.Confidence,
		&c.Fingerprint,
		&c.ClusterKey,
		&c.ClusterSize,
		&c.SeenCount,
		&c.FirstSeenAt,
		&c.LastSeenAt,
		&c.ReviewedAt,
		&c.PromotedAt,
		&c.NextReviewAt,
		&c.Status,
		&c.TriageNotes,
		&c.PromotedWorkID,
	)
	return c, err
}

func notPromoted() sq.Sqlizer {
	return sq.NotEq{projection.Column("Status"): StatusPromoted}
}

func statusStatement(id uuid.UUID, cmd StatusCommand, now time.Time) (string, []any, error) {
	return query.Update(projection).
		Set("status", cmd.Status).
		Set("triage_notes", cmd.Notes).
		Set("reviewed_at", now).
		Set("next_review_at", cmd.NextReview(now)).
		Where(sq.Eq{projection.Column("ID"): id}).
		Where(notPromoted()).
		ToSql()
}

func promoteStatement(id uuid.UUID, workID string, notes *string, now time.Time) (string, []any, error) {
	return query.Update(projection).
		Set("status", StatusPromoted).
		Set("promoted_at", now).
		Set("reviewed_at", now).
		Set("promoted_work_id", workID).
		Set("triage_notes", notes).
		Where(sq.Eq{projection.Column("ID"): id}).
		Where(notPromoted()).
		ToSql()
}

func lockStatement(id uuid.UUID) (string, []any, error) {
	q, args, err := query.NewBuilder(projection).BuildSingle("ID", id)
	if err != nil {
		return "", nil, err
	}
	return q + " FOR UPDATE", args, nil
}

func statsStatement() (string, []any, error) {
	col := projection.Column("Status")
	return sq.Select(col, "COUNT(*)").
		From(projection.Table()).
		GroupBy(col).
		ToSql()
}
