// Package candidates implements triage and promotion of auto-discovered
// candidate works.
package candidates

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Candidate statuses. Promoted is terminal.
const (
	StatusNew       = "new"
	StatusWatching  = "watching"
	StatusReviewing = "reviewing"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPromoted  = "promoted"
)

// StatusAll disables the status filter when listing.
const StatusAll = "all"

// WatchInterval is how far out a watched candidate's next review is scheduled.
const WatchInterval = 30 * 24 * time.Hour

// DefaultWorkTitle is used when a promoted candidate has no title.
const DefaultWorkTitle = "Untitled"

// Statuses lists every candidate status.
var Statuses = []string{StatusNew, StatusWatching, StatusReviewing, StatusApproved, StatusRejected, StatusPromoted}

// TriageStatuses lists the statuses a triage action may assign.
var TriageStatuses = []string{StatusNew, StatusWatching, StatusReviewing, StatusApproved, StatusRejected}

// Candidate is a discovered item that may be promoted into a work.
type Candidate struct {
	ID              uuid.UUID  `json:"id"`
	SourceID        *uuid.UUID `json:"source_id"`
	DiscoveredAt    time.Time  `json:"discovered_at"`
	Title           *string    `json:"title"`
	Creator         *string    `json:"creator"`
	Year            *string    `json:"year"`
	MediumGuess     *string    `json:"medium_guess"`
	Country         *string    `json:"country"`
	Language        *string    `json:"language"`
	SourceURL       string     `json:"source_url"`
	EvidenceSnippet *string    `json:"evidence_snippet"`
	SignalScore     int        `json:"signal_score"`
	Confidence      *float64   `json:"confidence"`
	Fingerprint     *string    `json:"fingerprint"`
	ClusterKey      *string    `json:"cluster_key"`
	ClusterSize     int        `json:"cluster_size"`
	SeenCount       int        `json:"seen_count"`
	FirstSeenAt     *time.Time `json:"first_seen_at"`
	LastSeenAt      *time.Time `json:"last_seen_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	PromotedAt      *time.Time `json:"promoted_at"`
	NextReviewAt    *time.Time `json:"next_review_at"`
	Status          string     `json:"status"`
	TriageNotes     *string    `json:"triage_notes"`
	PromotedWorkID  *string    `json:"promoted_work_id"`
}

// Promoted reports whether the candidate has already become a work.
func (c *Candidate) Promoted() bool {
	return c.Status == StatusPromoted
}

// StatusCommand assigns a triage status and notes.
type StatusCommand struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// Validate rejects statuses outside TriageStatuses.
func (c StatusCommand) Validate() error {
	if !slices.Contains(TriageStatuses, c.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// NextReview returns the next review time for the command's status:
// now+WatchInterval when watching, nil otherwise.
func (c StatusCommand) NextReview(now time.Time) *time.Time {
	if c.Status != StatusWatching {
		return nil
	}
	next := now.Add(WatchInterval)
	return &next
}

// PromoteCommand carries the notes recorded when promoting.
type PromoteCommand struct {
	Notes *string `json:"notes"`
}

// Stats counts candidates by status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}
