package candidates

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/umai/internal/works"
)

// PromoteResult is the outcome of a successful promotion.
type PromoteResult struct {
	Candidate *Candidate  `json:"candidate"`
	Work      *works.Work `json:"work"`
}

// promotionStore holds the two writes a promotion performs.
type promotionStore interface {
	InsertWork(ctx context.Context, cmd works.CreateCommand) (*works.Work, error)
	MarkPromoted(ctx context.Context, c *Candidate, workID string, notes *string, now time.Time) (*Candidate, error)
}

// promote inserts the work derived from c and, only once that insert has
// succeeded, marks c as promoted. A failed insert leaves c untouched.
func promote(ctx context.Context, store promotionStore, c *Candidate, notes *string, now time.Time) (*PromoteResult, error) {
	if c.Promoted() {
		return nil, ErrAlreadyPromoted
	}

	cmd := workFromCandidate(c, now)

	work, err := store.InsertWork(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("insert work %s: %w", cmd.ID, err)
	}

	updated, err := store.MarkPromoted(ctx, c, work.ID, notes, now)
	if err != nil {
		return nil, fmt.Errorf("mark candidate promoted: %w", err)
	}

	return &PromoteResult{Candidate: updated, Work: work}, nil
}

func workFromCandidate(c *Candidate, now time.Time) works.CreateCommand {
	title := DefaultWorkTitle
	if c.Title != nil && *c.Title != "" {
		title = *c.Title
	}

	id := c.ID
	discovered := c.DiscoveredAt

	return works.CreateCommand{
		ID:                   works.NewWorkID(c.MediumGuess, now),
		Title:                title,
		Creator:              c.Creator,
		Year:                 works.ParseYear(c.Year),
		Medium:               c.MediumGuess,
		Country:              c.Country,
		Language:             c.Language,
		EvaluationStatus:     works.StatusInProgress,
		DiscoveryCandidateID: &id,
		DiscoverySourceURLs:  []string{c.SourceURL},
		DiscoveryEvidence:    c.EvidenceSnippet,
		DiscoveryDate:        &discovered,
	}
}
