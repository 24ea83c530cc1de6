package candidates

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/pkg/pagination"
)

// System defines the public contract for candidate operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Candidate], error)
	Find(ctx context.Context, id uuid.UUID) (*Candidate, error)

	// UpdateStatus applies a triage decision. Promoted candidates are rejected
	// with ErrAlreadyPromoted.
	UpdateStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Candidate, error)

	// Promote creates a work from the candidate and then marks the candidate
	// promoted, inside one transaction.
	Promote(ctx context.Context, id uuid.UUID, cmd PromoteCommand) (*PromoteResult, error)

	Stats(ctx context.Context) (Stats, error)
}
