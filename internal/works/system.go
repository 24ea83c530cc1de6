package works

import (
	"context"

	"github.com/JaimeStill/umai/pkg/pagination"
)

// System defines the public contract for work operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Work], error)
	Find(ctx context.Context, id string) (*Work, error)

	// Save overwrites the editable fields and recomputes score_total.
	Save(ctx context.Context, id string, cmd SaveCommand) (*Work, error)

	// Publish saves cmd and marks the work published in the same statement.
	Publish(ctx context.Context, id string, cmd SaveCommand) (*Work, error)

	Stats(ctx context.Context) (Stats, error)
}
