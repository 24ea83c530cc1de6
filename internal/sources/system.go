package sources

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/pkg/pagination"
)

// System defines the public contract for discovery source operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Source], error)
	Find(ctx context.Context, id uuid.UUID) (*Source, error)

	// Toggle flips enabled in a single statement and returns the updated row.
	Toggle(ctx context.Context, id uuid.UUID) (*Source, error)

	// SetWeight validates and stores a new quality weight.
	SetWeight(ctx context.Context, id uuid.UUID, weight int) (*Source, error)

	Stats(ctx context.Context) (Stats, error)
}
