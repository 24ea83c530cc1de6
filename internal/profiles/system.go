package profiles

import (
	"context"

	"github.com/google/uuid"
)

// System defines the profile lookups the auth gateway depends on.
type System interface {
	Find(ctx context.Context, id uuid.UUID) (*Profile, error)

	// IsAdmin reports whether userID has a profile with is_admin set.
	// A missing profile or malformed id is not an error and yields false.
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
