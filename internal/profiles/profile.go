// Package profiles reads the staff profile rows that mark an auth user as an
// administrator.
package profiles

import "github.com/google/uuid"

// Profile is the application record keyed by the auth user id.
type Profile struct {
	ID      uuid.UUID `json:"id"`
	Email   *string   `json:"email"`
	IsAdmin bool      `json:"is_admin"`
}
