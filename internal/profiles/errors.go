package profiles

import "errors"

// ErrNotFound indicates no profile row exists for the user.
var ErrNotFound = errors.New("profile not found")
