package session

import "errors"

// ErrNoSession indicates the request carries no decodable session cookie.
var ErrNoSession = errors.New("no session")
