package candidates

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/umai/internal/works"
)

// Domain errors for candidate operations.
var (
	ErrNotFound        = errors.New("candidate not found")
	ErrAlreadyPromoted = errors.New("candidate has already been promoted")
	ErrInvalidStatus   = errors.New("invalid candidate status")
	ErrInvalidID       = errors.New("invalid candidate id")
	ErrInvalidBody     = errors.New("invalid request body")
)

// MapHTTPStatus maps candidate domain errors to HTTP status codes. Errors
// raised while inserting the promoted work fall through to works.MapHTTPStatus.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyPromoted):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	}
	return works.MapHTTPStatus(err)
}
