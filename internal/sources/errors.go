package sources

import (
	"errors"
	"net/http"
)

// Domain errors for source operations.
var (
	ErrNotFound      = errors.New("source not found")
	ErrInvalidWeight = errors.New("quality weight must be between -20 and 30")
	ErrInvalidID     = errors.New("invalid source id")
	ErrInvalidBody   = errors.New("invalid request body")
)

// MapHTTPStatus maps source domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidWeight),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
