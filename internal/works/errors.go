package works

import (
	"errors"
	"net/http"
)

// Domain errors for work operations.
var (
	ErrNotFound       = errors.New("work not found")
	ErrDuplicate      = errors.New("work already exists")
	ErrInvalidTitle   = errors.New("title is required")
	ErrInvalidScore   = errors.New("scores must be between 1 and 3")
	ErrInvalidUrgency = errors.New("preservation urgency must be LOW, MODERATE, or HIGH")
	ErrInvalidStatus  = errors.New("invalid evaluation status")
	ErrInvalidYear    = errors.New("year must be a whole number")
	ErrInvalidBody    = errors.New("invalid request body")
	ErrInvalidWork    = errors.New("work violates a table constraint")
)

// MapHTTPStatus maps work domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTitle),
		errors.Is(err, ErrInvalidScore),
		errors.Is(err, ErrInvalidUrgency),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidYear),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidWork):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
