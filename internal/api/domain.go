package api

import (
	"github.com/JaimeStill/umai/internal/candidates"
	"github.com/JaimeStill/umai/internal/sources"
	"github.com/JaimeStill/umai/internal/works"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Candidates candidates.System
	Works      works.System
	Sources    sources.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	return &Domain{
		Candidates: candidates.New(db, runtime.Logger, runtime.Pagination),
		Works:      works.New(db, runtime.Logger, runtime.Pagination),
		Sources:    sources.New(db, runtime.Logger, runtime.Pagination),
	}
}
