package domain

import "github.com/cockroachdb/errors"

// Outcome taxonomy shared by the store, the services and the HTTP surface.
// Lower layers Mark their errors with one of these; handlers only ever test with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrSlugTaken    = errors.New("slug taken")
	ErrAggregation  = errors.New("aggregation failed")
	ErrRender       = errors.New("render failed")
	ErrInvalidInput = errors.New("invalid input")
)
