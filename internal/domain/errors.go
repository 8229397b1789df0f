package domain

import "errors"

var (
	// ErrUpstreamFetch is returned when the record store cannot supply the crossing batch.
	ErrUpstreamFetch = errors.New("crossing record fetch failed")

	// ErrInvalidRequest is returned when a risk request is missing required fields.
	ErrInvalidRequest = errors.New("invalid risk request")

	// ErrInvalidRecord is returned when a crossing record cannot be stored.
	ErrInvalidRecord = errors.New("invalid crossing record")
)
