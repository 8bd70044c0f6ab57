package planner

import "errors"

var (
	// ErrInvalidRequest is returned for malformed or out-of-range input.
	ErrInvalidRequest = errors.New("invalid itinerary request")
	// ErrNoCandidates means the filtered place pool is empty.
	ErrNoCandidates = errors.New("no matching places")
	// ErrValidation is a fatal structural defect in a packed itinerary.
	ErrValidation = errors.New("itinerary validation failed")
	// ErrUpstreamUnavailable is returned when the place search fails or times out.
	ErrUpstreamUnavailable = errors.New("place search unavailable")
)
