package utils

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidPage       = errors.New("invalid page parameter")
	ErrInvalidPageSize   = errors.New("invalid page size parameter")
	ErrDatabaseError     = errors.New("database error")
	ErrPlaceNotFound     = errors.New("place not found")
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrPreferenceMissing = errors.New("no preferences stored for session")
	ErrTooManyRequests   = errors.New("too many requests")

	ErrUnexpectedBehaviorOfAI = errors.New("unexpected response from language model")
	ErrLLMDisabled            = errors.New("language model is not configured")
)
