package response_models

import "wayfarer/internal/planner"

// ItineraryResponse wraps the itinerary document with its stored metadata. The
// document's summary and days are inlined.
type ItineraryResponse struct {
	ID          string `json:"id"`
	City        string `json:"city"`
	TripDays    int    `json:"trip_days"`
	Pace        string `json:"pace"`
	GeneratedBy string `json:"generated_by"`
	CreatedAt   string `json:"created_at,omitempty"`
	planner.Document
}
