package request_models

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NearRequest narrows the candidate pool to a radius around a point.
type NearRequest struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km"`
}

type ItineraryRequest struct {
	City      string       `json:"city"`
	Districts []string     `json:"districts"`
	Dates     DateRange    `json:"dates"`
	Interests []string     `json:"interests"`
	Pace      string       `json:"pace"`
	Near      *NearRequest `json:"near,omitempty"`
}
