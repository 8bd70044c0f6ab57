package response_models

type Place struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	District    string   `json:"district,omitempty"`
	Type        string   `json:"type,omitempty"`
	Latitude    float64  `json:"lat"`
	Longitude   float64  `json:"lng"`
	Tags        []string `json:"tags"`
	Rating      *float64 `json:"rating,omitempty"`
	Popularity  int      `json:"popularity_score"`
	DurationMin int      `json:"estimated_visit_time"`
	Excerpt     string   `json:"excerpt,omitempty"`
}

type PlacePage struct {
	Items    []Place `json:"items"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Facets struct {
	City      string       `json:"city"`
	Tags      []FacetCount `json:"tags"`
	Districts []FacetCount `json:"districts"`
}
