package request_models

type UpsertPlaceRequest struct {
	Slug               string   `json:"slug" binding:"required"`
	Name               string   `json:"name" binding:"required"`
	City               string   `json:"city" binding:"required"`
	District           string   `json:"district"`
	Type               string   `json:"type"`
	Latitude           float64  `json:"lat"`
	Longitude          float64  `json:"lng"`
	Tags               []string `json:"tags"`
	Rating             *float64 `json:"rating"`
	Popularity         int      `json:"popularity_score"`
	EstimatedVisitTime int      `json:"estimated_visit_time"`
	Excerpt            string   `json:"excerpt"`
}

type PlaceListQuery struct {
	City     string
	District string
	Tag      string
	Page     int
	PageSize int
}
