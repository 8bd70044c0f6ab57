package db_models

import "github.com/lib/pq"

// Place is one catalog entry fed by the content collaborator.
type Place struct {
	BaseModel
	Slug               string `gorm:"uniqueIndex;not null"`
	Name               string `gorm:"not null"`
	City               string `gorm:"index"`
	District           string `gorm:"index"`
	Type               string
	Latitude           float64
	Longitude          float64
	Tags               pq.StringArray `gorm:"type:text[]"`
	Rating             *float64
	Popularity         int
	EstimatedVisitTime int
	Excerpt            string
}
