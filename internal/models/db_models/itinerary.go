package db_models

// Itinerary is a generated itinerary as returned to the caller. Request and
// Document hold JSON.
type Itinerary struct {
	BaseModel
	PublicID    string `gorm:"uniqueIndex;size:26;not null"`
	City        string `gorm:"index"`
	TripDays    int
	Pace        string
	Request     string `gorm:"type:jsonb"`
	Document    string `gorm:"type:jsonb"`
	GeneratedBy string
}
