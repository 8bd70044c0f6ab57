package planner

import "time"

type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PaceFast     Pace = "fast"
)

func (p Pace) Valid() bool {
	switch p {
	case PaceRelaxed, PaceModerate, PaceFast:
		return true
	}
	return false
}

type Period string

const (
	Morning   Period = "Morning"
	Afternoon Period = "Afternoon"
	Evening   Period = "Evening"
)

// Periods is the fixed order of blocks inside every day.
var Periods = [3]Period{Morning, Afternoon, Evening}

const DefaultVisitMinutes = 60

// Place is one candidate point of interest as returned by the place search.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	City        string   `json:"city,omitempty"`
	District    string   `json:"district,omitempty"`
	Type        string   `json:"type,omitempty"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Tags        []string `json:"tags,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Popularity  int      `json:"popularity"`
	DurationMin int      `json:"duration_min"`
	Excerpt     string   `json:"excerpt,omitempty"`
}

// HasCoordinates reports whether the place carries a usable geo position.
func (p Place) HasCoordinates() bool {
	return p.Lat != 0 || p.Lng != 0
}

// Candidate is a place that survived selection, with the score it was ranked by.
type Candidate struct {
	Place
	Score       float64
	MatchedTags []string
}

type ScheduledVisit struct {
	Name        string
	Slug        string
	District    string
	DurationMin int
	Note        string
	StartTime   string
}

type VisitBlock struct {
	Period Period
	Visits []ScheduledVisit
}

// TotalMinutes sums the visit durations of the block.
func (b VisitBlock) TotalMinutes() int {
	total := 0
	for _, v := range b.Visits {
		total += v.DurationMin
	}
	return total
}

type DayPlan struct {
	Day    int
	Date   time.Time
	Blocks [3]VisitBlock
}

// VisitCount returns the number of scheduled visits across all blocks.
func (d DayPlan) VisitCount() int {
	n := 0
	for _, b := range d.Blocks {
		n += len(b.Visits)
	}
	return n
}

func countVisits(days []DayPlan) int {
	n := 0
	for _, d := range days {
		n += d.VisitCount()
	}
	return n
}
