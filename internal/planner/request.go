package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	MinTripDays = 1
	MaxTripDays = 14

	DateLayout = "2006-01-02"
)

// Request is the constraint envelope for one itinerary.
type Request struct {
	City      string
	Districts []string
	Start     time.Time
	End       time.Time
	Interests []string
	Pace      Pace

	// Area optionally restricts candidates to a geographic bound.
	Area *orb.Bound
}

// AreaAround returns the bound covering radiusKm around a coordinate.
func AreaAround(lat, lng, radiusKm float64) orb.Bound {
	return geo.NewBoundAroundPoint(orb.Point{lng, lat}, radiusKm*1000)
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// NewRequest builds and validates a Request from wire values. An empty pace
// defaults to moderate.
func NewRequest(city string, districts []string, start, end string, interests []string, pace string) (Request, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Request{}, fmt.Errorf("%w: city is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return Request{}, fmt.Errorf("%w: dates.start and dates.end are required", ErrInvalidRequest)
	}

	startDate, err := ParseDate(start)
	if err != nil {
		return Request{}, fmt.Errorf("%w: dates.start %q is not a YYYY-MM-DD date", ErrInvalidRequest, start)
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return Request{}, fmt.Errorf("%w: dates.end %q is not a YYYY-MM-DD date", ErrInvalidRequest, end)
	}

	p := Pace(strings.ToLower(strings.TrimSpace(pace)))
	if p == "" {
		p = PaceModerate
	}

	req := Request{
		City:      city,
		Districts: normalizeList(districts, false),
		Start:     startDate,
		End:       endDate,
		Interests: normalizeList(interests, true),
		Pace:      p,
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks the invariants the packer relies on.
func (r Request) Validate() error {
	if strings.TrimSpace(r.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidRequest)
	}
	if !r.Pace.Valid() {
		return fmt.Errorf("%w: pace must be relaxed, moderate or fast, got %q", ErrInvalidRequest, r.Pace)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidRequest,
			r.End.Format(DateLayout), r.Start.Format(DateLayout))
	}
	if days := r.TripDays(); days < MinTripDays || days > MaxTripDays {
		return fmt.Errorf("%w: trip length must be between %d and %d days, got %d",
			ErrInvalidRequest, MinTripDays, MaxTripDays, days)
	}
	return nil
}

// TripDays is the inclusive number of calendar days between Start and End.
func (r Request) TripDays() int {
	s := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// DateOf returns the calendar date of the given 1-based day.
func (r Request) DateOf(day int) time.Time {
	if r.Start.IsZero() {
		return time.Time{}
	}
	return r.Start.AddDate(0, 0, day-1)
}

// Describe summarises the constraints for user-facing error messages.
func (r Request) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-day trip to %s", r.TripDays(), r.City)
	if len(r.Districts) > 0 {
		fmt.Fprintf(&b, " (districts: %s)", strings.Join(r.Districts, ", "))
	}
	if len(r.Interests) > 0 {
		fmt.Fprintf(&b, " (interests: %s)", strings.Join(r.Interests, ", "))
	}
	return b.String()
}

func normalizeList(in []string, lower bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if lower {
			s = strings.ToLower(s)
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
