package planner

import (
	"fmt"
	"strings"
)

// Document is the externally visible itinerary.
type Document struct {
	Summary string   `json:"summary,omitempty"`
	Days    []DayDoc `json:"days"`
}

type DayDoc struct {
	Day    int        `json:"day"`
	Date   string     `json:"date,omitempty"`
	Blocks []BlockDoc `json:"blocks"`
}

type BlockDoc struct {
	Period Period     `json:"period"`
	Visits []VisitDoc `json:"visits"`
}

type VisitDoc struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	DurationMin int    `json:"duration_min"`
	Note        string `json:"note"`
	StartTime   string `json:"start_time,omitempty"`
}

// VisitCount returns the number of visits across the document.
func (d Document) VisitCount() int {
	n := 0
	for _, day := range d.Days {
		for _, b := range day.Blocks {
			n += len(b.Visits)
		}
	}
	return n
}

// Slugs returns every scheduled slug in visiting order.
func (d Document) Slugs() []string {
	var out []string
	for _, day := range d.Days {
		for _, b := range day.Blocks {
			for _, v := range b.Visits {
				out = append(out, v.Slug)
			}
		}
	}
	return out
}

type Formatter struct{}

// Format serialises validated days into the document.
func (Formatter) Format(days []DayPlan, req Request) Document {
	doc := Document{Days: make([]DayDoc, 0, len(days))}
	for _, d := range days {
		dd := DayDoc{Day: d.Day, Blocks: make([]BlockDoc, 0, len(d.Blocks))}
		if !d.Date.IsZero() {
			dd.Date = d.Date.Format(DateLayout)
		}
		for _, b := range d.Blocks {
			bd := BlockDoc{Period: b.Period, Visits: make([]VisitDoc, 0, len(b.Visits))}
			for _, v := range b.Visits {
				bd.Visits = append(bd.Visits, VisitDoc{
					Name:        v.Name,
					Slug:        v.Slug,
					DurationMin: v.DurationMin,
					Note:        v.Note,
					StartTime:   v.StartTime,
				})
			}
			dd.Blocks = append(dd.Blocks, bd)
		}
		doc.Days = append(doc.Days, dd)
	}
	doc.Summary = Summarize(req, countVisits(days))
	return doc
}

// Summarize renders the one-paragraph overview. It is empty when nothing was scheduled.
func Summarize(req Request, visits int) string {
	if visits == 0 {
		return ""
	}
	stopWord := "stop"
	if visits != 1 {
		stopWord = "stops"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A %d-day %s-paced trip through %s", req.TripDays(), paceOrDefault(req.Pace), req.City)
	if top := topInterests(req.Interests, 2); len(top) > 0 {
		fmt.Fprintf(&b, " focused on %s", joinAnd(top))
	}
	fmt.Fprintf(&b, ", with %d %s.", visits, stopWord)
	return b.String()
}

func paceOrDefault(p Pace) Pace {
	if p == "" {
		return PaceModerate
	}
	return p
}

func topInterests(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func rationale(c Candidate) string {
	var note string
	switch {
	case len(c.MatchedTags) > 0:
		note = "Fits your interest in " + joinAnd(c.MatchedTags)
	case c.Rating != nil && *c.Rating >= 4:
		note = fmt.Sprintf("Highly rated (%.1f/5)", *c.Rating)
	case c.Popularity >= 70:
		note = "A local favourite"
	case c.Type != "":
		note = "A well-placed " + c.Type + " stop"
	default:
		note = "Worth a stop"
	}
	if c.District != "" {
		note += " (" + c.District + ")"
	}
	return note
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
