package planner

import (
	"fmt"
	"strings"
)

// Budgets is the time budget in minutes of each block.
type Budgets struct {
	Morning   int `yaml:"morning"`
	Afternoon int `yaml:"afternoon"`
	Evening   int `yaml:"evening"`
}

var DefaultBudgets = Budgets{Morning: 240, Afternoon: 240, Evening: 180}

func (b Budgets) For(p Period) int {
	switch p {
	case Morning:
		return b.Morning
	case Afternoon:
		return b.Afternoon
	case Evening:
		return b.Evening
	}
	return 0
}

// VisitsPerDay is the concrete visit target of each pace. The defaults are the
// midpoints of 2-3, 3-4 and 4-6 rounded down.
type VisitsPerDay struct {
	Relaxed  int `yaml:"relaxed"`
	Moderate int `yaml:"moderate"`
	Fast     int `yaml:"fast"`
}

var DefaultVisitsPerDay = VisitsPerDay{Relaxed: 2, Moderate: 3, Fast: 5}

func (v VisitsPerDay) For(p Pace) int {
	switch p {
	case PaceRelaxed:
		return v.Relaxed
	case PaceFast:
		return v.Fast
	default:
		return v.Moderate
	}
}

// opening minute of day for each block
var blockOpening = map[Period]int{
	Morning:   9 * 60,
	Afternoon: 13 * 60,
	Evening:   18 * 60,
}

// Packer distributes ranked candidates over days and blocks. It is a pure function
// of its inputs.
type Packer struct {
	Budgets      Budgets
	VisitsPerDay VisitsPerDay
}

func NewPacker(b Budgets, v VisitsPerDay) Packer {
	return Packer{Budgets: b, VisitsPerDay: v}
}

// Pack returns exactly tripDays days with three blocks each. Candidates left over
// once every day is full are dropped.
func (p Packer) Pack(ranked []Candidate, tripDays int, pace Pace) []DayPlan {
	remaining := make([]Candidate, len(ranked))
	copy(remaining, ranked)

	target := p.VisitsPerDay.For(pace)
	days := make([]DayPlan, 0, tripDays)

	for d := 1; d <= tripDays; d++ {
		day := emptyDay(d)
		placed := 0
		lastDistrict := ""
		// end of the previous visit of the day and where it happened
		clock := 0
		var prev *Place

		for bi, period := range Periods {
			left := target - placed
			if left <= 0 || len(remaining) == 0 {
				break
			}
			quota := ceilDiv(left, len(Periods)-bi)
			budget := p.Budgets.For(period)
			used := 0

			for n := 0; n < quota; n++ {
				idx := pickNext(remaining, budget-used, lastDistrict)
				if idx < 0 {
					break
				}
				c := remaining[idx]
				remaining = append(remaining[:idx], remaining[idx+1:]...)

				start := clock
				if prev != nil {
					start += TravelMinutes(*prev, c.Place)
				}
				if start < blockOpening[period] {
					start = blockOpening[period]
				}
				day.Blocks[bi].Visits = append(day.Blocks[bi].Visits, ScheduledVisit{
					Name:        c.Name,
					Slug:        c.Slug,
					District:    c.District,
					DurationMin: c.DurationMin,
					Note:        rationale(c),
					StartTime:   formatClock(start),
				})

				clock = start + c.DurationMin
				used += c.DurationMin
				placed++
				if c.District != "" {
					lastDistrict = c.District
				}
				placeCopy := c.Place
				prev = &placeCopy
			}
		}
		days = append(days, day)
	}
	return days
}

// pickNext returns the index of the next candidate to place: the first that fits the
// budget and shares district, else the first that fits, else -1.
func pickNext(remaining []Candidate, budgetLeft int, district string) int {
	first := -1
	for i, c := range remaining {
		if c.DurationMin > budgetLeft {
			continue
		}
		if district != "" && strings.EqualFold(c.District, district) {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}

func emptyDay(n int) DayPlan {
	day := DayPlan{Day: n}
	for i, period := range Periods {
		day.Blocks[i] = VisitBlock{Period: period, Visits: []ScheduledVisit{}}
	}
	return day
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func formatClock(minuteOfDay int) string {
	minuteOfDay %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}
