package planner

import "fmt"

// Repairs reports the corrections applied by the validator.
type Repairs struct {
	DuplicatesRemoved int
	OverflowTrimmed   int
}

func (r Repairs) Any() bool {
	return r.DuplicatesRemoved > 0 || r.OverflowTrimmed > 0
}

type Validator struct {
	Budgets Budgets
}

func NewValidator(b Budgets) Validator {
	return Validator{Budgets: b}
}

// Validate checks a packed itinerary and returns a repaired copy. Duplicate slugs
// and block overflows are repaired; a wrong day shape, a dangling place reference or
// a non-positive duration is fatal and wraps ErrValidation.
func (v Validator) Validate(days []DayPlan, tripDays int, candidates []Candidate) ([]DayPlan, Repairs, error) {
	var rep Repairs

	if len(days) != tripDays {
		return nil, rep, fmt.Errorf("%w: expected %d days, got %d", ErrValidation, tripDays, len(days))
	}
	for i, d := range days {
		if d.Day != i+1 {
			return nil, rep, fmt.Errorf("%w: day at position %d is numbered %d", ErrValidation, i+1, d.Day)
		}
		for bi, b := range d.Blocks {
			if b.Period != Periods[bi] {
				return nil, rep, fmt.Errorf("%w: day %d block %d is %q, want %q",
					ErrValidation, d.Day, bi+1, b.Period, Periods[bi])
			}
		}
	}

	out := cloneDays(days)

	seen := make(map[string]bool)
	for di := range out {
		for bi := range out[di].Blocks {
			block := &out[di].Blocks[bi]
			kept := block.Visits[:0]
			for _, visit := range block.Visits {
				if seen[visit.Slug] {
					rep.DuplicatesRemoved++
					continue
				}
				seen[visit.Slug] = true
				kept = append(kept, visit)
			}
			block.Visits = kept
		}
	}

	for di := range out {
		for bi := range out[di].Blocks {
			block := &out[di].Blocks[bi]
			budget := v.Budgets.For(block.Period)
			used := 0
			kept := block.Visits[:0]
			for _, visit := range block.Visits {
				if used+visit.DurationMin > budget {
					rep.OverflowTrimmed++
					continue
				}
				used += visit.DurationMin
				kept = append(kept, visit)
			}
			block.Visits = kept
		}
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.Slug] = true
	}
	for _, d := range out {
		for _, b := range d.Blocks {
			for _, visit := range b.Visits {
				if !known[visit.Slug] {
					return nil, rep, fmt.Errorf("%w: day %d %s references unknown place %q",
						ErrValidation, d.Day, b.Period, visit.Slug)
				}
				if visit.DurationMin <= 0 {
					return nil, rep, fmt.Errorf("%w: day %d %s visit %q has duration %d",
						ErrValidation, d.Day, b.Period, visit.Slug, visit.DurationMin)
				}
			}
		}
	}

	return out, rep, nil
}

func cloneDays(days []DayPlan) []DayPlan {
	out := make([]DayPlan, len(days))
	for i, d := range days {
		out[i] = d
		for bi, b := range d.Blocks {
			visits := make([]ScheduledVisit, len(b.Visits))
			copy(visits, b.Visits)
			out[i].Blocks[bi].Visits = visits
		}
	}
	return out
}
