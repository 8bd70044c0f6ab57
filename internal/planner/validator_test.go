package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visit(slug string, minutes int) ScheduledVisit {
	return ScheduledVisit{Name: slug, Slug: slug, DurationMin: minutes}
}

func knownCandidates(slugs ...string) []Candidate {
	out := make([]Candidate, 0, len(slugs))
	for _, s := range slugs {
		out = append(out, Candidate{Place: Place{Name: s, Slug: s}})
	}
	return out
}

func TestValidator_AcceptsPackedPlan(t *testing.T) {
	ranked := candidatesOf(lisbonPlaces()...)
	days := NewPacker(DefaultBudgets, DefaultVisitsPerDay).Pack(ranked, 3, PaceModerate)

	out, rep, err := NewValidator(DefaultBudgets).Validate(days, 3, ranked)
	require.NoError(t, err)
	assert.False(t, rep.Any())
	assert.Equal(t, days, out)
}

func TestValidator_RemovesDuplicates(t *testing.T) {
	days := []DayPlan{emptyDay(1), emptyDay(2)}
	days[0].Blocks[0].Visits = []ScheduledVisit{visit("castle", 60), visit("tram", 60)}
	days[1].Blocks[1].Visits = []ScheduledVisit{visit("castle", 60), visit("market", 60)}

	out, rep, err := NewValidator(DefaultBudgets).Validate(days, 2, knownCandidates("castle", "tram", "market"))
	require.NoError(t, err)

	assert.Equal(t, 1, rep.DuplicatesRemoved)
	assert.Equal(t, []string{"castle", "tram"}, blockSlugs(out[0].Blocks[0]))
	assert.Equal(t, []string{"market"}, blockSlugs(out[1].Blocks[1]))

	// input untouched
	assert.Len(t, days[1].Blocks[1].Visits, 2)
}

func TestValidator_TrimsOverflow(t *testing.T) {
	days := []DayPlan{emptyDay(1)}
	days[0].Blocks[0].Visits = []ScheduledVisit{visit("a", 120), visit("b", 100), visit("c", 60)}
	days[0].Blocks[2].Visits = []ScheduledVisit{visit("d", 200)}

	out, rep, err := NewValidator(DefaultBudgets).Validate(days, 1, knownCandidates("a", "b", "c", "d"))
	require.NoError(t, err)

	assert.Equal(t, 2, rep.OverflowTrimmed)
	assert.Equal(t, []string{"a", "b"}, blockSlugs(out[0].Blocks[0]))
	assert.Empty(t, out[0].Blocks[2].Visits)
}

func TestValidator_Fatal(t *testing.T) {
	tests := []struct {
		name  string
		days  func() []DayPlan
		trip  int
		known []Candidate
	}{
		{
			name:  "wrong day count",
			days:  func() []DayPlan { return []DayPlan{emptyDay(1)} },
			trip:  2,
			known: knownCandidates(),
		},
		{
			name:  "misnumbered day",
			days:  func() []DayPlan { return []DayPlan{emptyDay(1), emptyDay(3)} },
			trip:  2,
			known: knownCandidates(),
		},
		{
			name: "blocks out of order",
			days: func() []DayPlan {
				d := emptyDay(1)
				d.Blocks[0].Period, d.Blocks[2].Period = Evening, Morning
				return []DayPlan{d}
			},
			trip:  1,
			known: knownCandidates(),
		},
		{
			name: "unknown place",
			days: func() []DayPlan {
				d := emptyDay(1)
				d.Blocks[1].Visits = []ScheduledVisit{visit("ghost", 60)}
				return []DayPlan{d}
			},
			trip:  1,
			known: knownCandidates("castle"),
		},
		{
			name: "zero duration",
			days: func() []DayPlan {
				d := emptyDay(1)
				d.Blocks[1].Visits = []ScheduledVisit{visit("castle", 0)}
				return []DayPlan{d}
			},
			trip:  1,
			known: knownCandidates("castle"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewValidator(DefaultBudgets).Validate(tt.days(), tt.trip, tt.known)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
