package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockSlugs(b VisitBlock) []string {
	out := make([]string, 0, len(b.Visits))
	for _, v := range b.Visits {
		out = append(out, v.Slug)
	}
	return out
}

func TestPacker_Shape(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	ranked := candidatesOf(
		Place{Name: "A", Slug: "a", DurationMin: 60},
		Place{Name: "B", Slug: "b", DurationMin: 60},
	)

	days := p.Pack(ranked, 3, PaceRelaxed)

	require.Len(t, days, 3)
	for i, d := range days {
		assert.Equal(t, i+1, d.Day)
		for bi, b := range d.Blocks {
			assert.Equal(t, Periods[bi], b.Period)
			assert.NotNil(t, b.Visits)
		}
	}
	assert.Equal(t, 2, days[0].VisitCount())
	assert.Equal(t, 0, days[1].VisitCount())
	assert.Equal(t, 0, days[2].VisitCount())
}

func TestPacker_SpreadsAcrossBlocks(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	ranked := candidatesOf(
		Place{Name: "A", Slug: "a", DurationMin: 60},
		Place{Name: "B", Slug: "b", DurationMin: 60},
		Place{Name: "C", Slug: "c", DurationMin: 60},
	)

	days := p.Pack(ranked, 1, PaceRelaxed)

	require.Len(t, days, 1)
	assert.Equal(t, []string{"a"}, blockSlugs(days[0].Blocks[0]))
	assert.Equal(t, []string{"b"}, blockSlugs(days[0].Blocks[1]))
	assert.Empty(t, days[0].Blocks[2].Visits)
}

func TestPacker_GroupsByDistrict(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	ranked := candidatesOf(
		Place{Name: "A", Slug: "a", District: "Alfama", DurationMin: 60},
		Place{Name: "B", Slug: "b", District: "Baixa", DurationMin: 60},
		Place{Name: "C", Slug: "c", District: "Alfama", DurationMin: 60},
	)

	days := p.Pack(ranked, 1, PaceFast)

	assert.Equal(t, []string{"a", "c"}, blockSlugs(days[0].Blocks[0]))
	assert.Equal(t, []string{"b"}, blockSlugs(days[0].Blocks[1]))
}

func TestPacker_RespectsBudgets(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	ranked := candidatesOf(
		Place{Name: "A", Slug: "a", DurationMin: 200},
		Place{Name: "B", Slug: "b", DurationMin: 200},
		Place{Name: "C", Slug: "c", DurationMin: 200},
	)

	days := p.Pack(ranked, 1, PaceFast)

	assert.Equal(t, []string{"a"}, blockSlugs(days[0].Blocks[0]))
	assert.Equal(t, []string{"b"}, blockSlugs(days[0].Blocks[1]))
	assert.Empty(t, days[0].Blocks[2].Visits, "200 minutes never fits the evening")

	for _, b := range days[0].Blocks {
		assert.LessOrEqual(t, b.TotalMinutes(), DefaultBudgets.For(b.Period))
	}
}

func TestPacker_StartTimes(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	ranked := candidatesOf(
		Place{Name: "A", Slug: "a", DurationMin: 90},
		Place{Name: "B", Slug: "b", DurationMin: 60},
		Place{Name: "C", Slug: "c", DurationMin: 60},
	)

	days := p.Pack(ranked, 1, PaceFast)

	morning := days[0].Blocks[0].Visits
	require.Len(t, morning, 2)
	assert.Equal(t, "09:00", morning[0].StartTime)
	assert.Equal(t, "10:30", morning[1].StartTime)
	require.Len(t, days[0].Blocks[1].Visits, 1)
	assert.Equal(t, "13:00", days[0].Blocks[1].Visits[0].StartTime)
}

func TestPacker_StartTimesNeverOverlap(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	ranked := candidatesOf(
		Place{Name: "A", Slug: "a", DurationMin: 120, Lat: 38.70, Lng: -9.14},
		Place{Name: "B", Slug: "b", DurationMin: 120, Lat: 38.72, Lng: -9.14},
		Place{Name: "C", Slug: "c", DurationMin: 60},
	)

	days := p.Pack(ranked, 1, PaceFast)

	morning := days[0].Blocks[0].Visits
	require.Len(t, morning, 2)
	assert.Equal(t, "09:00", morning[0].StartTime)
	assert.Equal(t, "11:30", morning[1].StartTime)
	require.Len(t, days[0].Blocks[1].Visits, 1)
	assert.Equal(t, "13:30", days[0].Blocks[1].Visits[0].StartTime)

	end := 0
	for _, b := range days[0].Blocks {
		for _, v := range b.Visits {
			start := minuteOf(t, v.StartTime)
			assert.GreaterOrEqual(t, start, end, "%s starts before the previous visit ends", v.Slug)
			end = start + v.DurationMin
		}
	}
}

func minuteOf(t *testing.T, hhmm string) int {
	t.Helper()
	var h, m int
	_, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	require.NoError(t, err)
	return h*60 + m
}

func TestPacker_FastPacksMoreThanRelaxed(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	ranked := candidatesOf(lisbonPlaces()...)

	total := func(days []DayPlan) int { return countVisits(days) }

	fast := total(p.Pack(ranked, 3, PaceFast))
	relaxed := total(p.Pack(ranked, 3, PaceRelaxed))
	assert.Greater(t, fast, relaxed)
	assert.Equal(t, 15, fast)
	assert.Equal(t, 6, relaxed)
}

func TestPacker_NoDuplicates(t *testing.T) {
	p := NewPacker(DefaultBudgets, DefaultVisitsPerDay)
	days := p.Pack(candidatesOf(lisbonPlaces()...), 5, PaceFast)

	seen := map[string]bool{}
	for _, d := range days {
		for _, b := range d.Blocks {
			for _, v := range b.Visits {
				assert.False(t, seen[v.Slug], "slug %s scheduled twice", v.Slug)
				seen[v.Slug] = true
			}
		}
	}
	assert.Len(t, seen, 20)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:05", formatClock(545))
	assert.Equal(t, "00:10", formatClock(24*60+10))
}
