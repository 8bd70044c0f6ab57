package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func ratingPtr(r float64) *float64 { return &r }

// lisbonPlaces builds 20 Lisbon places with mixed tags, districts and durations.
func lisbonPlaces() []Place {
	districts := []string{"Alfama", "Baixa", "Belem", "Chiado"}
	tagSets := [][]string{
		{"food"},
		{"history"},
		{"nightlife"},
		{"shopping"},
		{"food", "history"},
	}
	places := make([]Place, 0, 20)
	for i := 0; i < 20; i++ {
		places = append(places, Place{
			ID:          fmt.Sprintf("p%02d", i),
			Name:        fmt.Sprintf("Place %02d", i),
			Slug:        fmt.Sprintf("place-%02d", i),
			City:        "Lisbon",
			District:    districts[i%4],
			Tags:        tagSets[i%5],
			Rating:      ratingPtr(3.5 + float64(i%4)*0.4),
			Popularity:  40 + (i*7)%50,
			DurationMin: 60 + (i%3)*30,
			Lat:         38.71 + float64(i)*0.002,
			Lng:         -9.14 + float64(i)*0.002,
		})
	}
	return places
}

func mustRequest(t *testing.T, start, end string, interests []string, pace string) Request {
	t.Helper()
	req, err := NewRequest("Lisbon", nil, start, end, interests, pace)
	require.NoError(t, err)
	return req
}

func candidatesOf(places ...Place) []Candidate {
	out := make([]Candidate, 0, len(places))
	for _, p := range places {
		out = append(out, Candidate{Place: p})
	}
	return out
}
