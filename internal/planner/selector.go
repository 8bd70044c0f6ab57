package planner

import (
	"sort"
	"strings"
)

// Weights controls the relevance score:
//
//	score = Interest*matched/max(1,len(interests)) + Rating*rating/5 + Popularity*popularity/100
//
// Interest matching is weighted twice as much as the other two terms by default.
type Weights struct {
	Interest   float64 `yaml:"interest"`
	Rating     float64 `yaml:"rating"`
	Popularity float64 `yaml:"popularity"`
}

var DefaultWeights = Weights{Interest: 2, Rating: 1, Popularity: 1}

const DefaultCandidatesPerDay = 4

// Selector reduces a pool to an ordered, bounded candidate list.
type Selector struct {
	Weights          Weights
	CandidatesPerDay int
}

func NewSelector(w Weights, perDay int) Selector {
	if perDay <= 0 {
		perDay = DefaultCandidatesPerDay
	}
	return Selector{Weights: w, CandidatesPerDay: perDay}
}

// Select filters, scores and ranks the pool. maxCandidates <= 0 uses
// tripDays*CandidatesPerDay. The result never exceeds the filtered pool size and
// may be empty.
func (s Selector) Select(pool *Pool, req Request, maxCandidates int) []Candidate {
	places := pool.FilterByDistrict(req.Districts)
	places = filterByCity(places, req.City)
	if req.Area != nil {
		places = filterWithin(places, *req.Area)
	}
	if len(places) == 0 {
		return []Candidate{}
	}

	if maxCandidates <= 0 {
		perDay := s.CandidatesPerDay
		if perDay <= 0 {
			perDay = DefaultCandidatesPerDay
		}
		maxCandidates = req.TripDays() * perDay
	}
	if maxCandidates > len(places) {
		maxCandidates = len(places)
	}

	ranked := make([]Candidate, 0, len(places))
	for _, pl := range places {
		matched := matchInterests(pl.Tags, req.Interests)
		ranked = append(ranked, Candidate{
			Place:       pl,
			Score:       s.Score(pl, len(matched), len(req.Interests)),
			MatchedTags: matched,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		return a.Slug < b.Slug
	})

	return ranked[:maxCandidates]
}

// Score computes the weighted relevance of a place.
func (s Selector) Score(pl Place, matched, totalInterests int) float64 {
	denom := totalInterests
	if denom < 1 {
		denom = 1
	}
	rating := 0.0
	if pl.Rating != nil {
		rating = *pl.Rating
	}
	return s.Weights.Interest*float64(matched)/float64(denom) +
		s.Weights.Rating*rating/5 +
		s.Weights.Popularity*float64(pl.Popularity)/100
}

// matchInterests returns the interests present in tags, in interest order.
func matchInterests(tags, interests []string) []string {
	if len(tags) == 0 || len(interests) == 0 {
		return nil
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = true
	}
	var out []string
	for _, in := range interests {
		if set[strings.ToLower(in)] {
			out = append(out, in)
		}
	}
	return out
}
