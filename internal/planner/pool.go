package planner

import (
	"strings"

	"github.com/paulmach/orb"
)

// Pool holds the place records fetched for one request. It is read-only once built.
type Pool struct {
	places []Place
	bySlug map[string]int
}

// NewPool normalises the records and keeps insertion order. A repeated slug keeps
// its first record; records without a slug or name are skipped.
func NewPool(places []Place) *Pool {
	p := &Pool{
		places: make([]Place, 0, len(places)),
		bySlug: make(map[string]int, len(places)),
	}
	for _, pl := range places {
		pl.Slug = strings.TrimSpace(pl.Slug)
		if pl.Slug == "" || strings.TrimSpace(pl.Name) == "" {
			continue
		}
		if _, dup := p.bySlug[pl.Slug]; dup {
			continue
		}
		p.bySlug[pl.Slug] = len(p.places)
		p.places = append(p.places, normalizePlace(pl))
	}
	return p
}

func normalizePlace(pl Place) Place {
	if pl.DurationMin <= 0 {
		pl.DurationMin = DefaultVisitMinutes
	}
	if pl.Popularity < 0 {
		pl.Popularity = 0
	}
	if pl.Popularity > 100 {
		pl.Popularity = 100
	}
	if pl.Rating != nil {
		r := *pl.Rating
		switch {
		case r < 0:
			r = 0
		case r > 5:
			r = 5
		}
		pl.Rating = &r
	}
	pl.District = strings.TrimSpace(pl.District)
	pl.Tags = normalizeList(pl.Tags, true)
	return pl
}

func (p *Pool) Len() int { return len(p.places) }

// All returns the full ordered sequence as received.
func (p *Pool) All() []Place {
	out := make([]Place, len(p.places))
	copy(out, p.places)
	return out
}

// Lookup returns the place with the given slug.
func (p *Pool) Lookup(slug string) (Place, bool) {
	i, ok := p.bySlug[slug]
	if !ok {
		return Place{}, false
	}
	return p.places[i], true
}

// FilterByDistrict returns the places whose district is in allow (case-insensitive),
// or the full pool when allow is empty.
func (p *Pool) FilterByDistrict(allow []string) []Place {
	if len(allow) == 0 {
		return p.All()
	}
	set := make(map[string]bool, len(allow))
	for _, d := range allow {
		set[strings.ToLower(strings.TrimSpace(d))] = true
	}
	out := make([]Place, 0, len(p.places))
	for _, pl := range p.places {
		if set[strings.ToLower(pl.District)] {
			out = append(out, pl)
		}
	}
	return out
}

// filterByCity drops places explicitly tagged with another city. Places without a
// city are kept since the search already scoped them.
func filterByCity(places []Place, city string) []Place {
	city = strings.TrimSpace(city)
	if city == "" {
		return places
	}
	out := places[:0:0]
	for _, pl := range places {
		if pl.City == "" || strings.EqualFold(pl.City, city) {
			out = append(out, pl)
		}
	}
	return out
}

// filterWithin keeps the places inside the bound, skipping places without coordinates.
func filterWithin(places []Place, bound orb.Bound) []Place {
	out := places[:0:0]
	for _, pl := range places {
		if !pl.HasCoordinates() {
			continue
		}
		if bound.Contains(orb.Point{pl.Lng, pl.Lat}) {
			out = append(out, pl)
		}
	}
	return out
}
