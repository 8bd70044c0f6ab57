package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"wayfarer/internal/models/db_models"
	"wayfarer/internal/planner"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

var errBoom = errors.New("boom")

func samplePlaces(n int) []planner.Place {
	districts := []string{"Alfama", "Baixa", "Belem"}
	tags := [][]string{{"food", "market"}, {"history", "museum"}, {"views"}}
	out := make([]planner.Place, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, planner.Place{
			ID:          fmt.Sprintf("id-%02d", i),
			Name:        fmt.Sprintf("Place %02d", i),
			Slug:        fmt.Sprintf("place-%02d", i),
			City:        "Lisbon",
			District:    districts[i%3],
			Lat:         38.71 + float64(i)*0.001,
			Lng:         -9.14 - float64(i)*0.001,
			Tags:        tags[i%3],
			Popularity:  50 + i,
			DurationMin: 60,
		})
	}
	return out
}

func sampleRows(n int) []db_models.Place {
	out := make([]db_models.Place, 0, n)
	for _, p := range samplePlaces(n) {
		out = append(out, db_models.Place{
			BaseModel:          db_models.BaseModel{ID: uuid.New()},
			Slug:               p.Slug,
			Name:               p.Name,
			City:               p.City,
			District:           p.District,
			Latitude:           p.Lat,
			Longitude:          p.Lng,
			Tags:               p.Tags,
			Popularity:         p.Popularity,
			EstimatedVisitTime: p.DurationMin,
		})
	}
	return out
}

type fakePlaceRepo struct {
	mu       sync.Mutex
	rows     []db_models.Place
	searchN  int
	failures int
	err      error
	calls    int
	filters  []repositories.PlaceFilter
	upserted []db_models.Place
	tags     []repositories.FacetRow
}

func (f *fakePlaceRepo) SearchPlaces(_ context.Context, filter repositories.PlaceFilter) ([]db_models.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if f.failures > 0 {
		f.failures--
		return nil, errBoom
	}
	if f.searchN > 0 && len(f.rows) > f.searchN {
		return f.rows[:f.searchN], nil
	}
	return f.rows, nil
}

func (f *fakePlaceRepo) GetBySlug(_ context.Context, slug string) (*db_models.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.rows {
		if r.Slug == slug {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakePlaceRepo) ListBySlugs(_ context.Context, slugs []string) ([]db_models.Place, error) {
	var out []db_models.Place
	for _, s := range slugs {
		for _, r := range f.rows {
			if r.Slug == s {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakePlaceRepo) List(_ context.Context, _ repositories.PlaceListFilter, page, pageSize int) ([]db_models.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	start := (page - 1) * pageSize
	if start >= len(f.rows) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[start:end], nil
}

func (f *fakePlaceRepo) Upsert(_ context.Context, place *db_models.Place) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, *place)
	f.rows = append(f.rows, *place)
	return nil
}

func (f *fakePlaceRepo) TagFacets(context.Context, string) ([]repositories.FacetRow, error) {
	return f.tags, f.err
}

func (f *fakePlaceRepo) DistrictFacets(context.Context, string) ([]repositories.FacetRow, error) {
	return []repositories.FacetRow{{Value: "Alfama", Count: 2}}, f.err
}

type fakeEmbeddingRepo struct {
	nearest  []db_models.PlaceEmbedding
	upserted []db_models.PlaceEmbedding
}

func (f *fakeEmbeddingRepo) Upsert(_ context.Context, e db_models.PlaceEmbedding) error {
	f.upserted = append(f.upserted, e)
	return nil
}

func (f *fakeEmbeddingRepo) Nearest(context.Context, pgvector.Vector, string, int, float64) ([]db_models.PlaceEmbedding, error) {
	return f.nearest, nil
}

type fakeLLM struct {
	reply    string
	err      error
	embedErr error
	prompts  []string
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeLLM) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	if f.embedErr != nil {
		return pgvector.Vector{}, f.embedErr
	}
	return utils.HashEmbedding(text), nil
}

func (f *fakeLLM) Name() string { return "fake" }

type fakeSearcher struct {
	places  []planner.Place
	err     error
	calls   int
	queries []PlaceQuery
}

func (f *fakeSearcher) SearchPlaces(_ context.Context, q PlaceQuery) ([]planner.Place, error) {
	f.calls++
	f.queries = append(f.queries, q)
	return f.places, f.err
}

type fakeItineraryRepo struct {
	stored map[string]db_models.Itinerary
	err    error
}

func newFakeItineraryRepo() *fakeItineraryRepo {
	return &fakeItineraryRepo{stored: map[string]db_models.Itinerary{}}
}

func (f *fakeItineraryRepo) Create(_ context.Context, it *db_models.Itinerary) error {
	if f.err != nil {
		return f.err
	}
	f.stored[it.PublicID] = *it
	return nil
}

func (f *fakeItineraryRepo) GetByPublicID(_ context.Context, id string) (*db_models.Itinerary, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.stored[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

type mapCache struct {
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) error {
	c.sets++
	c.data[key] = value
	return nil
}
