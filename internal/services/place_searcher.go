package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"wayfarer/internal/models/db_models"
	"wayfarer/internal/planner"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

// PlaceQuery is what the itinerary flow asks the place search for.
type PlaceQuery struct {
	City      string
	Districts []string
	Interests []string
	Limit     int
}

type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, query PlaceQuery) ([]planner.Place, error)
}

type SearchOptions struct {
	Timeout       time.Duration
	Retries       int
	MinSimilarity float64
	SemanticLimit int
}

type PlaceSearcherImpl struct {
	placeRepo     repositories.PlaceRepository
	embeddingRepo repositories.PlaceEmbeddingRepository
	embedder      utils.LLMClientInterface
	opts          SearchOptions
}

// NewPlaceSearcher returns the Postgres-backed searcher. embedder may be nil, in
// which case the semantic boost is skipped.
func NewPlaceSearcher(
	placeRepo repositories.PlaceRepository,
	embeddingRepo repositories.PlaceEmbeddingRepository,
	embedder utils.LLMClientInterface,
	opts SearchOptions,
) PlaceSearcher {
	if opts.SemanticLimit <= 0 {
		opts.SemanticLimit = 15
	}
	return &PlaceSearcherImpl{
		placeRepo:     placeRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
		opts:          opts,
	}
}

func (s *PlaceSearcherImpl) SearchPlaces(ctx context.Context, query PlaceQuery) ([]planner.Place, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	filter := repositories.PlaceFilter{
		City:      query.City,
		Districts: query.Districts,
		Interests: query.Interests,
		Limit:     query.Limit,
	}

	var rows []db_models.Place
	err := retry.Do(
		func() error {
			var err error
			rows, err = s.placeRepo.SearchPlaces(ctx, filter)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.opts.Retries)+1),
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[PlaceSearch] attempt %d for %s failed: %v", n+1, query.City, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", planner.ErrUpstreamUnavailable, err)
	}

	rows = s.semanticBoost(ctx, query, rows)

	places := make([]planner.Place, 0, len(rows))
	for _, row := range rows {
		places = append(places, toPlannerPlace(row))
	}
	return places, nil
}

// semanticBoost adds places whose embedding is close to the requested interests.
// Failures only cost the boost.
func (s *PlaceSearcherImpl) semanticBoost(ctx context.Context, query PlaceQuery, rows []db_models.Place) []db_models.Place {
	if s.embedder == nil || s.embeddingRepo == nil || len(query.Interests) == 0 {
		return rows
	}

	vector, err := s.embedder.GetEmbedding(ctx, query.City+" "+strings.Join(query.Interests, " "))
	if err != nil {
		log.Printf("[PlaceSearch] embedding failed, skipping semantic boost: %v", err)
		return rows
	}

	nearest, err := s.embeddingRepo.Nearest(ctx, vector, query.City, s.opts.SemanticLimit, s.opts.MinSimilarity)
	if err != nil || len(nearest) == 0 {
		if err != nil {
			log.Printf("[PlaceSearch] similarity query failed: %v", err)
		}
		return rows
	}

	known := make(map[string]bool, len(rows))
	for _, r := range rows {
		known[r.Slug] = true
	}
	var missing []string
	for _, e := range nearest {
		if !known[e.Slug] {
			missing = append(missing, e.Slug)
		}
	}
	if len(missing) == 0 {
		return rows
	}

	extra, err := s.placeRepo.ListBySlugs(ctx, missing)
	if err != nil {
		log.Printf("[PlaceSearch] loading %d semantic matches failed: %v", len(missing), err)
		return rows
	}
	merged := mergePlacesWithoutDuplicates(rows, extra)
	log.Printf("[PlaceSearch] %d places after semantic boost for %s", len(merged), query.City)
	return merged
}

func mergePlacesWithoutDuplicates(existing, more []db_models.Place) []db_models.Place {
	seen := make(map[string]bool, len(existing)+len(more))
	result := make([]db_models.Place, 0, len(existing)+len(more))

	for _, group := range [][]db_models.Place{existing, more} {
		for _, p := range group {
			if seen[p.Slug] {
				continue
			}
			seen[p.Slug] = true
			result = append(result, p)
		}
	}
	return result
}

func toPlannerPlace(p db_models.Place) planner.Place {
	return planner.Place{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		City:        p.City,
		District:    p.District,
		Type:        p.Type,
		Lat:         p.Latitude,
		Lng:         p.Longitude,
		Tags:        []string(p.Tags),
		Rating:      p.Rating,
		Popularity:  p.Popularity,
		DurationMin: p.EstimatedVisitTime,
		Excerpt:     p.Excerpt,
	}
}
