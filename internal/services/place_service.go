package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"
	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

const maxPageSize = 100

type PlaceServiceInterface interface {
	GetPlace(ctx context.Context, slug string) (*response_models.Place, error)
	ListPlaces(ctx context.Context, query request_models.PlaceListQuery) (*response_models.PlacePage, error)
	Facets(ctx context.Context, city string) (*response_models.Facets, error)
	UpsertPlace(ctx context.Context, req request_models.UpsertPlaceRequest) (*response_models.Place, error)
}

type PlaceService struct {
	placeRepo     repositories.PlaceRepository
	embeddingRepo repositories.PlaceEmbeddingRepository
	embedder      utils.LLMClientInterface
}

func NewPlaceService(
	placeRepo repositories.PlaceRepository,
	embeddingRepo repositories.PlaceEmbeddingRepository,
	embedder utils.LLMClientInterface,
) PlaceServiceInterface {
	return &PlaceService{
		placeRepo:     placeRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
	}
}

func (s *PlaceService) GetPlace(ctx context.Context, slug string) (*response_models.Place, error) {
	place, err := s.placeRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		log.Printf("[Places] lookup %q failed: %v", slug, err)
		return nil, utils.ErrDatabaseError
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}
	resp := toPlaceResponse(*place)
	return &resp, nil
}

func (s *PlaceService) ListPlaces(ctx context.Context, query request_models.PlaceListQuery) (*response_models.PlacePage, error) {
	if query.Page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if query.PageSize < 1 || query.PageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	places, err := s.placeRepo.List(ctx, repositories.PlaceListFilter{
		City:     query.City,
		District: query.District,
		Tag:      query.Tag,
	}, query.Page, query.PageSize)
	if err != nil {
		log.Printf("[Places] list failed: %v", err)
		return nil, utils.ErrDatabaseError
	}

	items := make([]response_models.Place, 0, len(places))
	for _, p := range places {
		items = append(items, toPlaceResponse(p))
	}
	return &response_models.PlacePage{Items: items, Page: query.Page, PageSize: query.PageSize}, nil
}

func (s *PlaceService) Facets(ctx context.Context, city string) (*response_models.Facets, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", utils.ErrInvalidInput)
	}

	tags, err := s.placeRepo.TagFacets(ctx, city)
	if err != nil {
		log.Printf("[Places] tag facets for %s failed: %v", city, err)
		return nil, utils.ErrDatabaseError
	}
	districts, err := s.placeRepo.DistrictFacets(ctx, city)
	if err != nil {
		log.Printf("[Places] district facets for %s failed: %v", city, err)
		return nil, utils.ErrDatabaseError
	}

	return &response_models.Facets{
		City:      city,
		Tags:      toFacetCounts(tags),
		Districts: toFacetCounts(districts),
	}, nil
}

// UpsertPlace stores a catalog record and, when an embedding client is
// configured, refreshes its embedding. An embedding failure does not fail the
// upsert.
func (s *PlaceService) UpsertPlace(ctx context.Context, req request_models.UpsertPlaceRequest) (*response_models.Place, error) {
	if err := validateUpsert(req); err != nil {
		return nil, err
	}

	place := db_models.Place{
		Slug:               strings.TrimSpace(req.Slug),
		Name:               strings.TrimSpace(req.Name),
		City:               strings.TrimSpace(req.City),
		District:           strings.TrimSpace(req.District),
		Type:               strings.TrimSpace(req.Type),
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Tags:               pq.StringArray(cleanList(req.Tags, true)),
		Rating:             req.Rating,
		Popularity:         req.Popularity,
		EstimatedVisitTime: req.EstimatedVisitTime,
		Excerpt:            strings.TrimSpace(req.Excerpt),
	}

	if err := s.placeRepo.Upsert(ctx, &place); err != nil {
		log.Printf("[Places] upsert %q failed: %v", place.Slug, err)
		return nil, utils.ErrDatabaseError
	}

	s.refreshEmbedding(ctx, place)

	stored, err := s.placeRepo.GetBySlug(ctx, place.Slug)
	if err != nil || stored == nil {
		resp := toPlaceResponse(place)
		return &resp, nil
	}
	resp := toPlaceResponse(*stored)
	return &resp, nil
}

func (s *PlaceService) refreshEmbedding(ctx context.Context, place db_models.Place) {
	if s.embedder == nil || s.embeddingRepo == nil {
		return
	}

	vector, err := s.embedder.GetEmbedding(ctx, embeddingText(place))
	if err != nil {
		log.Printf("[Places] embedding for %q failed: %v", place.Slug, err)
		return
	}
	err = s.embeddingRepo.Upsert(ctx, db_models.PlaceEmbedding{
		Slug:      place.Slug,
		City:      place.City,
		Tags:      place.Tags,
		Embedding: vector,
	})
	if err != nil {
		log.Printf("[Places] storing embedding for %q failed: %v", place.Slug, err)
	}
}

func validateUpsert(req request_models.UpsertPlaceRequest) error {
	switch {
	case strings.TrimSpace(req.Slug) == "":
		return fmt.Errorf("%w: slug is required", utils.ErrInvalidInput)
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	case strings.TrimSpace(req.City) == "":
		return fmt.Errorf("%w: city is required", utils.ErrInvalidInput)
	case req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5):
		return fmt.Errorf("%w: rating must be between 0 and 5", utils.ErrInvalidInput)
	case req.Popularity < 0 || req.Popularity > 100:
		return fmt.Errorf("%w: popularity_score must be between 0 and 100", utils.ErrInvalidInput)
	case req.EstimatedVisitTime < 0:
		return fmt.Errorf("%w: estimated_visit_time must not be negative", utils.ErrInvalidInput)
	case req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180:
		return fmt.Errorf("%w: coordinates out of range", utils.ErrInvalidInput)
	}
	return nil
}

func embeddingText(p db_models.Place) string {
	parts := []string{p.Name, p.City, p.District, p.Type, strings.Join(p.Tags, " "), p.Excerpt}
	return strings.Join(cleanList(parts, false), " ")
}

func toPlaceResponse(p db_models.Place) response_models.Place {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return response_models.Place{
		ID:          p.ID.String(),
		Slug:        p.Slug,
		Name:        p.Name,
		City:        p.City,
		District:    p.District,
		Type:        p.Type,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Tags:        tags,
		Rating:      p.Rating,
		Popularity:  p.Popularity,
		DurationMin: p.EstimatedVisitTime,
		Excerpt:     p.Excerpt,
	}
}

func toFacetCounts(rows []repositories.FacetRow) []response_models.FacetCount {
	out := make([]response_models.FacetCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, response_models.FacetCount{Value: r.Value, Count: r.Count})
	}
	return out
}

// cleanList trims, drops empties and duplicates, keeping first-seen order.
func cleanList(in []string, lower bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if lower {
			s = strings.ToLower(s)
		}
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
