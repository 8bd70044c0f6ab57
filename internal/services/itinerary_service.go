package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/planner"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/cache"
	"wayfarer/pkg/utils"
)

const (
	GeneratedByEngine    = "engine"
	GeneratedByEngineLLM = "engine+llm"
)

type ItineraryServiceInterface interface {
	CreateItinerary(ctx context.Context, sessionID string, req request_models.ItineraryRequest) (*response_models.ItineraryResponse, error)
	GetItinerary(ctx context.Context, id string) (*response_models.ItineraryResponse, error)
}

type ItineraryService struct {
	engine      *planner.Engine
	searcher    PlaceSearcher
	enricher    EnrichmentServiceInterface
	preferences PreferenceServiceInterface
	repo        repositories.ItineraryRepository
	cache       cache.ItineraryCache
	hitsPerPage int

	newID func(time.Time) string
	now   func() time.Time
}

type ItineraryDeps struct {
	Engine      *planner.Engine
	Searcher    PlaceSearcher
	Enricher    EnrichmentServiceInterface
	Preferences PreferenceServiceInterface
	Repo        repositories.ItineraryRepository
	Cache       cache.ItineraryCache
	HitsPerPage int
}

func NewItineraryService(deps ItineraryDeps) ItineraryServiceInterface {
	return &ItineraryService{
		engine:      deps.Engine,
		searcher:    deps.Searcher,
		enricher:    deps.Enricher,
		preferences: deps.Preferences,
		repo:        deps.Repo,
		cache:       deps.Cache,
		hitsPerPage: deps.HitsPerPage,
		newID:       newPublicID,
		now:         time.Now,
	}
}

// CreateItinerary fetches the candidate pool, runs the engine and optionally
// enriches the text. Identical requests are served from the cache.
func (s *ItineraryService) CreateItinerary(ctx context.Context, sessionID string, body request_models.ItineraryRequest) (*response_models.ItineraryResponse, error) {
	body = s.withDefaults(sessionID, body)

	req, err := toPlannerRequest(body)
	if err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached response_models.ItineraryResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				log.Printf("[Itinerary] cache hit for %s", req.Describe())
				return &cached, nil
			}
		}
	}

	started := time.Now()
	limit := s.engine.MaxCandidates(req)
	if s.hitsPerPage > limit {
		limit = s.hitsPerPage
	}
	places, err := s.searcher.SearchPlaces(ctx, PlaceQuery{
		City:      req.City,
		Districts: req.Districts,
		Interests: req.Interests,
		Limit:     limit,
	})
	if err != nil {
		log.Printf("[Itinerary] place search failed: %v", err)
		return nil, err
	}

	result, err := s.engine.Plan(planner.NewPool(places), req)
	if err != nil {
		if errors.Is(err, planner.ErrValidation) {
			log.Printf("[Itinerary] engine produced an invalid itinerary for %s: %v", req.Describe(), err)
		}
		return nil, err
	}
	if result.Repairs.Any() {
		log.Printf("[Itinerary] validator repaired %d duplicates and %d overflows",
			result.Repairs.DuplicatesRemoved, result.Repairs.OverflowTrimmed)
	}

	doc := result.Document
	generatedBy := GeneratedByEngine
	if s.enricher != nil {
		if enriched, ok := s.enricher.Enrich(ctx, req, doc); ok {
			doc = enriched
			generatedBy = GeneratedByEngineLLM
		}
	}

	now := s.now()
	resp := &response_models.ItineraryResponse{
		ID:          s.newID(now),
		City:        req.City,
		TripDays:    req.TripDays(),
		Pace:        string(req.Pace),
		GeneratedBy: generatedBy,
		CreatedAt:   utils.FormatRFC3339(now),
		Document:    doc,
	}
	log.Printf("[Itinerary] %s planned from %d candidates, %d stops in %s",
		resp.ID, result.Candidates, doc.VisitCount(), time.Since(started))

	if err := s.persist(ctx, resp, body, now); err != nil {
		// the caller still gets the itinerary, it just cannot be fetched by id later
		log.Printf("[Itinerary] failed to persist %s: %v", resp.ID, err)
		return resp, nil
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, raw); err != nil {
				log.Printf("[Itinerary] cache write failed: %v", err)
			}
		}
	}
	return resp, nil
}

func (s *ItineraryService) GetItinerary(ctx context.Context, id string) (*response_models.ItineraryResponse, error) {
	id = strings.TrimSpace(id)
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, utils.ErrItineraryNotFound
	}

	stored, err := s.repo.GetByPublicID(ctx, id)
	if err != nil {
		log.Printf("[Itinerary] loading %s failed: %v", id, err)
		return nil, utils.ErrDatabaseError
	}
	if stored == nil {
		return nil, utils.ErrItineraryNotFound
	}

	var doc planner.Document
	if err := json.Unmarshal([]byte(stored.Document), &doc); err != nil {
		log.Printf("[Itinerary] stored document %s is corrupt: %v", id, err)
		return nil, utils.ErrDatabaseError
	}

	return &response_models.ItineraryResponse{
		ID:          stored.PublicID,
		City:        stored.City,
		TripDays:    stored.TripDays,
		Pace:        stored.Pace,
		GeneratedBy: stored.GeneratedBy,
		CreatedAt:   utils.FormatRFC3339(stored.CreatedTime()),
		Document:    doc,
	}, nil
}

func (s *ItineraryService) persist(ctx context.Context, resp *response_models.ItineraryResponse, body request_models.ItineraryRequest, now time.Time) error {
	if s.repo == nil {
		return nil
	}
	reqJSON, err := json.Marshal(body)
	if err != nil {
		return err
	}
	docJSON, err := json.Marshal(resp.Document)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, &db_models.Itinerary{
		BaseModel:   db_models.BaseModel{CreatedAt: now.Unix()},
		PublicID:    resp.ID,
		City:        resp.City,
		TripDays:    resp.TripDays,
		Pace:        resp.Pace,
		Request:     string(reqJSON),
		Document:    string(docJSON),
		GeneratedBy: resp.GeneratedBy,
	})
}

// withDefaults fills interests, pace and districts the request left empty from
// the session's stored preferences.
func (s *ItineraryService) withDefaults(sessionID string, body request_models.ItineraryRequest) request_models.ItineraryRequest {
	if s.preferences == nil || sessionID == "" {
		return body
	}
	prefs, ok := s.preferences.Defaults(sessionID)
	if !ok {
		return body
	}
	if len(body.Interests) == 0 {
		body.Interests = prefs.Interests
	}
	if strings.TrimSpace(body.Pace) == "" {
		body.Pace = prefs.Pace
	}
	if len(body.Districts) == 0 {
		body.Districts = prefs.Districts
	}
	return body
}

func toPlannerRequest(body request_models.ItineraryRequest) (planner.Request, error) {
	req, err := planner.NewRequest(body.City, body.Districts, body.Dates.Start, body.Dates.End, body.Interests, body.Pace)
	if err != nil {
		return planner.Request{}, err
	}
	if near := body.Near; near != nil {
		if near.Lat < -90 || near.Lat > 90 || near.Lng < -180 || near.Lng > 180 {
			return planner.Request{}, fmt.Errorf("%w: near coordinates out of range", planner.ErrInvalidRequest)
		}
		if near.RadiusKm <= 0 {
			return planner.Request{}, fmt.Errorf("%w: near.radius_km must be positive", planner.ErrInvalidRequest)
		}
		area := planner.AreaAround(near.Lat, near.Lng, near.RadiusKm)
		req.Area = &area
	}
	return req, nil
}

func cacheKey(req planner.Request) string {
	parts := []string{
		strings.ToLower(req.City),
		strings.Join(req.Districts, ","),
		req.Start.Format(planner.DateLayout),
		req.End.Format(planner.DateLayout),
		strings.Join(req.Interests, ","),
		string(req.Pace),
	}
	if req.Area != nil {
		parts = append(parts,
			strconv.FormatFloat(req.Area.Min[0], 'f', 5, 64),
			strconv.FormatFloat(req.Area.Min[1], 'f', 5, 64),
			strconv.FormatFloat(req.Area.Max[0], 'f', 5, 64),
			strconv.FormatFloat(req.Area.Max[1], 'f', 5, 64),
		)
	}
	return cache.Key(parts...)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newPublicID mints a sortable ULID. The monotonic entropy source is not safe
// for concurrent use.
func newPublicID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
