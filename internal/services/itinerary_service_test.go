package services

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/planner"
	mem "wayfarer/pkg/memcache"
	"wayfarer/pkg/utils"
)

type itineraryHarness struct {
	svc      *ItineraryService
	searcher *fakeSearcher
	repo     *fakeItineraryRepo
	cache    *mapCache
	prefs    PreferenceServiceInterface
}

func newItineraryHarness(places []planner.Place, enricher EnrichmentServiceInterface) *itineraryHarness {
	h := &itineraryHarness{
		searcher: &fakeSearcher{places: places},
		repo:     newFakeItineraryRepo(),
		cache:    newMapCache(),
		prefs:    NewPreferenceService(mem.NewSessionPreferences(), time.Hour),
	}
	h.svc = NewItineraryService(ItineraryDeps{
		Engine:      planner.NewEngine(planner.DefaultConfig()),
		Searcher:    h.searcher,
		Enricher:    enricher,
		Preferences: h.prefs,
		Repo:        h.repo,
		Cache:       h.cache,
		HitsPerPage: 30,
	}).(*ItineraryService)
	h.svc.now = func() time.Time { return time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC) }
	return h
}

func lisbonBody() request_models.ItineraryRequest {
	return request_models.ItineraryRequest{
		City:      "Lisbon",
		Dates:     request_models.DateRange{Start: "2025-06-01", End: "2025-06-03"},
		Interests: []string{"food", "history"},
		Pace:      "moderate",
	}
}

func TestCreateItinerary_PlansPersistsAndCaches(t *testing.T) {
	h := newItineraryHarness(samplePlaces(12), nil)

	resp, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
	require.NoError(t, err)

	_, err = ulid.ParseStrict(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", resp.City)
	assert.Equal(t, 3, resp.TripDays)
	assert.Equal(t, "moderate", resp.Pace)
	assert.Equal(t, GeneratedByEngine, resp.GeneratedBy)
	assert.Equal(t, "2025-05-20T10:00:00Z", resp.CreatedAt)
	require.Len(t, resp.Days, 3)
	assert.Equal(t, 9, resp.VisitCount())
	assert.NotEmpty(t, resp.Summary)

	require.Len(t, h.searcher.queries, 1)
	assert.Equal(t, 30, h.searcher.queries[0].Limit)
	assert.Equal(t, []string{"food", "history"}, h.searcher.queries[0].Interests)

	stored, ok := h.repo.stored[resp.ID]
	require.True(t, ok)
	assert.Equal(t, "Lisbon", stored.City)
	assert.Contains(t, stored.Request, `"city":"Lisbon"`)
	assert.Equal(t, 1, h.cache.sets)
}

func TestCreateItinerary_ServesRepeatsFromCache(t *testing.T) {
	h := newItineraryHarness(samplePlaces(12), nil)

	first, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
	require.NoError(t, err)
	second, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.searcher.calls)
}

func TestCreateItinerary_AppliesSessionDefaults(t *testing.T) {
	h := newItineraryHarness(samplePlaces(20), nil)
	_, err := h.prefs.SavePreferences("s1", request_models.PreferenceRequest{
		Interests: []string{"views"},
		Pace:      "fast",
	})
	require.NoError(t, err)

	body := lisbonBody()
	body.Interests = nil
	body.Pace = ""

	resp, err := h.svc.CreateItinerary(context.Background(), "s1", body)
	require.NoError(t, err)
	assert.Equal(t, "fast", resp.Pace)
	assert.Equal(t, []string{"views"}, h.searcher.queries[0].Interests)

	// explicit values win over stored ones
	body.Pace = "relaxed"
	resp, err = h.svc.CreateItinerary(context.Background(), "s1", body)
	require.NoError(t, err)
	assert.Equal(t, "relaxed", resp.Pace)
}

func TestCreateItinerary_LongFastTripsAskForMoreCandidates(t *testing.T) {
	h := newItineraryHarness(samplePlaces(12), nil)

	body := lisbonBody()
	body.Dates.End = "2025-06-14"
	body.Pace = "fast"
	_, err := h.svc.CreateItinerary(context.Background(), "", body)
	require.NoError(t, err)

	// 14 days at 5 visits
	assert.Equal(t, 70, h.searcher.queries[0].Limit)
}

func TestCreateItinerary_Errors(t *testing.T) {
	t.Run("invalid request", func(t *testing.T) {
		h := newItineraryHarness(samplePlaces(12), nil)
		body := lisbonBody()
		body.Dates.End = "2025-06-20"

		_, err := h.svc.CreateItinerary(context.Background(), "", body)
		assert.ErrorIs(t, err, planner.ErrInvalidRequest)
		assert.Zero(t, h.searcher.calls)
	})

	t.Run("bad radius", func(t *testing.T) {
		h := newItineraryHarness(samplePlaces(12), nil)
		body := lisbonBody()
		body.Near = &request_models.NearRequest{Lat: 38.7, Lng: -9.1, RadiusKm: 0}

		_, err := h.svc.CreateItinerary(context.Background(), "", body)
		assert.ErrorIs(t, err, planner.ErrInvalidRequest)
	})

	t.Run("no candidates", func(t *testing.T) {
		h := newItineraryHarness(nil, nil)

		_, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
		assert.ErrorIs(t, err, planner.ErrNoCandidates)
		assert.Empty(t, h.repo.stored)
	})

	t.Run("upstream", func(t *testing.T) {
		h := newItineraryHarness(nil, nil)
		h.searcher.err = planner.ErrUpstreamUnavailable

		_, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
		assert.ErrorIs(t, err, planner.ErrUpstreamUnavailable)
	})
}

func TestCreateItinerary_NearFiltersPool(t *testing.T) {
	h := newItineraryHarness(samplePlaces(12), nil)
	body := lisbonBody()
	body.Dates.End = body.Dates.Start
	// a point far from every sample place
	body.Near = &request_models.NearRequest{Lat: 41.15, Lng: -8.61, RadiusKm: 2}

	_, err := h.svc.CreateItinerary(context.Background(), "", body)
	assert.ErrorIs(t, err, planner.ErrNoCandidates)
}

func TestCreateItinerary_PersistFailureStillReturnsItinerary(t *testing.T) {
	h := newItineraryHarness(samplePlaces(12), nil)
	h.repo.err = errBoom

	resp, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
	require.NoError(t, err)
	assert.Equal(t, 9, resp.VisitCount())
	assert.Zero(t, h.cache.sets)
}

func TestCreateItinerary_Enriched(t *testing.T) {
	llm := &fakeLLM{reply: `{"summary": "Three days of tiles and tascas."}`}
	h := newItineraryHarness(samplePlaces(12), NewEnrichmentService(llm, time.Second))

	resp, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
	require.NoError(t, err)
	assert.Equal(t, GeneratedByEngineLLM, resp.GeneratedBy)
	assert.Equal(t, "Three days of tiles and tascas.", resp.Summary)
	assert.Equal(t, 9, resp.VisitCount())
}

func TestGetItinerary(t *testing.T) {
	h := newItineraryHarness(samplePlaces(12), nil)
	created, err := h.svc.CreateItinerary(context.Background(), "", lisbonBody())
	require.NoError(t, err)

	got, err := h.svc.GetItinerary(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Document, got.Document)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)

	_, err = h.svc.GetItinerary(context.Background(), "not-a-ulid")
	assert.ErrorIs(t, err, utils.ErrItineraryNotFound)

	_, err = h.svc.GetItinerary(context.Background(), ulid.Make().String())
	assert.ErrorIs(t, err, utils.ErrItineraryNotFound)

	h.repo.err = errBoom
	_, err = h.svc.GetItinerary(context.Background(), created.ID)
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
}
