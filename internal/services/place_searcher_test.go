package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfarer/internal/models/db_models"
	"wayfarer/internal/planner"
)

func TestPlaceSearcher_ConvertsRows(t *testing.T) {
	repo := &fakePlaceRepo{rows: sampleRows(3)}
	s := NewPlaceSearcher(repo, nil, nil, SearchOptions{Timeout: time.Second})

	places, err := s.SearchPlaces(context.Background(), PlaceQuery{
		City: "Lisbon", Districts: []string{"Alfama"}, Interests: []string{"food"}, Limit: 30,
	})
	require.NoError(t, err)
	require.Len(t, places, 3)

	assert.Equal(t, "place-00", places[0].Slug)
	assert.Equal(t, "Alfama", places[0].District)
	assert.Equal(t, []string{"food", "market"}, places[0].Tags)
	assert.Equal(t, 60, places[0].DurationMin)
	assert.NotEmpty(t, places[0].ID)

	require.Len(t, repo.filters, 1)
	assert.Equal(t, 30, repo.filters[0].Limit)
	assert.Equal(t, []string{"Alfama"}, repo.filters[0].Districts)
}

func TestPlaceSearcher_RetriesTransientFailures(t *testing.T) {
	repo := &fakePlaceRepo{rows: sampleRows(2), failures: 1}
	s := NewPlaceSearcher(repo, nil, nil, SearchOptions{Timeout: 5 * time.Second, Retries: 2})

	places, err := s.SearchPlaces(context.Background(), PlaceQuery{City: "Lisbon"})
	require.NoError(t, err)
	assert.Len(t, places, 2)
	assert.Equal(t, 2, repo.calls)
}

func TestPlaceSearcher_ExhaustedRetriesAreUpstreamUnavailable(t *testing.T) {
	repo := &fakePlaceRepo{err: errBoom}
	s := NewPlaceSearcher(repo, nil, nil, SearchOptions{Timeout: 5 * time.Second, Retries: 1})

	_, err := s.SearchPlaces(context.Background(), PlaceQuery{City: "Lisbon"})
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrUpstreamUnavailable)
	assert.Equal(t, 2, repo.calls)
}

func TestPlaceSearcher_SemanticBoostMergesWithoutDuplicates(t *testing.T) {
	rows := sampleRows(4)
	// the search itself only returns the first two rows
	repo := &fakePlaceRepo{rows: rows, searchN: 2}
	embeddings := &fakeEmbeddingRepo{nearest: []db_models.PlaceEmbedding{
		{Slug: "place-01"}, {Slug: "place-03"},
	}}

	s := NewPlaceSearcher(repo, embeddings, &fakeLLM{}, SearchOptions{Timeout: time.Second})
	places, err := s.SearchPlaces(context.Background(), PlaceQuery{City: "Lisbon", Interests: []string{"food"}})
	require.NoError(t, err)

	var slugs []string
	for _, p := range places {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"place-00", "place-01", "place-03"}, slugs)
}

func TestPlaceSearcher_SemanticBoostFailureKeepsRows(t *testing.T) {
	repo := &fakePlaceRepo{rows: sampleRows(2)}
	s := NewPlaceSearcher(repo, &fakeEmbeddingRepo{}, &fakeLLM{embedErr: errBoom}, SearchOptions{})

	places, err := s.SearchPlaces(context.Background(), PlaceQuery{City: "Lisbon", Interests: []string{"food"}})
	require.NoError(t, err)
	assert.Len(t, places, 2)
}
