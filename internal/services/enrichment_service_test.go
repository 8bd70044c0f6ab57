package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfarer/internal/planner"
)

func sampleDocument() planner.Document {
	return planner.Document{
		Summary: "A 1-day moderate trip to Lisbon.",
		Days: []planner.DayDoc{{
			Day:  1,
			Date: "2025-06-01",
			Blocks: []planner.BlockDoc{
				{Period: planner.Morning, Visits: []planner.VisitDoc{
					{Name: "Castle", Slug: "castle", DurationMin: 90, Note: "Popular stop."},
				}},
				{Period: planner.Afternoon, Visits: []planner.VisitDoc{
					{Name: "Market", Slug: "market", DurationMin: 60, Note: "Matches food."},
				}},
				{Period: planner.Evening, Visits: []planner.VisitDoc{}},
			},
		}},
	}
}

func enrichmentRequest(t *testing.T) planner.Request {
	t.Helper()
	req, err := planner.NewRequest("Lisbon", nil, "2025-06-01", "2025-06-01", []string{"food"}, "moderate")
	require.NoError(t, err)
	return req
}

func TestEnrich_NilClientKeepsDocument(t *testing.T) {
	svc := NewEnrichmentService(nil, time.Second)
	doc := sampleDocument()

	out, ok := svc.Enrich(context.Background(), enrichmentRequest(t), doc)
	assert.False(t, ok)
	assert.Equal(t, doc, out)
}

func TestEnrich_ReplacesOnlyKnownSlugs(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n" + `{
		"summary": "Castles and custard tarts.",
		"notes": {"castle": "Walk the ramparts at opening.", "unknown": "ignored", "market": "  "}
	}` + "\n```"}
	svc := NewEnrichmentService(llm, time.Second)
	doc := sampleDocument()

	out, ok := svc.Enrich(context.Background(), enrichmentRequest(t), doc)
	require.True(t, ok)

	assert.Equal(t, "Castles and custard tarts.", out.Summary)
	assert.Equal(t, "Walk the ramparts at opening.", out.Days[0].Blocks[0].Visits[0].Note)
	assert.Equal(t, "Matches food.", out.Days[0].Blocks[1].Visits[0].Note)
	assert.Equal(t, doc.Slugs(), out.Slugs())

	// input untouched
	assert.Equal(t, "Popular stop.", doc.Days[0].Blocks[0].Visits[0].Note)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "slug=castle")
	assert.Contains(t, llm.prompts[0], "slug=market")
}

func TestEnrich_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
	}{
		{"client error", &fakeLLM{err: errBoom}},
		{"not json", &fakeLLM{reply: "sorry, I cannot help"}},
		{"empty reply", &fakeLLM{reply: `{"notes": {}}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEnrichmentService(tt.llm, time.Second)
			doc := sampleDocument()

			out, ok := svc.Enrich(context.Background(), enrichmentRequest(t), doc)
			assert.False(t, ok)
			assert.Equal(t, doc, out)
		})
	}
}

func TestEnrich_SkipsEmptyItinerary(t *testing.T) {
	llm := &fakeLLM{reply: `{"summary": "x"}`}
	svc := NewEnrichmentService(llm, time.Second)

	_, ok := svc.Enrich(context.Background(), enrichmentRequest(t), planner.Document{Days: []planner.DayDoc{{Day: 1}}})
	assert.False(t, ok)
	assert.Empty(t, llm.prompts)
}
