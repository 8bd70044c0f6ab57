package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"wayfarer/internal/planner"
	"wayfarer/pkg/utils"
)

const enrichmentSystemPrompt = `You are a travel writer. You receive a fixed day-by-day itinerary.
Do not add, remove or reorder stops. Reply with one JSON object:
{"summary": "<two sentences>", "notes": {"<slug>": "<one sentence on why to visit>"}}`

// EnrichmentServiceInterface rewrites the prose of an itinerary whose structure
// is already fixed.
type EnrichmentServiceInterface interface {
	// Enrich returns the document with replaced text and whether the model
	// output was applied. On any failure the input is returned unchanged.
	Enrich(ctx context.Context, req planner.Request, doc planner.Document) (planner.Document, bool)
}

type EnrichmentService struct {
	llm     utils.LLMClientInterface
	timeout time.Duration
}

// NewEnrichmentService accepts a nil client, which disables enrichment.
func NewEnrichmentService(llm utils.LLMClientInterface, timeout time.Duration) EnrichmentServiceInterface {
	return &EnrichmentService{llm: llm, timeout: timeout}
}

type enrichmentReply struct {
	Summary string            `json:"summary"`
	Notes   map[string]string `json:"notes"`
}

func (s *EnrichmentService) Enrich(ctx context.Context, req planner.Request, doc planner.Document) (planner.Document, bool) {
	if s.llm == nil || doc.VisitCount() == 0 {
		return doc, false
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := s.llm.GenerateJSON(ctx, enrichmentSystemPrompt, buildEnrichmentPrompt(req, doc))
	if err != nil {
		log.Printf("[Enrichment] %s failed after %s, keeping engine text: %v", s.llm.Name(), time.Since(started), err)
		return doc, false
	}

	var reply enrichmentReply
	if err := json.Unmarshal([]byte(utils.ExtractJSON(raw)), &reply); err != nil {
		log.Printf("[Enrichment] %v: %v", utils.ErrUnexpectedBehaviorOfAI, err)
		return doc, false
	}

	out, applied := applyEnrichment(doc, reply)
	log.Printf("[Enrichment] %s applied %d changes in %s", s.llm.Name(), applied, time.Since(started))
	return out, applied > 0
}

func buildEnrichmentPrompt(req planner.Request, doc planner.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip: %s, pace %s", req.Describe(), req.Pace)
	b.WriteString("\nItinerary:\n")
	for _, day := range doc.Days {
		fmt.Fprintf(&b, "Day %d", day.Day)
		if day.Date != "" {
			fmt.Fprintf(&b, " (%s)", day.Date)
		}
		b.WriteString("\n")
		for _, block := range day.Blocks {
			for _, v := range block.Visits {
				fmt.Fprintf(&b, "- %s | slug=%s | %s | %d min | %s\n", block.Period, v.Slug, v.Name, v.DurationMin, v.Note)
			}
		}
	}
	b.WriteString("\nWrite the summary and one note per slug above.")
	return b.String()
}

// applyEnrichment copies doc and swaps in the model's summary and notes. Notes
// for slugs that are not scheduled are ignored.
func applyEnrichment(doc planner.Document, reply enrichmentReply) (planner.Document, int) {
	out := cloneDocument(doc)
	applied := 0

	if s := strings.TrimSpace(reply.Summary); s != "" {
		out.Summary = s
		applied++
	}
	for i := range out.Days {
		for j := range out.Days[i].Blocks {
			visits := out.Days[i].Blocks[j].Visits
			for k := range visits {
				note := strings.TrimSpace(reply.Notes[visits[k].Slug])
				if note == "" {
					continue
				}
				visits[k].Note = note
				applied++
			}
		}
	}
	return out, applied
}

func cloneDocument(doc planner.Document) planner.Document {
	out := planner.Document{Summary: doc.Summary, Days: make([]planner.DayDoc, len(doc.Days))}
	for i, day := range doc.Days {
		blocks := make([]planner.BlockDoc, len(day.Blocks))
		for j, block := range day.Blocks {
			blocks[j] = planner.BlockDoc{
				Period: block.Period,
				Visits: append([]planner.VisitDoc(nil), block.Visits...),
			}
			if blocks[j].Visits == nil {
				blocks[j].Visits = []planner.VisitDoc{}
			}
		}
		out.Days[i] = planner.DayDoc{Day: day.Day, Date: day.Date, Blocks: blocks}
	}
	return out
}
