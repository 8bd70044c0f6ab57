package utils

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the vector(1536) column of place_embeddings.
const EmbeddingDimensions = 1536

// LLMClientInterface is the narrow surface the services need from a language model.
type LLMClientInterface interface {
	// GenerateJSON returns a single JSON object answering prompt.
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Name() string
}

// ExtractJSON strips markdown fences and chatter around the first JSON object or
// array in a model response.
func ExtractJSON(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		if end := matchingClose(response, objStart, '{', '}'); end != -1 {
			response = response[objStart : end+1]
		}
	case arrStart != -1:
		if end := matchingClose(response, arrStart, '[', ']'); end != -1 {
			response = response[arrStart : end+1]
		}
	}
	return strings.TrimSpace(response)
}

// matchingClose finds the index closing the bracket opened at start, skipping
// brackets inside string literals.
func matchingClose(s string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// HashEmbedding spreads hashed words over EmbeddingDimensions and normalises the
// result. Providers without an embedding endpoint use it so semantic lookups stay
// comparable within one deployment.
func HashEmbedding(text string) pgvector.Vector {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	vector := make([]float32, EmbeddingDimensions)

	for _, word := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		hash := h.Sum32()
		for i := range vector {
			vector[i] += float32(math.Sin(float64(hash+uint32(i))) * 0.1)
		}
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += float64(v) * float64(v)
	}
	if magnitude > 0 {
		norm := float32(math.Sqrt(magnitude))
		for i := range vector {
			vector[i] /= norm
		}
	}
	return pgvector.NewVector(vector)
}
