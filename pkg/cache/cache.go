// Package cache stores rendered itineraries keyed by their normalised request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
)

// ItineraryCache is a byte cache for rendered itinerary payloads.
type ItineraryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Key hashes the parts of a request into a fixed-length cache key.
func Key(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\x1f")))
	return "itinerary:" + hex.EncodeToString(h.Sum(nil))[:32]
}

type OtterCache struct {
	cache *otter.Cache[string, []byte]
}

func NewOtterCache(size int, ttl time.Duration) *OtterCache {
	if size <= 0 {
		size = 10_000
	}
	return &OtterCache{
		cache: otter.Must(&otter.Options[string, []byte]{
			MaximumSize:      size,
			ExpiryCalculator: otter.ExpiryWriting[string, []byte](ttl),
		}),
	}
}

func (c *OtterCache) Get(_ context.Context, key string) ([]byte, bool) {
	return c.cache.GetIfPresent(key)
}

func (c *OtterCache) Set(_ context.Context, key string, value []byte) error {
	c.cache.Set(key, value)
	return nil
}
