package itinerary_fx

import (
	"context"
	"log"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"wayfarer/internal/planner"
	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
	"wayfarer/pkg/cache"
	"wayfarer/pkg/config"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	provideEngine,
	provideItineraryCache,
	provideEnrichmentService,
	provideItineraryRepo,
	provideItineraryService)

func provideEngine(cfg *config.Config) *planner.Engine {
	return planner.NewEngine(cfg.Planner)
}

// provideItineraryCache shares cached itineraries through redis when REDIS_URL
// is set and keeps them in process otherwise.
func provideItineraryCache(lc fx.Lifecycle, cfg *config.Config) (cache.ItineraryCache, error) {
	ttl := cfg.Cache.TTL.Std()
	if cfg.Cache.RedisURL == "" {
		log.Printf("Using in-process itinerary cache (size %d, ttl %s)", cfg.Cache.Size, ttl)
		return cache.NewOtterCache(cfg.Cache.Size, ttl), nil
	}

	rc, err := cache.NewRedisCache(cfg.Cache.RedisURL, ttl)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rc.Ping(ctx); err != nil {
				log.Printf("Redis not reachable yet: %v", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rc.Close()
		},
	})
	log.Printf("Using redis itinerary cache (ttl %s)", ttl)
	return rc, nil
}

func provideEnrichmentService(cfg *config.Config, llm utils.LLMClientInterface) services.EnrichmentServiceInterface {
	if !cfg.LLMActive() {
		return services.NewEnrichmentService(nil, 0)
	}
	return services.NewEnrichmentService(llm, cfg.LLM.Timeout.Std())
}

func provideItineraryRepo(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideItineraryService(
	cfg *config.Config,
	engine *planner.Engine,
	searcher services.PlaceSearcher,
	enricher services.EnrichmentServiceInterface,
	preferences services.PreferenceServiceInterface,
	repo repositories.ItineraryRepository,
	itineraryCache cache.ItineraryCache,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(services.ItineraryDeps{
		Engine:      engine,
		Searcher:    searcher,
		Enricher:    enricher,
		Preferences: preferences,
		Repo:        repo,
		Cache:       itineraryCache,
		HitsPerPage: cfg.Search.HitsPerPage,
	})
}
