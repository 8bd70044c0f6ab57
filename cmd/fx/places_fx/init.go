package places_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
	"wayfarer/pkg/config"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	providePlaceRepo,
	provideEmbeddingRepo,
	providePlaceService,
	providePlaceSearcher)

func providePlaceRepo(db *gorm.DB) repositories.PlaceRepository {
	return repositories.NewPlaceRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.PlaceEmbeddingRepository {
	return repositories.NewPlaceEmbeddingRepository(db)
}

func providePlaceService(
	placeRepo repositories.PlaceRepository,
	embeddingRepo repositories.PlaceEmbeddingRepository,
	llm utils.LLMClientInterface,
) services.PlaceServiceInterface {
	return services.NewPlaceService(placeRepo, embeddingRepo, llm)
}

func providePlaceSearcher(
	cfg *config.Config,
	placeRepo repositories.PlaceRepository,
	embeddingRepo repositories.PlaceEmbeddingRepository,
	llm utils.LLMClientInterface,
) services.PlaceSearcher {
	return services.NewPlaceSearcher(placeRepo, embeddingRepo, llm, services.SearchOptions{
		Timeout:       cfg.Search.Timeout.Std(),
		Retries:       cfg.Search.Retries,
		MinSimilarity: cfg.Search.MinSimilarity,
	})
}
