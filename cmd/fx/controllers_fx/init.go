package controllers_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"wayfarer/internal/api/controllers"
	"wayfarer/internal/infra"
	"wayfarer/pkg/cache"
)

var Module = fx.Options(
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewPlacesController),
	fx.Provide(controllers.NewPreferencesController),
	fx.Provide(provideHealthController))

func provideHealthController(db *gorm.DB, itineraryCache cache.ItineraryCache) *controllers.HealthController {
	checks := map[string]controllers.Pinger{
		"postgres": infra.PostgresPinger{DB: db},
	}
	if p, ok := itineraryCache.(controllers.Pinger); ok {
		checks["redis"] = p
	}
	return controllers.NewHealthController(checks)
}
