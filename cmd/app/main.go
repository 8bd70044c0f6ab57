package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"wayfarer/cmd/fx/config_fx"
	"wayfarer/cmd/fx/controllers_fx"
	"wayfarer/cmd/fx/db_fx"
	"wayfarer/cmd/fx/itinerary_fx"
	"wayfarer/cmd/fx/llm_fx"
	"wayfarer/cmd/fx/memcache_fx"
	"wayfarer/cmd/fx/places_fx"
	"wayfarer/internal/api/controllers"
	"wayfarer/pkg/config"
	"wayfarer/pkg/middleware"
	"wayfarer/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		llm_fx.Module,
		places_fx.Module,
		memcache_fx.Module,
		itinerary_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Printf("Starting HTTP server at %s", srv.Addr)
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type Controllers struct {
	fx.In

	Itinerary   *controllers.ItineraryController
	Places      *controllers.PlacesController
	Preferences *controllers.PreferencesController
	Health      *controllers.HealthController
}

func ProvideRouter(cfg *config.Config, ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	RegisterRoutes(r, cfg, ctrl)

	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, ctrl Controllers) {
	r.GET("/healthz", ctrl.Health.Health)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	itineraryGroup := r.Group("/itineraries")
	itineraryGroup.POST("", limiter.Limit(), ctrl.Itinerary.CreateItinerary)
	itineraryGroup.GET("/:id", ctrl.Itinerary.GetItinerary)

	placesGroup := r.Group("/places")
	placesGroup.GET("", ctrl.Places.ListPlaces)
	placesGroup.GET("/facets", ctrl.Places.GetFacets)
	placesGroup.GET("/:slug", ctrl.Places.GetPlaceBySlug)
	if cfg.JWTSecret != "" {
		placesGroup.POST("",
			middleware.JWTAuthMiddleware([]byte(cfg.JWTSecret)),
			middleware.RoleMiddleware(utils.RoleAdmin),
			ctrl.Places.UpsertPlace)
	} else {
		log.Println("JWT_SECRET is not set, POST /places is disabled")
	}

	preferencesGroup := r.Group("/preferences")
	preferencesGroup.GET("/:sessionId", ctrl.Preferences.GetPreferences)
	preferencesGroup.PUT("/:sessionId", ctrl.Preferences.SavePreferences)
	preferencesGroup.DELETE("/:sessionId", ctrl.Preferences.ClearPreferences)
}
