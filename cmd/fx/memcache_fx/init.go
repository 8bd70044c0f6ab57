package memcache_fx

import (
	"go.uber.org/fx"
	"wayfarer/internal/services"
	"wayfarer/pkg/config"
	mem "wayfarer/pkg/memcache"
)

var Module = fx.Provide(providePreferenceStore, providePreferenceService)

func providePreferenceStore() mem.PreferenceStore {
	return mem.NewSessionPreferences()
}

func providePreferenceService(store mem.PreferenceStore, cfg *config.Config) services.PreferenceServiceInterface {
	return services.NewPreferenceService(store, cfg.Preferences.TTL.Std())
}
