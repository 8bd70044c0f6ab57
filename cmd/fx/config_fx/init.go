package config_fx

import (
	"os"

	"go.uber.org/fx"
	"wayfarer/pkg/config"
)

var Module = fx.Provide(provideConfig)

func provideConfig() (*config.Config, error) {
	return config.Load(os.Getenv("CONFIG_PATH"))
}
