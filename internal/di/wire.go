//go:build wireinject
// +build wireinject

package di

import (
	"NewsPulse/pkg/config"
	"NewsPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up the serve-mode dependencies and returns the
// application. Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideFeatureStore,
		ProvideFeatureReader,
		ProvideFeaturesHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
