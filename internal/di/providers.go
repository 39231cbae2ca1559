package di

import (
	"NewsPulse/internal/handler/api"
	internalrepo "NewsPulse/internal/repository"
	"NewsPulse/internal/store"
	"NewsPulse/pkg/config"
	xhttp "NewsPulse/pkg/http"
	"NewsPulse/pkg/logger"
	"NewsPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideFeatureStore opens the persisted feature table.
func ProvideFeatureStore(cfg *config.Config) *store.FeatureStore {
	return store.NewFeatureStore(cfg.Data.FeaturesFile)
}

// ProvideFeatureReader creates the read-side repository over the table.
func ProvideFeatureReader(fs *store.FeatureStore) *internalrepo.FeatureReader {
	return internalrepo.NewFeatureReader(fs)
}

// ProvideFeaturesHandler creates the HTTP handler for the feature API.
func ProvideFeaturesHandler(reader *internalrepo.FeatureReader, log *logger.Logger) xhttp.Handler {
	return api.NewFeaturesHandler(reader, log)
}

// ProvideApp assembles the serve-mode application.
func ProvideApp(cfg *config.Config, log *logger.Logger, handler xhttp.Handler) *server.App {
	return server.New(cfg, log, handler)
}
