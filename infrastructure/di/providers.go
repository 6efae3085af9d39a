package di

import (
	"keepsake-backend/application/services"
	"keepsake-backend/infrastructure/config"
	"keepsake-backend/infrastructure/persistence/jsonfile"
	"keepsake-backend/pkg/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   *jsonfile.Store
	Service *services.ScrapbookService
	Metrics *observability.Collector
}

// ProvideLogger creates the logger for the configured environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}

// ProvideStore creates the JSON-file store and loads its initial state.
func ProvideStore(cfg *config.Config, logger *zap.Logger) *jsonfile.Store {
	return jsonfile.New(cfg.DataFilePath, logger)
}

// ProvideCollector creates the Prometheus metrics collector.
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("keepsake")
}

// ProvideService creates the scrapbook service.
func ProvideService(
	store *jsonfile.Store,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.ScrapbookService {
	return services.NewScrapbookService(store, metrics, logger)
}

// ProvideContainer assembles the dependency container.
func ProvideContainer(
	cfg *config.Config,
	logger *zap.Logger,
	store *jsonfile.Store,
	service *services.ScrapbookService,
	metrics *observability.Collector,
) *Container {
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Service: service,
		Metrics: metrics,
	}
}
