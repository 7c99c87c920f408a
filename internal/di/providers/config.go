// Package providers contains dependency injection providers for the BookQuest server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookquest/bookquest-server/internal/config"
	"github.com/bookquest/bookquest-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting BookQuest Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"catalog_path", cfg.Catalog.SourcePath,
		"db_path", cfg.Database.Path,
	)

	return log, nil
}
