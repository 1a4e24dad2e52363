// Package providers contains dependency injection providers for the NoteTaker server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/notetakerapp/notetaker-server/internal/config"
	"github.com/notetakerapp/notetaker-server/internal/logger"
)

// ProvideConfig provides the validated application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting NoteTaker Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.App.DataDir,
		"database", cfg.Database.Path,
		"ai_enabled", cfg.AI.Enabled(),
	)

	return log, nil
}
