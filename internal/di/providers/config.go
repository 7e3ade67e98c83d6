// Package providers contains dependency injection providers for the weddingwise binaries.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/logger"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

// ProvideConfig loads the configuration, applying the command-line
// overrides registered in the injector.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	overrides, err := do.Invoke[config.Overrides](i)
	if err != nil {
		overrides = config.Overrides{}
	}
	return config.Load(overrides)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development" && cfg.Logger.Level == "debug",
		Environment: cfg.App.Environment,
	})

	log.Debug("Configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"api_url", cfg.API.BaseURL,
		"session_path", cfg.Session.Path,
	)

	return log, nil
}

// ProvideValidator provides the shared struct validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
