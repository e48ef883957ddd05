package api

import (
	"github.com/JaimeStill/casebook/internal/config"
	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/internal/infrastructure"
	"github.com/JaimeStill/casebook/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// external generator client.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Generator  diagnosis.Generator
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Cache:     infra.Cache,
		},
		Pagination: cfg.API.Pagination,
		Generator:  diagnosis.NewClient(&cfg.Generator, nil, logger),
	}
}
