// Package stats provides the site statistics module: headline figures and
// their count-up animation streamed over Server-Sent Events.
package stats

import (
	"fmt"

	apphttp "dumarte_backend/internal/http"
	"dumarte_backend/internal/stats/handler"
	"dumarte_backend/internal/stats/repository"
	"dumarte_backend/platform/config"
	"dumarte_backend/platform/logger"
	"dumarte_backend/platform/validator"
)

// Module represents the stats domain module
type Module struct {
	handler *handler.Handler
	store   *repository.Store
}

// NewModule loads the stats file (or the defaults) and wires the handler.
func NewModule(cfg config.StatsConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	stats, err := repository.Load(cfg.GetStatsFile())
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	store := repository.NewStore(stats)
	log.Info("stats loaded", "count", len(stats), "file", cfg.GetStatsFile())

	return &Module{
		handler: handler.New(store, val, log),
		store:   store,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "stats"
}

// Store returns the loaded stats.
func (m *Module) Store() *repository.Store {
	return m.store
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/stats"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
