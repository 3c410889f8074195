// Package gallery provides the project portfolio module: category filtering,
// project detail and the image carousel exposed over HTTP.
package gallery

import (
	"context"
	"net/http"

	"dumarte_backend/internal/events"
	"dumarte_backend/internal/gallery/handler"
	"dumarte_backend/internal/gallery/repository"
	"dumarte_backend/internal/gallery/service"
	apphttp "dumarte_backend/internal/http"
	"dumarte_backend/platform/config"
	"dumarte_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module represents the gallery domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
	redis   *redis.Client
}

// NewModule creates the gallery module. Projects come from PROJECTS_URL when
// set, otherwise from the local data file. The list is cached in Redis when
// REDIS_URL is set, otherwise in memory. A nil resolver serves image
// references unchanged.
func NewModule(cfg config.GalleryConfig, images service.ImageResolver, eventBus events.Bus, log *logger.Logger) (*Module, error) {
	var source repository.Source = repository.FileSource{Path: cfg.GetProjectsFile()}
	if url := cfg.GetProjectsURL(); url != "" {
		source = repository.HTTPSource{
			URL:    url,
			Client: &http.Client{Timeout: cfg.GetHTTPClientTimeout()},
		}
	}

	var (
		cache       repository.Cache = repository.NewMemoryCache()
		redisClient *redis.Client
	)
	if redisURL := cfg.GetRedisURL(); redisURL != "" {
		client, err := repository.NewRedisClient(redisURL)
		if err != nil {
			return nil, err
		}
		redisClient = client
		cache = repository.NewRedisCache(client, repository.DefaultRedisKey, cfg.GetGalleryCacheTTL())
	}

	svc := service.New(repository.NewCachedSource(source, cache, log), images, log)
	if eventBus != nil {
		svc.SetEventBus(eventBus)
	}

	return &Module{
		handler: handler.New(svc),
		service: svc,
		redis:   redisClient,
	}, nil
}

// NewModuleWith wires the module around an explicit project source.
func NewModuleWith(source service.ProjectSource, images service.ImageResolver, eventBus events.Bus, log *logger.Logger) *Module {
	svc := service.New(source, images, log)
	if eventBus != nil {
		svc.SetEventBus(eventBus)
	}
	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "gallery"
}

// Service returns the gallery service for non-HTTP callers.
func (m *Module) Service() *service.Service {
	return m.service
}

// Ping reports whether the shared cache is reachable. Without Redis there is
// nothing to check.
func (m *Module) Ping(ctx context.Context) error {
	if m.redis == nil {
		return nil
	}
	return m.redis.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (m *Module) Close() error {
	if m.redis == nil {
		return nil
	}
	return m.redis.Close()
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/projects"))
	if ctx.Admin != nil {
		m.handler.RegisterAdminRoutes(ctx.Admin.Group("/projects"))
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
