package repository

import (
	"context"

	"dumarte_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// CachedSource fetches from a Source once and serves the cached list until
// Refresh. Concurrent misses share a single fetch.
type CachedSource struct {
	source Source
	cache  Cache
	group  singleflight.Group
	log    *logger.Logger
}

// NewCachedSource wraps source with cache.
func NewCachedSource(source Source, cache Cache, log *logger.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, log: log}
}

// FetchProjects implements Source.
func (s *CachedSource) FetchProjects(ctx context.Context) ([]Project, error) {
	projects, ok, err := s.cache.Load(ctx)
	if err != nil {
		// A broken cache degrades to direct fetches.
		s.log.Warn("gallery cache load failed", "error", err)
	}
	if ok {
		return projects, nil
	}

	v, err, _ := s.group.Do("projects", func() (interface{}, error) {
		// The shared fetch outlives any single caller's cancellation.
		detached := context.WithoutCancel(ctx)
		fetched, err := s.source.FetchProjects(detached)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Store(detached, fetched); err != nil {
			s.log.Warn("gallery cache store failed", "error", err)
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Project), nil
}

// Refresh invalidates the cache and fetches again.
func (s *CachedSource) Refresh(ctx context.Context) ([]Project, error) {
	if err := s.cache.Invalidate(ctx); err != nil {
		return nil, err
	}
	s.group.Forget("projects")
	return s.FetchProjects(ctx)
}
