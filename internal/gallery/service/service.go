// Package service provides the gallery business logic: category filtering,
// project lookup, carousel navigation and image URL resolution.
package service

import (
	"context"
	"fmt"
	"strings"

	"dumarte_backend/internal/events"
	"dumarte_backend/internal/gallery/repository"
	"dumarte_backend/internal/gallery/transport"
	"dumarte_backend/platform/apperr"
	"dumarte_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// AllCategories is the filter value that selects every project.
const AllCategories = "todos"

// resolveConcurrency bounds parallel image URL resolution.
const resolveConcurrency = 8

// ProjectSource is the cached project data source.
type ProjectSource interface {
	FetchProjects(ctx context.Context) ([]repository.Project, error)
	Refresh(ctx context.Context) ([]repository.Project, error)
}

// Service provides business logic for the gallery
type Service struct {
	source   ProjectSource
	images   ImageResolver
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new gallery service. A nil resolver passes image references
// through unchanged.
func New(source ProjectSource, images ImageResolver, log *logger.Logger) *Service {
	if images == nil {
		images = PassthroughResolver{}
	}
	return &Service{source: source, images: images, log: log}
}

// SetEventBus injects the event bus for refresh events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// List returns the projects in category; "" and "todos" select all.
func (s *Service) List(ctx context.Context, category string) (transport.ProjectListResponse, error) {
	projects, err := s.fetch(ctx)
	if err != nil {
		return transport.ProjectListResponse{}, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = AllCategories
	}
	filtered := FilterByCategory(projects, category)

	items, err := s.toResponses(ctx, filtered)
	if err != nil {
		return transport.ProjectListResponse{}, err
	}
	return transport.ProjectListResponse{Category: category, Items: items, Total: len(items)}, nil
}

// Get returns one project by id.
func (s *Service) Get(ctx context.Context, id int) (transport.ProjectResponse, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	items, err := s.toResponses(ctx, []repository.Project{project})
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	return items[0], nil
}

// Categories lists categories in order of first appearance with their counts.
func (s *Service) Categories(ctx context.Context) ([]transport.CategoryResponse, error) {
	projects, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return CountCategories(projects), nil
}

// Image returns carousel position index of project id.
func (s *Service) Image(ctx context.Context, id, index int) (transport.ImageResponse, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return transport.ImageResponse{}, err
	}

	var carousel Carousel
	carousel.Open(project)
	if !carousel.GoTo(index) {
		return transport.ImageResponse{}, apperr.NotFound(fmt.Sprintf("project %d has no image %d", id, index)).WithOp("gallery.Image")
	}

	url, err := s.images.ResolveImage(ctx, carousel.CurrentURL())
	if err != nil {
		return transport.ImageResponse{}, apperr.Wrap(apperr.KindUnavailable, "image unavailable", err).WithOp("gallery.Image")
	}

	resp := transport.ImageResponse{
		ProjectID:   id,
		Index:       carousel.Index(),
		Total:       len(project.Images),
		URL:         url,
		IsFirst:     carousel.IsFirst(),
		IsLast:      carousel.IsLast(),
		HasMultiple: carousel.HasMultiple(),
	}
	if !carousel.IsFirst() {
		prev := carousel.Index() - 1
		resp.Prev = &prev
	}
	if !carousel.IsLast() {
		next := carousel.Index() + 1
		resp.Next = &next
	}
	return resp, nil
}

// Refresh drops the cached list and loads it again.
func (s *Service) Refresh(ctx context.Context) (transport.RefreshResponse, error) {
	projects, err := s.source.Refresh(ctx)
	if err != nil {
		return transport.RefreshResponse{}, apperr.Wrap(apperr.KindUnavailable, "projects unavailable", err).WithOp("gallery.Refresh")
	}

	resp := transport.RefreshResponse{
		Projects:   len(projects),
		Categories: len(CountCategories(projects)),
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.GalleryRefreshed{
			BaseEvent:  events.NewBaseEvent(),
			Projects:   resp.Projects,
			Categories: resp.Categories,
		})
	}
	return resp, nil
}

func (s *Service) fetch(ctx context.Context) ([]repository.Project, error) {
	projects, err := s.source.FetchProjects(ctx)
	if err != nil {
		s.log.UpstreamError("gallery", "fetch projects", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "projects unavailable", err).WithOp("gallery.fetch")
	}
	return projects, nil
}

func (s *Service) find(ctx context.Context, id int) (repository.Project, error) {
	projects, err := s.fetch(ctx)
	if err != nil {
		return repository.Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return repository.Project{}, apperr.NotFound(fmt.Sprintf("project %d not found", id)).WithOp("gallery.find")
}

// toResponses resolves every image URL concurrently. A reference that cannot
// be resolved is dropped from its project rather than failing the listing.
func (s *Service) toResponses(ctx context.Context, projects []repository.Project) ([]transport.ProjectResponse, error) {
	out := make([]transport.ProjectResponse, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for i, p := range projects {
		out[i] = transport.ProjectResponse{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Tags:        p.Tags,
			Images:      make([]string, len(p.Images)),
		}
		for j, ref := range p.Images {
			g.Go(func() error {
				url, err := s.images.ResolveImage(gctx, ref)
				if err != nil {
					s.log.Warn("gallery image resolution failed", "project", p.ID, "ref", ref, "error", err)
					url = ""
				}
				out[i].Images[j] = url
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Images = compact(out[i].Images)
	}
	return out, nil
}

// FilterByCategory returns the projects in category; "todos" selects all.
func FilterByCategory(projects []repository.Project, category string) []repository.Project {
	if category == "" || strings.EqualFold(category, AllCategories) {
		return projects
	}
	filtered := make([]repository.Project, 0, len(projects))
	for _, p := range projects {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// CountCategories counts projects per category in order of first appearance.
func CountCategories(projects []repository.Project) []transport.CategoryResponse {
	index := make(map[string]int)
	out := make([]transport.CategoryResponse, 0)
	for _, p := range projects {
		if i, ok := index[p.Category]; ok {
			out[i].Count++
			continue
		}
		index[p.Category] = len(out)
		out = append(out, transport.CategoryResponse{Category: p.Category, Count: 1})
	}
	return out
}

func compact(urls []string) []string {
	out := urls[:0]
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
