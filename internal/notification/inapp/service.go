// Package inapp records operator-facing activity and pushes it to connected
// dashboards.
package inapp

import (
	"dumarte_backend/internal/notification/sse"
	"dumarte_backend/platform/logger"
)

type Service struct {
	repo *Repository
	sse  *sse.Service
	log  *logger.Logger
}

func NewService(repo *Repository, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// SetSSE injects the SSE service (circular dependency avoidance).
func (s *Service) SetSSE(sseSvc *sse.Service) {
	s.sse = sseSvc
}

type SendParams struct {
	Type       sse.EventType
	Title      string
	Content    string
	ResourceID string
	Category   string // "info", "success", "warning", "error"
}

// Send stores the activity and pushes it to live dashboards.
func (s *Service) Send(p SendParams) Activity {
	if p.Category == "" {
		p.Category = "info"
	}

	entry := s.repo.Create(CreateParams{
		Title:      p.Title,
		Content:    p.Content,
		Category:   p.Category,
		ResourceID: p.ResourceID,
	})

	if s.sse != nil {
		s.sse.Broadcast(sse.Event{Type: p.Type, Message: p.Title, Data: entry})
	}
	return entry
}

// List returns the newest entries first.
func (s *Service) List(limit int) []Activity {
	return s.repo.List(limit)
}
