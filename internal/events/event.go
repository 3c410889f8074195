// Package events names what the site modules announce to each other: the
// outcome of every quote attempt and each gallery reload. The bus itself lives
// in platform/events; the aliases below keep callers on a single import.
package events

import (
	"dumarte_backend/platform/events"
	"dumarte_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus returns the bus cmd/api shares between the quotes, gallery
// and notification modules.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteSubmitted is published when a quote request was handed to the email
// dispatcher successfully.
type QuoteSubmitted struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	ServiceCode  string    `json:"serviceCode"`
	BudgetCode   string    `json:"budgetCode,omitempty"`
}

func (e QuoteSubmitted) EventName() string { return "quotes.quote.submitted" }

// QuoteFailed is published when a submission attempt ends in a failure outcome.
type QuoteFailed struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	Kind         string    `json:"kind"`
	Cause        string    `json:"cause"`
	Detail       string    `json:"detail,omitempty"`
}

func (e QuoteFailed) EventName() string { return "quotes.quote.failed" }

// =============================================================================
// Gallery Domain Events
// =============================================================================

// GalleryRefreshed is published after the project cache was invalidated and
// reloaded.
type GalleryRefreshed struct {
	BaseEvent
	Projects   int `json:"projects"`
	Categories int `json:"categories"`
}

func (e GalleryRefreshed) EventName() string { return "gallery.projects.refreshed" }
