// Package events is the in-process publish/subscribe layer the site modules
// use to react to each other without importing each other. Quote outcomes and
// gallery refreshes are published here; operator alerts and logs subscribe.
package events

import (
	"context"
	"time"
)

// Event is anything published on a Bus. Subscriptions are keyed by EventName,
// so names must be unique across modules ("<module>.<entity>.<verb>").
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent stamps an event with the moment it was raised, in UTC.
type BaseEvent struct {
	At time.Time `json:"occurredAt"`
}

// OccurredAt implements Event.
func (e BaseEvent) OccurredAt() time.Time { return e.At }

// NewBaseEvent stamps the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{At: time.Now().UTC()}
}

// Handler reacts to one published event. A returned error is logged by the
// bus for asynchronous delivery and joined into PublishSync's result.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a closure subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }
