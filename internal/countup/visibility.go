package countup

import "sync"

// Observer reports when a surface enters the viewport. Observe registers
// onEnter for transitions to at least threshold visible and returns a
// function that releases the registration.
type Observer interface {
	Observe(threshold float64, onEnter func()) (release func())
}

// Trigger is an Observer driven by explicit visibility reports, e.g. from a
// client that forwards its intersection events.
type Trigger struct {
	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int
}

type subscription struct {
	threshold float64
	onEnter   func()
	visible   bool
}

// NewTrigger creates a Trigger with no subscribers.
func NewTrigger() *Trigger {
	return &Trigger{subs: make(map[int]*subscription)}
}

// Observe implements Observer.
func (t *Trigger) Observe(threshold float64, onEnter func()) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = &subscription{threshold: threshold, onEnter: onEnter}
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// Report records the currently visible fraction (0..1) and fires onEnter for
// every subscriber that just became visible.
func (t *Trigger) Report(ratio float64) {
	var fire []func()

	t.mu.Lock()
	for _, sub := range t.subs {
		visible := ratio > 0 && ratio >= sub.threshold
		if visible && !sub.visible {
			fire = append(fire, sub.onEnter)
		}
		sub.visible = visible
	}
	t.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Subscribers returns the number of live registrations.
func (t *Trigger) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
