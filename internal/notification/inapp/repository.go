package inapp

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Activity is one entry of the operator activity feed.
type Activity struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	ResourceID string    `json:"resourceId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateParams describes a new activity entry.
type CreateParams struct {
	Title      string
	Content    string
	Category   string
	ResourceID string
}

// Repository keeps the most recent activity entries in memory, oldest evicted
// first.
type Repository struct {
	mu       sync.Mutex
	capacity int
	entries  []Activity
	next     int
	full     bool
}

// NewRepository creates a repository holding up to capacity entries.
func NewRepository(capacity int) *Repository {
	if capacity < 1 {
		capacity = 1
	}
	return &Repository{
		capacity: capacity,
		entries:  make([]Activity, capacity),
	}
}

// Create stores a new entry and returns it.
func (r *Repository) Create(p CreateParams) Activity {
	entry := Activity{
		ID:         uuid.New(),
		Title:      p.Title,
		Content:    p.Content,
		Category:   p.Category,
		ResourceID: p.ResourceID,
		CreatedAt:  time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = entry
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
	return entry
}

// List returns up to limit entries, newest first.
func (r *Repository) List(limit int) []Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := r.next
	if r.full {
		size = r.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Activity, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + r.capacity) % r.capacity
		out = append(out, r.entries[idx])
	}
	return out
}
