package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dumarte_backend/internal/captcha"
	"dumarte_backend/platform/apperr"
)

// ErrFormBusy is returned when a form is asked to submit while an attempt is
// still in flight.
var ErrFormBusy = apperr.Conflict("a quote submission is already in progress")

// Form is one contact form instance. It allows a single attempt in flight and
// exposes the busy flag and the current flow state.
type Form struct {
	flow     *Flow
	busy     atomic.Bool
	state    atomic.Int32
	lastUsed atomic.Int64
}

// NewForm creates a form backed by flow.
func NewForm(flow *Flow) *Form {
	return &Form{flow: flow}
}

// Submit runs one attempt unless another is in progress. The busy flag is
// cleared when the attempt returns, whatever its outcome.
func (f *Form) Submit(ctx context.Context, fields RawFields, tokens captcha.TokenProvider) (Outcome, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return Outcome{}, ErrFormBusy
	}
	defer f.busy.Store(false)
	f.lastUsed.Store(time.Now().UnixNano())

	return f.flow.run(ctx, fields, tokens, func(s State) {
		f.state.Store(int32(s))
	}), nil
}

// Busy reports whether an attempt is in flight.
func (f *Form) Busy() bool {
	return f.busy.Load()
}

// State returns the step the current attempt is in, or StateIdle.
func (f *Form) State() State {
	return State(f.state.Load())
}

// maxForms caps the registry. Idle forms are swept first, then the least
// recently used non-busy form is evicted.
const maxForms = 1024

// FormRegistry keeps one Form per client key.
type FormRegistry struct {
	flow    *Flow
	idleTTL time.Duration
	limit   int

	mu    sync.Mutex
	forms map[string]*Form
}

// NewFormRegistry creates a registry holding at most maxForms forms. Forms
// idle for longer than idleTTL are dropped first when it is full.
func NewFormRegistry(flow *Flow, idleTTL time.Duration) *FormRegistry {
	return &FormRegistry{
		flow:    flow,
		idleTTL: idleTTL,
		limit:   maxForms,
		forms:   make(map[string]*Form),
	}
}

// Form returns the form for key, creating it on first use.
func (r *FormRegistry) Form(key string) *Form {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if form, ok := r.forms[key]; ok {
		form.lastUsed.Store(now.UnixNano())
		return form
	}
	if len(r.forms) >= r.limit {
		r.sweepLocked(now)
	}
	if len(r.forms) >= r.limit {
		r.evictOldestLocked()
	}
	form := NewForm(r.flow)
	form.lastUsed.Store(now.UnixNano())
	r.forms[key] = form
	return form
}

// Lookup returns the form for key without creating one.
func (r *FormRegistry) Lookup(key string) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form, ok := r.forms[key]
	return form, ok
}

// Len returns the number of tracked forms.
func (r *FormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep drops idle, non-busy forms last used before now minus the idle TTL.
func (r *FormRegistry) Sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)
}

func (r *FormRegistry) sweepLocked(now time.Time) {
	cutoff := now.Add(-r.idleTTL).UnixNano()
	for key, form := range r.forms {
		if !form.Busy() && form.lastUsed.Load() < cutoff {
			delete(r.forms, key)
		}
	}
}

// evictOldestLocked drops the least recently used form that is not busy.
// Busy forms are never dropped, so the registry can briefly exceed its limit
// while that many attempts are in flight.
func (r *FormRegistry) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  int64
		found     bool
	)
	for key, form := range r.forms {
		if form.Busy() {
			continue
		}
		if at := form.lastUsed.Load(); !found || at < oldestAt {
			oldestKey, oldestAt, found = key, at, true
		}
	}
	if found {
		delete(r.forms, oldestKey)
	}
}
