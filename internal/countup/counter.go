package countup

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Renderer receives every frame of a run. It is called from the counter's run
// goroutine and must not call back into the Counter.
type Renderer func(Frame)

// Option customizes a Counter.
type Option func(*Counter)

// WithFrameInterval sets the delay between frames.
func WithFrameInterval(d time.Duration) Option {
	return func(c *Counter) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) {
		if now != nil {
			c.now = now
		}
	}
}

// WithThreshold sets the visible fraction required to start a run.
func WithThreshold(ratio float64) Option {
	return func(c *Counter) {
		c.threshold = ratio
	}
}

// Counter owns the animation state of one surface. At most one run is active
// at a time: Activate cancels and joins the previous run before starting.
type Counter struct {
	mu        sync.Mutex
	spec      Spec
	source    string
	render    Renderer
	interval  time.Duration
	now       func() time.Time
	threshold float64

	plan     Plan
	resolved bool
	runs     int

	cancel  context.CancelFunc
	done    chan struct{}
	release func()
	closed  bool
}

// New creates a counter for the given display text.
func New(spec Spec, source string, render Renderer, opts ...Option) *Counter {
	c := &Counter{
		spec:      spec,
		source:    source,
		render:    render,
		interval:  DefaultFrameInterval,
		now:       time.Now,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Plan returns the resolved run parameters. Resolution happens once; later
// calls and activations reuse the same values.
func (c *Counter) Plan() Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked()
}

func (c *Counter) resolveLocked() Plan {
	if !c.resolved {
		c.plan = Resolve(c.spec, c.source)
		c.resolved = true
	}
	return c.plan
}

// Runs reports how many runs have been started.
func (c *Counter) Runs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// Activate starts a new run from StartValue, superseding any run in flight.
// It is a no-op after Close.
func (c *Counter) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopLocked()

	plan := c.resolveLocked()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.runs++

	go c.run(ctx, plan, c.now(), done)
}

func (c *Counter) run(ctx context.Context, plan Plan, start time.Time, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame := plan.FrameAt(c.now().Sub(start))
		if ctx.Err() != nil {
			return
		}
		c.render(frame)
		if frame.Final {
			return
		}
	}
}

// stopLocked cancels the active run and waits for its goroutine to exit.
func (c *Counter) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
}

// Wait blocks until the current run, if any, has finished or been cancelled.
func (c *Counter) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Attach subscribes the counter to visibility changes. Every enter event
// starts a new run. A previous subscription is released first.
func (c *Counter) Attach(o Observer) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	prev := c.release
	c.release = nil
	threshold := c.threshold
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
	release := o.Observe(threshold, c.Activate)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		release()
		return
	}
	c.release = release
	c.mu.Unlock()
}

// Close cancels the active run and releases the visibility subscription.
func (c *Counter) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopLocked()
	release := c.release
	c.release = nil
	c.mu.Unlock()

	if release != nil {
		release()
	}
}
