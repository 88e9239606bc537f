package valuation

import (
	"context"
	"sync"
	"time"
)

// Result is the outcome of one debounced valuation.
type Result struct {
	Key      string
	Response *Response
	Err      error
}

// Debouncer coalesces bursts of requests into a single call to the source.
// Only the most recently scheduled request is ever sent; scheduling a new
// one cancels a call still in flight.
type Debouncer struct {
	source  Source
	delay   time.Duration
	timeout time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	latest  string
	stopped bool
}

// NewDebouncer creates a Debouncer that waits delay after the last
// Schedule before calling source, giving each call timeout to finish.
func NewDebouncer(source Source, delay, timeout time.Duration) *Debouncer {
	return &Debouncer{
		source:  source,
		delay:   delay,
		timeout: timeout,
	}
}

// Schedule queues req. deliver runs on another goroutine once the call
// completes, and is never invoked for a request that was superseded before
// it was sent.
func (d *Debouncer) Schedule(req Request, deliver func(Result)) {
	key := req.Key()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	d.latest = key
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(key, req, deliver)
	})
}

func (d *Debouncer) fire(key string, req Request, deliver func(Result)) {
	d.mu.Lock()
	if d.stopped || d.latest != key {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	d.cancel = cancel
	d.mu.Unlock()

	defer cancel()
	resp, err := d.source.Valuate(ctx, req)
	deliver(Result{Key: key, Response: resp, Err: err})
}

// Latest returns the key of the most recently scheduled request.
func (d *Debouncer) Latest() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// Stop cancels any pending or in-flight request. The Debouncer cannot be
// reused afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
}
