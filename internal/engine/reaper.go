package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Reaper periodically closes idle sessions.
type Reaper struct {
	cron     *cron.Cron
	registry *Registry
	idleTTL  time.Duration
	log      *slog.Logger
}

// NewReaper creates a Reaper that runs on schedule (any robfig/cron spec,
// e.g. "@every 1m") and closes sessions idle for longer than idleTTL.
func NewReaper(
	registry *Registry,
	schedule string,
	idleTTL time.Duration,
	log *slog.Logger,
) (*Reaper, error) {
	c := cron.New()

	r := &Reaper{
		cron:     c,
		registry: registry,
		idleTTL:  idleTTL,
		log:      log,
	}

	if _, err := c.AddFunc(schedule, r.run); err != nil {
		return nil, err
	}

	return r, nil
}

// Start begins running scheduled reaps.
func (r *Reaper) Start() {
	r.log.Info("session reaper started", "idle_ttl", r.idleTTL)
	r.cron.Start()
}

// Stop stops the reaper, waiting for a running reap to finish.
func (r *Reaper) Stop() context.Context {
	r.log.Info("session reaper stopping")
	return r.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (r *Reaper) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *Reaper) run() {
	if n := r.registry.ReapIdle(r.idleTTL); n > 0 {
		r.log.Info("reaped idle sessions", "count", n, "remaining", r.registry.Len())
	}
}
