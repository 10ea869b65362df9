// Package scheduler drives the timer with a wall-clock ticker.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TickScheduler calls tick once per interval until stopped.
type TickScheduler struct {
	tick     func(ctx context.Context)
	interval time.Duration
	logger   zerolog.Logger
	stopChan chan struct{}
	done     chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

func NewTickScheduler(tick func(ctx context.Context), interval time.Duration, logger zerolog.Logger) *TickScheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickScheduler{
		tick:     tick,
		interval: interval,
		logger:   logger.With().Str("component", "tick-scheduler").Logger(),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins ticking in a new goroutine. It does nothing once the
// scheduler has been started or stopped.
func (ts *TickScheduler) Start() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.started || ts.stopped {
		return
	}
	ts.started = true
	go ts.run()
	ts.logger.Info().Dur("interval", ts.interval).Msg("Tick scheduler started")
}

// Stop ends the loop and waits for an in-flight tick to return. Later
// calls return immediately, and a scheduler stopped before Start never
// ticks.
func (ts *TickScheduler) Stop() {
	ts.mu.Lock()
	if ts.stopped {
		ts.mu.Unlock()
		return
	}
	ts.stopped = true
	started := ts.started
	ts.mu.Unlock()

	close(ts.stopChan)
	if started {
		<-ts.done
	}
	ts.logger.Info().Msg("Tick scheduler stopped")
}

func (ts *TickScheduler) run() {
	defer close(ts.done)
	ticker := time.NewTicker(ts.interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case <-ticker.C:
			ts.tick(ctx)
		case <-ts.stopChan:
			return
		}
	}
}
