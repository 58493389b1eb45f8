package services

import (
	"context"
	"sync"
	"time"

	"etalase/internal/metrics"
	"etalase/pkg/logx"

	"github.com/rs/zerolog"
)

// CountdownPublisher receives the lightweight countdown refresh.
type CountdownPublisher interface {
	Countdowns(items []Countdown)
}

// TimerEngine checks discount timers on a fixed interval. When a timer has
// run out it reverts the product (which persists and reloads the storefront);
// otherwise it only publishes the remaining times.
type TimerEngine struct {
	catalog   *Catalog
	publisher CountdownPublisher
	interval  time.Duration
	now       func() time.Time
	log       zerolog.Logger

	startMu sync.Mutex
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewTimerEngine creates an engine ticking every interval (1s when zero).
func NewTimerEngine(catalog *Catalog, publisher CountdownPublisher, interval time.Duration, now func() time.Time) *TimerEngine {
	if interval <= 0 {
		interval = time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &TimerEngine{
		catalog:   catalog,
		publisher: publisher,
		interval:  interval,
		now:       now,
		log:       logx.Component("timer"),
	}
}

// Start launches the tick loop. A loop started earlier is stopped first, so at
// most one loop runs at a time, also when Start races with itself.
func (e *TimerEngine) Start(ctx context.Context) {
	e.startMu.Lock()
	defer e.startMu.Unlock()

	e.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	e.mu.Lock()
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	go e.run(ctx, done)
	e.log.Info().Dur("interval", e.interval).Msg("timer engine started")
}

// Stop ends the running loop, if any, and waits for it to exit.
func (e *TimerEngine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (e *TimerEngine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick runs one expiry pass. Panics are logged and swallowed so the loop survives.
func (e *TimerEngine) Tick() {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("timer tick failed")
		}
	}()

	metrics.TimerTicks.Inc()
	now := e.now()

	if reverted := e.catalog.ExpireDue(now); len(reverted) > 0 {
		metrics.ActiveTimers.Set(float64(len(e.catalog.Countdowns(now))))
		return
	}

	countdowns := e.catalog.Countdowns(now)
	metrics.ActiveTimers.Set(float64(len(countdowns)))
	if len(countdowns) > 0 && e.publisher != nil {
		e.publisher.Countdowns(countdowns)
	}
}
