package fetch

import (
	"context"
	"log"
	"sync"
	"time"

	"pettingzoo/internal/eventbus"
)

const defaultWatchInterval = 60 * time.Second

// Watcher re-checks upstream health on an interval and publishes an
// event whenever the overall status changes.
type Watcher struct {
	checker  *Checker
	bus      *eventbus.Bus
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	last    string
}

func NewWatcher(checker *Checker, bus *eventbus.Bus, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	return &Watcher{checker: checker, bus: bus, interval: interval}
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	go w.loop(ctx)
	return nil
}

func (w *Watcher) Stop(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}
	w.running = false
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.observe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.observe(ctx)
		}
	}
}

func (w *Watcher) observe(ctx context.Context) {
	overall := w.checker.CheckAll(ctx)

	w.mu.Lock()
	prev := w.last
	w.last = overall.Status
	w.mu.Unlock()

	if prev != "" && prev != overall.Status {
		log.Printf("[health] status changed: %s -> %s", prev, overall.Status)
		w.bus.Publish(eventbus.TopicHealthChange, eventbus.HealthEvent{
			Previous: prev,
			Current:  overall.Status,
		})
	}
}
