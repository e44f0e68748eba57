package services

import (
	"context"
	"sync"
	"time"
)

// AdvanceFunc moves one order forward at time now and reports whether the
// order no longer needs polling.
type AdvanceFunc func(orderID string, now time.Time) (done bool)

// Tracker runs one polling task per active order.
type Tracker struct {
	interval time.Duration
	now      func() time.Time
	advance  AdvanceFunc

	mu    sync.Mutex
	tasks map[string]context.CancelFunc
	wg    sync.WaitGroup
}

// NewTracker creates a tracker that calls advance every interval.
// An interval of zero or less disables polling; Start becomes a no-op.
func NewTracker(interval time.Duration, now func() time.Time, advance AdvanceFunc) *Tracker {
	return &Tracker{
		interval: interval,
		now:      now,
		advance:  advance,
		tasks:    make(map[string]context.CancelFunc),
	}
}

// Start begins polling orderID. Starting a tracked order again does nothing.
func (t *Tracker) Start(orderID string) {
	if t.interval <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tasks[orderID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.tasks[orderID] = cancel
	t.wg.Add(1)
	go t.run(ctx, orderID)
}

func (t *Tracker) run(ctx context.Context, orderID string) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.advance(orderID, t.now()) {
				t.Stop(orderID)
				return
			}
		}
	}
}

// Stop cancels the task for orderID, if any.
func (t *Tracker) Stop(orderID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cancel, ok := t.tasks[orderID]; ok {
		cancel()
		delete(t.tasks, orderID)
	}
}

// Tracking reports whether orderID currently has a task.
func (t *Tracker) Tracking(orderID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tasks[orderID]
	return ok
}

// StopAll cancels every task and waits for them to exit.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	for id, cancel := range t.tasks {
		cancel()
		delete(t.tasks, id)
	}
	t.mu.Unlock()
	t.wg.Wait()
}
