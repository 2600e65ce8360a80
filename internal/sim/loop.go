// Package sim provides the fixed-timestep simulation loop. All registered
// callbacks run sequentially on one goroutine, which is the single logical
// simulation thread the engine's no-locking discipline relies on.
package sim

import (
	"context"
	"sync"
	"time"
)

// Loop invokes every registered callback once per tick interval, in
// registration order, and maintains a monotonic tick counter.
//
// Invariant: callbacks for tick N all complete before any callback for
// tick N+1 starts.
type Loop struct {
	interval time.Duration

	mu        sync.Mutex
	tick      int64
	callbacks []namedCallback
}

type namedCallback struct {
	name string
	fn   func(tick int64)
}

// NewLoop returns a loop that fires every interval.
//
// Precondition: interval must be > 0.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		panic("sim.NewLoop: interval must be > 0")
	}
	return &Loop{interval: interval}
}

// Register adds a named callback invoked once per tick with the current tick
// count. Registration order is invocation order.
//
// Precondition: fn must not be nil.
func (l *Loop) Register(name string, fn func(tick int64)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callbacks = append(l.callbacks, namedCallback{name: name, fn: fn})
}

// Tick returns the number of completed ticks.
func (l *Loop) Tick() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tick
}

// Step advances the loop by one tick synchronously. Used by tests and by
// Start's internal ticker.
func (l *Loop) Step() {
	l.mu.Lock()
	l.tick++
	tick := l.tick
	callbacks := make([]namedCallback, len(l.callbacks))
	copy(callbacks, l.callbacks)
	l.mu.Unlock()
	for _, cb := range callbacks {
		cb.fn(tick)
	}
}

// Start runs the loop until ctx is cancelled.
//
// Postcondition: All registered callbacks are invoked once per interval, on a
// single goroutine.
func (l *Loop) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Step()
			}
		}
	}()
}
