package sim_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-games/psiforge/internal/sim"
)

func TestNewLoop_NonPositiveInterval_Panics(t *testing.T) {
	assert.Panics(t, func() { sim.NewLoop(0) })
	assert.Panics(t, func() { sim.NewLoop(-time.Millisecond) })
}

func TestLoop_Step_InvokesCallbacksInOrder(t *testing.T) {
	l := sim.NewLoop(time.Millisecond)
	var order []string
	l.Register("first", func(int64) { order = append(order, "first") })
	l.Register("second", func(int64) { order = append(order, "second") })

	l.Step()
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, int64(1), l.Tick())
}

func TestLoop_Step_PassesMonotonicTick(t *testing.T) {
	l := sim.NewLoop(time.Millisecond)
	var ticks []int64
	l.Register("record", func(tick int64) { ticks = append(ticks, tick) })

	l.Step()
	l.Step()
	l.Step()
	assert.Equal(t, []int64{1, 2, 3}, ticks)
	assert.Equal(t, int64(3), l.Tick())
}

func TestLoop_Start_StepsUntilCancelled(t *testing.T) {
	l := sim.NewLoop(time.Millisecond)
	done := make(chan struct{})
	l.Register("signal", func(tick int64) {
		if tick == 3 {
			close(done)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not reach tick 3")
	}
	cancel()

	// After cancellation the tick counter settles.
	time.Sleep(10 * time.Millisecond)
	settled := l.Tick()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, settled, l.Tick())
}
