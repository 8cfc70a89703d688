package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverOrder(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := NewDriver(time.Hour, 1, logger)
	var calls []string
	d.Add(Func(func() { calls = append(calls, "hardware") }), Func(func() { calls = append(calls, "rigctl") }))

	d.Tick()
	d.Tick()
	assert.Equal(t, []string{"hardware", "rigctl", "hardware", "rigctl"}, calls)
	assert.Equal(t, uint64(2), d.Ticks())
}

func TestDriverSignalCoalesces(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := NewDriver(time.Hour, 2, logger)
	for range 10 {
		d.Signal()
	}
	assert.Len(t, d.signal, 2)
}

func TestDriverRunOnSignal(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := NewDriver(time.Hour, 4, logger)
	var n atomic.Int32
	d.Add(Func(func() { n.Add(1) }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	d.Signal()
	require.Eventually(t, func() bool { return n.Load() >= 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
}

func TestDriverRunOnInterval(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := NewDriver(5*time.Millisecond, 1, logger)
	var n atomic.Int32
	d.Add(Func(func() { n.Add(1) }))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go d.Run(ctx)

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)
}
