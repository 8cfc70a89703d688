// Package poll runs the single loop that owns all radio and protocol state.
package poll

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Tickable is a component serviced once per tick.
type Tickable interface {
	Poll()
}

// Func adapts a function to Tickable.
type Func func()

func (f Func) Poll() { f() }

// Driver calls every component in order on each tick. I/O goroutines call
// Signal to get an early tick instead of waiting out the interval.
type Driver struct {
	log      logrus.FieldLogger
	interval time.Duration
	signal   chan struct{}
	parts    []Tickable
	ticks    uint64
}

// NewDriver returns a driver ticking at interval. buffer bounds the
// pending early-tick requests; extra requests coalesce.
func NewDriver(interval time.Duration, buffer int, log logrus.FieldLogger) *Driver {
	if buffer < 1 {
		buffer = 1
	}
	return &Driver{
		log:      log,
		interval: interval,
		signal:   make(chan struct{}, buffer),
	}
}

// Add registers components. Call before Run.
func (d *Driver) Add(parts ...Tickable) {
	d.parts = append(d.parts, parts...)
}

// Signal requests an early tick. It never blocks and is safe from any
// goroutine.
func (d *Driver) Signal() {
	select {
	case d.signal <- struct{}{}:
	default:
	}
}

// Tick services every component once.
func (d *Driver) Tick() {
	d.ticks++
	for _, p := range d.parts {
		p.Poll()
	}
}

// Ticks counts completed ticks.
func (d *Driver) Ticks() uint64 { return d.ticks }

// Run ticks until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	t := time.NewTicker(d.interval)
	defer t.Stop()
	d.log.Debugf("poll loop started, interval %s, %d components", d.interval, len(d.parts))
	for {
		select {
		case <-ctx.Done():
			d.log.Debugf("poll loop stopped after %d ticks", d.ticks)
			return ctx.Err()
		case <-t.C:
		case <-d.signal:
		}
		d.Tick()
	}
}
