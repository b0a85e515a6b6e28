package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls buffering and which event types are forwarded.
type Config struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops and counts events when the buffer is full instead of
	// blocking the request that produced them.
	DropIfFull bool
	// Skip lists event types never forwarded, e.g. LoginRequired on a busy
	// public site.
	Skip []string
}

// Stats counts what happened to emitted events.
type Stats struct {
	Delivered uint64
	Dropped   uint64
	Skipped   uint64
	Pending   int
}

// Dispatcher relays events to a sink from one goroutine.
type Dispatcher struct {
	sink       Sink
	queue      chan Event
	stop       chan struct{}
	finished   chan struct{}
	dropIfFull bool
	skip       map[string]struct{}

	delivered atomic.Uint64
	dropped   atomic.Uint64
	skipped   atomic.Uint64
	closing   atomic.Bool
	closeOnce sync.Once
}

// NewDispatcher starts delivery. It returns nil when auditing is disabled;
// every method of a nil *Dispatcher is a no-op.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:       sink,
		queue:      make(chan Event, cfg.BufferSize),
		stop:       make(chan struct{}),
		finished:   make(chan struct{}),
		dropIfFull: cfg.DropIfFull,
	}
	if len(cfg.Skip) > 0 {
		d.skip = make(map[string]struct{}, len(cfg.Skip))
		for _, t := range cfg.Skip {
			d.skip[t] = struct{}{}
		}
	}

	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.finished)
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ev)
		case <-d.stop:
			// Drain what was queued before Close.
			for {
				select {
				case ev := <-d.queue:
					d.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	d.sink.Emit(context.Background(), ev)
	d.delivered.Add(1)
}

// Emit queues ev. Without DropIfFull it waits for room until ctx ends.
func (d *Dispatcher) Emit(ctx context.Context, ev Event) {
	if d == nil || d.closing.Load() {
		return
	}
	if _, skip := d.skip[ev.Type]; skip {
		d.skipped.Add(1)
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	if d.dropIfFull {
		select {
		case d.queue <- ev:
		default:
			d.dropped.Add(1)
		}
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case d.queue <- ev:
	case <-ctx.Done():
		d.dropped.Add(1)
	case <-d.stop:
	}
}

// Close stops accepting events and returns once the queue is delivered.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closing.Store(true)
		close(d.stop)
		<-d.finished
	})
}

// Dropped counts events lost to a full buffer or a canceled request.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Stats returns the delivery counters.
func (d *Dispatcher) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	return Stats{
		Delivered: d.delivered.Load(),
		Dropped:   d.dropped.Load(),
		Skipped:   d.skipped.Load(),
		Pending:   len(d.queue),
	}
}
