// Package dispatch provides the frame-driven completion dispatcher. It owns
// all pending cross-goroutine work and all watched handles, timers, and
// frame delays, and progresses them exactly once per externally-driven tick.
package dispatch

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/tickbridge/tickbridge/pkg/logger"
	"github.com/tickbridge/tickbridge/pkg/mainthread"
	"github.com/tickbridge/tickbridge/pkg/types"
)

// live guards the process-wide single-instance contract. New fails with
// ErrAlreadyInitialized while a dispatcher exists; Close releases the slot.
var live atomic.Bool

// Dispatcher bridges callback-based engine operations into continuations
// fired on the engine's designated goroutine. Construct it on that
// goroutine; Tick must be driven from it once per frame. Registration
// calls are safe from any goroutine.
type Dispatcher struct {
	cfg        types.DispatcherConfig
	log        logger.Logger
	designated int64
	closed     atomic.Bool

	ingress *ingressQueue
	context *mainthread.Context

	mu      sync.Mutex
	tick    uint64
	watches map[Handle]*watchEntry
	timers  map[Handle]*timerEntry
	frames  map[Handle]*frameEntry
}

// Stats is a point-in-time snapshot of dispatcher load
type Stats struct {
	Tick           uint64
	PendingWork    int
	PendingWatches int
	PendingTimers  int
	PendingFrames  int
}

// New creates the process dispatcher, bound to the calling goroutine as
// the designated one. A second New while an instance is live returns
// ErrAlreadyInitialized; Close releases the instance.
func New(cfg types.DispatcherConfig, log logger.Logger) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	if !live.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInitialized
	}

	if log == nil {
		log = logger.CreateLogger(cfg.LogFile, string(cfg.LogLevel))
	}

	d := &Dispatcher{
		cfg:        cfg,
		log:        log.WithScope("dispatch"),
		designated: goid.Get(),
		ingress:    newIngressQueue(),
		watches:    make(map[Handle]*watchEntry),
		timers:     make(map[Handle]*timerEntry),
		frames:     make(map[Handle]*frameEntry),
	}
	d.context = mainthread.NewContext(d, cfg.SendTimeout())

	return d, nil
}

// Context returns the thread-affine execution context bound to this
// dispatcher's designated goroutine.
func (d *Dispatcher) Context() *mainthread.Context {
	return d.context
}

// Post enqueues work to run on the designated goroutine at the next tick.
// It never blocks and is safe to call concurrently from many goroutines.
func (d *Dispatcher) Post(fn func()) error {
	if fn == nil {
		return ErrNilWork
	}
	if d.closed.Load() {
		return ErrClosed
	}
	return d.ingress.push(fn)
}

// Cancel removes a pending item before it fires, without invoking its
// continuation. Returns true if the item was still pending; canceling an
// already fired or unknown handle is a no-op.
func (d *Dispatcher) Cancel(h Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.watches[h]; ok {
		delete(d.watches, h)
		return true
	}
	if _, ok := d.timers[h]; ok {
		delete(d.timers, h)
		return true
	}
	if _, ok := d.frames[h]; ok {
		delete(d.frames, h)
		return true
	}
	return false
}

// Tick progresses the dispatcher by one frame. The host calls it exactly
// once per engine frame, from the designated goroutine. Phases run in
// order: drain posted work, scan watches, advance timers, fire frame
// targets. A panicking continuation is logged and does not stop the tick.
func (d *Dispatcher) Tick(frame types.Frame) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if goid.Get() != d.designated {
		return ErrNotDesignated
	}
	if err := frame.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	d.tick++
	now := d.tick
	d.mu.Unlock()
	ticksTotal.Inc()

	d.drainIngress()
	d.scanWatches(now)
	d.advanceTimers(now, frame)
	d.fireFrameTargets(now)

	d.updateGauges()
	return nil
}

// CurrentTick returns the number of ticks observed so far
func (d *Dispatcher) CurrentTick() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tick
}

// Stats returns a snapshot of pending load
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		Tick:           d.tick,
		PendingWork:    d.ingress.size(),
		PendingWatches: len(d.watches),
		PendingTimers:  len(d.timers),
		PendingFrames:  len(d.frames),
	}
}

// Close drops all pending items without firing them and releases the
// process-wide instance slot. Further registrations and ticks fail with
// ErrClosed.
func (d *Dispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	d.ingress.close()

	d.mu.Lock()
	dropped := len(d.watches) + len(d.timers) + len(d.frames)
	d.watches = make(map[Handle]*watchEntry)
	d.timers = make(map[Handle]*timerEntry)
	d.frames = make(map[Handle]*frameEntry)
	d.mu.Unlock()

	if dropped > 0 {
		d.log.Debug("dropped pending items on close", logger.WithField("count", dropped))
	}

	live.Store(false)
	return nil
}

// drainIngress runs posted work, bounded to the items present when the
// drain began (plus any configured budget cap) so producers cannot starve
// the tick.
func (d *Dispatcher) drainIngress() {
	items := d.ingress.drain(d.cfg.DrainBudget)
	for _, fn := range items {
		d.invoke(kindWork, fn)
	}
	if len(items) > 0 {
		drainedTotal.Add(float64(len(items)))
	}
}

// invoke runs a continuation under panic recovery. A misbehaving
// continuation must not abort the tick or starve sibling completions.
func (d *Dispatcher) invoke(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			panicsTotal.Inc()
			d.log.Error("continuation panic recovered",
				logger.WithField("kind", kind),
				logger.WithField("panic", r),
				logger.WithField("stack_trace", string(debug.Stack())))
		}
	}()

	fn()
	firedTotal.WithLabelValues(kind).Inc()
}

func (d *Dispatcher) updateGauges() {
	stats := d.Stats()
	pendingItems.WithLabelValues(kindWork).Set(float64(stats.PendingWork))
	pendingItems.WithLabelValues(kindWatch).Set(float64(stats.PendingWatches))
	pendingItems.WithLabelValues(kindTimer).Set(float64(stats.PendingTimers))
	pendingItems.WithLabelValues(kindFrame).Set(float64(stats.PendingFrames))
}
