package dispatch

import (
	"time"

	"github.com/tickbridge/tickbridge/pkg/types"
)

// timerEntry is a countdown against one of the three clocks. Simulation
// clocks subtract per-tick deltas; the wall clock compares elapsed real
// time since registration against the full duration.
type timerEntry struct {
	clock        types.ClockKind
	remaining    time.Duration
	duration     time.Duration
	registeredAt time.Time
	cont         func()
	regTick      uint64
}

// After schedules a continuation to fire once the given duration has
// elapsed on the chosen clock. A zero duration fires on the next tick.
func (d *Dispatcher) After(duration time.Duration, clock types.ClockKind, cont func()) (Handle, error) {
	if cont == nil {
		return Handle{}, ErrNilContinuation
	}
	if duration < 0 {
		return Handle{}, ErrNegativeDuration
	}
	if !clock.Valid() {
		return Handle{}, ErrInvalidClock
	}
	if d.closed.Load() {
		return Handle{}, ErrClosed
	}

	h := newHandle()

	d.mu.Lock()
	d.timers[h] = &timerEntry{
		clock:        clock,
		remaining:    duration,
		duration:     duration,
		registeredAt: time.Now(),
		cont:         cont,
		regTick:      d.tick,
	}
	d.mu.Unlock()

	return h, nil
}

// advanceTimers decrements eligible timers by the frame's deltas and
// fires expired ones. Entries are removed under the lock before their
// continuations run.
func (d *Dispatcher) advanceTimers(now uint64, frame types.Frame) {
	d.mu.Lock()
	var expired []*timerEntry
	for h, t := range d.timers {
		if t.regTick >= now {
			continue
		}

		done := false
		switch t.clock {
		case types.ClockScaled:
			t.remaining -= frame.Delta
			done = t.remaining <= 0
		case types.ClockUnscaled:
			t.remaining -= frame.UnscaledDelta
			done = t.remaining <= 0
		case types.ClockWall:
			done = frame.Now.Sub(t.registeredAt) >= t.duration
		}

		if done {
			delete(d.timers, h)
			expired = append(expired, t)
		}
	}
	d.mu.Unlock()

	for _, t := range expired {
		d.invoke(kindTimer, t.cont)
	}
}
