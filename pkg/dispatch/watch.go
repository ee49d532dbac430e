package dispatch

import (
	"github.com/tickbridge/tickbridge/pkg/interfaces"
)

// watchEntry pairs a polled operation with exactly one continuation.
// regTick defers firing to a tick after registration, so a continuation
// never runs synchronously inside Watch even when the operation is
// already complete.
type watchEntry struct {
	op      interfaces.Operation
	cont    func(error)
	regTick uint64
}

// Watch registers an operation to poll. The continuation fires exactly
// once, on the first tick after registration that observes completion,
// and receives the operation's error status (nil on success).
func (d *Dispatcher) Watch(op interfaces.Operation, cont func(error)) (Handle, error) {
	if op == nil {
		return Handle{}, ErrNilOperation
	}
	if cont == nil {
		return Handle{}, ErrNilContinuation
	}
	if d.closed.Load() {
		return Handle{}, ErrClosed
	}

	h := newHandle()

	d.mu.Lock()
	d.watches[h] = &watchEntry{op: op, cont: cont, regTick: d.tick}
	d.mu.Unlock()

	return h, nil
}

// scanWatches polls eligible watches and fires completed ones. Operations
// are polled outside the registry lock because Done is opaque host code;
// removal happens under the lock before the continuation is invoked, so a
// racing Cancel and a firing resolve to at most one continuation call.
func (d *Dispatcher) scanWatches(now uint64) {
	type candidate struct {
		h     Handle
		entry *watchEntry
	}

	d.mu.Lock()
	candidates := make([]candidate, 0, len(d.watches))
	for h, w := range d.watches {
		if w.regTick >= now {
			continue
		}
		candidates = append(candidates, candidate{h: h, entry: w})
	}
	d.mu.Unlock()

	for _, c := range candidates {
		if !c.entry.op.Done() {
			continue
		}

		d.mu.Lock()
		_, pending := d.watches[c.h]
		if pending {
			delete(d.watches, c.h)
		}
		d.mu.Unlock()

		if !pending {
			// Canceled between the poll and removal.
			continue
		}

		status := c.entry.op.Err()
		d.invoke(kindWatch, func() { c.entry.cont(status) })
	}
}
