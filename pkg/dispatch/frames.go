package dispatch

// frameEntry fires when the dispatcher's tick counter reaches an absolute
// target tick computed at registration time.
type frameEntry struct {
	due     uint64
	cont    func()
	regTick uint64
}

// AfterFrames schedules a continuation to fire once n further ticks have
// been observed. n == 0 fires on the next tick, never synchronously,
// matching the deferred-completion policy of Watch.
func (d *Dispatcher) AfterFrames(n int, cont func()) (Handle, error) {
	if cont == nil {
		return Handle{}, ErrNilContinuation
	}
	if n < 0 {
		return Handle{}, ErrNegativeFrames
	}
	if d.closed.Load() {
		return Handle{}, ErrClosed
	}

	h := newHandle()

	d.mu.Lock()
	d.frames[h] = &frameEntry{
		due:     d.tick + uint64(n),
		cont:    cont,
		regTick: d.tick,
	}
	d.mu.Unlock()

	return h, nil
}

// fireFrameTargets fires entries whose target tick has arrived
func (d *Dispatcher) fireFrameTargets(now uint64) {
	d.mu.Lock()
	var due []*frameEntry
	for h, f := range d.frames {
		if f.regTick >= now {
			continue
		}
		if now >= f.due {
			delete(d.frames, h)
			due = append(due, f)
		}
	}
	d.mu.Unlock()

	for _, f := range due {
		d.invoke(kindFrame, f.cont)
	}
}
