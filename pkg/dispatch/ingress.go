package dispatch

import "sync"

// ingressQueue is the multi-producer single-consumer queue carrying work
// posted from arbitrary goroutines onto the designated one. Producers
// append under the mutex; the dispatcher swaps the slice out at drain
// time, so items posted during a drain wait for the next tick.
type ingressQueue struct {
	mu     sync.Mutex
	items  []func()
	closed bool
}

func newIngressQueue() *ingressQueue {
	return &ingressQueue{}
}

// push appends a work item. FIFO order holds per producer goroutine.
func (q *ingressQueue) push(fn func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, fn)
	return nil
}

// drain removes and returns up to budget items. A zero budget takes
// everything present at drain start. Items beyond the budget stay queued,
// in order, for the next tick.
func (q *ingressQueue) drain(budget int) []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	if budget <= 0 || budget >= len(q.items) {
		items := q.items
		q.items = nil
		return items
	}

	items := q.items[:budget:budget]
	q.items = q.items[budget:]
	return items
}

func (q *ingressQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *ingressQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}
