// Package future provides a generic future type used as the result side of
// awaited engine operations. A future settles at most once: it is resolved
// with a value, rejected with an error, or canceled.
package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Void is the result type for futures that carry no value
type Void = struct{}

// ErrCanceled marks a future that was canceled before its operation
// completed. Cancellation is not a failure; check with errors.Is.
var ErrCanceled = errors.New("future canceled")

// StatusError carries a host engine status code for a failed operation
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("operation failed with status %d", e.Code)
	}
	return fmt.Sprintf("operation failed with status %d: %s", e.Code, e.Reason)
}

// Future is a single-settlement container. The zero value is not usable;
// create futures with New.
type Future[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	value   T
	err     error
	settled bool
}

// New creates a pending future
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve settles the future with a value. Returns false if the future
// was already settled.
func (f *Future[T]) Resolve(value T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settled {
		return false
	}
	f.value = value
	f.settled = true
	close(f.done)
	return true
}

// Reject settles the future with an error. A nil error is normalized so
// that a settled future always reports failure distinctly from success.
// Returns false if the future was already settled.
func (f *Future[T]) Reject(err error) bool {
	if err == nil {
		err = errors.New("future rejected without cause")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settled {
		return false
	}
	f.err = err
	f.settled = true
	close(f.done)
	return true
}

// Cancel settles the future with ErrCanceled. Canceling an already
// settled future is a no-op and returns false.
func (f *Future[T]) Cancel() bool {
	return f.Reject(ErrCanceled)
}

// Done returns a channel closed when the future settles
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done, and returns the
// result. Context cancellation surfaces as the context's error.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryResult returns the result without blocking. The boolean reports
// whether the future has settled; value and error are only meaningful
// when it is true.
func (f *Future[T]) TryResult() (T, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.settled, f.err
}

// Canceled reports whether the future settled via cancellation
func (f *Future[T]) Canceled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled && errors.Is(f.err, ErrCanceled)
}
