// Package mainthread provides a thread-affine execution context for the
// engine's designated goroutine. It answers "am I on the designated
// goroutine" cheaply and marshals work onto it through an Executor, either
// fire-and-forget (Post) or blocking for the result (Send).
package mainthread

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/petermattis/goid"

	"github.com/tickbridge/tickbridge/pkg/interfaces"
)

// Sentinel errors for context operations
var (
	// ErrNilWork indicates a nil work function
	ErrNilWork = errors.New("work function must not be nil")

	// ErrSendTimeout indicates Send gave up waiting for the designated
	// goroutine to service its queue
	ErrSendTimeout = errors.New("send timed out waiting for designated goroutine")
)

// Context identifies the designated goroutine and marshals work onto it.
// The dispatcher constructs exactly one Context per process, bound to the
// goroutine that created the dispatcher.
type Context struct {
	designated  int64
	exec        interfaces.Executor
	sendTimeout time.Duration
}

// NewContext binds a context to the calling goroutine as the designated
// one. sendTimeout bounds the Send spin-wait; zero disables the bound.
func NewContext(exec interfaces.Executor, sendTimeout time.Duration) *Context {
	return &Context{
		designated:  goid.Get(),
		exec:        exec,
		sendTimeout: sendTimeout,
	}
}

// IsCurrent reports whether the caller is on the designated goroutine.
// It is lock-free; awaiting code checks it on every completion poll.
func (c *Context) IsCurrent() bool {
	return goid.Get() == c.designated
}

// Post enqueues fn to run on the designated goroutine at its next tick.
// It never blocks the caller and is safe from any goroutine.
func (c *Context) Post(fn func()) error {
	if fn == nil {
		return ErrNilWork
	}
	return c.exec.Post(fn)
}

// Send runs fn on the designated goroutine and blocks the caller until it
// has executed, returning its result or error. The wait is a spin with
// runtime.Gosched backoff: acceptable because the designated goroutine is
// expected to service its queue at sub-frame latency, but if that
// goroutine stalls, the caller burns CPU until the configured timeout (or
// forever with no timeout). Called on the designated goroutine itself,
// fn runs inline to avoid self-deadlock.
func (c *Context) Send(fn func() (interface{}, error)) (interface{}, error) {
	if fn == nil {
		return nil, ErrNilWork
	}

	if c.IsCurrent() {
		return fn()
	}

	var (
		done   = make(chan struct{}) // closed by the wrapper; polled, never selected with blocking
		result interface{}
		err    error
	)

	wrapper := func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sent work panicked: %v", r)
			}
			close(done)
		}()
		result, err = fn()
	}

	if postErr := c.exec.Post(wrapper); postErr != nil {
		return nil, postErr
	}

	var deadline time.Time
	if c.sendTimeout > 0 {
		deadline = time.Now().Add(c.sendTimeout)
	}

	for {
		select {
		case <-done:
			return result, err
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, ErrSendTimeout
		}
		runtime.Gosched()
	}
}

// Call runs fn on the designated goroutine via Send and returns its typed
// result.
func Call[T any](c *Context, fn func() (T, error)) (T, error) {
	result, err := c.Send(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	value, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected result type %T", result)
	}
	return value, nil
}
