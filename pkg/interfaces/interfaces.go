// Package interfaces provides abstractions for dependency injection and testability
package interfaces

// Operation is the narrow contract a host asynchronous operation exposes:
// a completion predicate and an error status once complete. The dispatcher
// polls Done once per tick and consumes nothing else.
type Operation interface {
	// Done reports whether the operation has finished (success or failure)
	Done() bool

	// Err returns nil on success, or the failure status once Done is true.
	// The result is unspecified while the operation is still running.
	Err() error
}

// ValueOperation is an Operation that produces a typed result on success
type ValueOperation[T any] interface {
	Operation

	// Result returns the operation's value. Only valid once Done is true
	// and Err returned nil.
	Result() T
}

// Executor accepts work to be run on the designated goroutine. The
// dispatcher's ingress queue implements this; the thread-affine context
// consumes it.
type Executor interface {
	// Post enqueues fn to run at the next tick. It never blocks and is
	// safe to call from any goroutine.
	Post(fn func()) error
}

// TickDriver is implemented by hosts that own the frame loop and drive
// dispatcher progress. The simulated loop in internal/sim is one such host.
type TickDriver interface {
	Run() error
	Stop()
}

// Notifier delivers user-facing notifications about awaited operations
type Notifier interface {
	Notify(title, message string) error
}
