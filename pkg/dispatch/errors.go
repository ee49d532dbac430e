package dispatch

import "errors"

// Sentinel errors for dispatcher operations following Go best practices.
// These enable reliable error checking with errors.Is()
var (
	// ErrAlreadyInitialized indicates a dispatcher already exists in this process
	ErrAlreadyInitialized = errors.New("dispatcher already initialized")

	// ErrClosed indicates the dispatcher has been closed
	ErrClosed = errors.New("dispatcher is closed")

	// ErrNotDesignated indicates Tick was called off the designated goroutine
	ErrNotDesignated = errors.New("tick called from non-designated goroutine")

	// ErrNilWork indicates a nil work function was posted
	ErrNilWork = errors.New("work function must not be nil")

	// ErrNilContinuation indicates a nil continuation was registered
	ErrNilContinuation = errors.New("continuation must not be nil")

	// ErrNilOperation indicates a nil operation was watched
	ErrNilOperation = errors.New("operation must not be nil")

	// ErrNegativeDuration indicates a timer was scheduled with a negative duration
	ErrNegativeDuration = errors.New("timer duration must not be negative")

	// ErrNegativeFrames indicates a frame delay was scheduled with a negative count
	ErrNegativeFrames = errors.New("frame count must not be negative")

	// ErrInvalidClock indicates an unknown clock kind
	ErrInvalidClock = errors.New("invalid clock kind")
)
