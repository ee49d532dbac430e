// Package await converts engine operations, timers, and frame delays into
// futures. Each adapter registers a continuation with the dispatcher and
// settles the returned task from it; failures surface through the future's
// rejection channel, never on the dispatcher goroutine.
package await

import (
	"time"

	"github.com/tickbridge/tickbridge/pkg/dispatch"
	"github.com/tickbridge/tickbridge/pkg/future"
	"github.com/tickbridge/tickbridge/pkg/interfaces"
	"github.com/tickbridge/tickbridge/pkg/types"
)

// Task couples a future with the dispatcher handle backing it, so callers
// can cancel the wait before it completes.
type Task[T any] struct {
	*future.Future[T]

	d *dispatch.Dispatcher
	h dispatch.Handle
}

// Cancel withdraws the pending watch and rejects the future with
// future.ErrCanceled. Returns false if the task already settled.
func (t *Task[T]) Cancel() bool {
	if !t.d.Cancel(t.h) {
		return false
	}
	return t.Future.Cancel()
}

// Operation awaits a host operation. The task resolves when the operation
// completes successfully and rejects with the operation's status error on
// failure.
func Operation(d *dispatch.Dispatcher, op interfaces.Operation) (*Task[future.Void], error) {
	task := &Task[future.Void]{Future: future.New[future.Void](), d: d}
	h, err := d.Watch(op, func(status error) {
		if status != nil {
			task.Reject(status)
			return
		}
		task.Resolve(future.Void{})
	})
	if err != nil {
		return nil, err
	}
	task.h = h
	return task, nil
}

// Value awaits a host operation that produces a result
func Value[T any](d *dispatch.Dispatcher, op interfaces.ValueOperation[T]) (*Task[T], error) {
	task := &Task[T]{Future: future.New[T](), d: d}
	h, err := d.Watch(op, func(status error) {
		if status != nil {
			task.Reject(status)
			return
		}
		task.Resolve(op.Result())
	})
	if err != nil {
		return nil, err
	}
	task.h = h
	return task, nil
}

// Delay resolves once the duration elapses on the chosen clock
func Delay(d *dispatch.Dispatcher, duration time.Duration, clock types.ClockKind) (*Task[future.Void], error) {
	task := &Task[future.Void]{Future: future.New[future.Void](), d: d}
	h, err := d.After(duration, clock, func() {
		task.Resolve(future.Void{})
	})
	if err != nil {
		return nil, err
	}
	task.h = h
	return task, nil
}

// DelayRealtime resolves once the duration elapses on the wall clock,
// regardless of simulation time scale or pauses.
func DelayRealtime(d *dispatch.Dispatcher, duration time.Duration) (*Task[future.Void], error) {
	return Delay(d, duration, types.ClockWall)
}

// NextFrame resolves on the next tick
func NextFrame(d *dispatch.Dispatcher) (*Task[future.Void], error) {
	return Frames(d, 0)
}

// Frames resolves after n further ticks
func Frames(d *dispatch.Dispatcher, n int) (*Task[future.Void], error) {
	task := &Task[future.Void]{Future: future.New[future.Void](), d: d}
	h, err := d.AfterFrames(n, func() {
		task.Resolve(future.Void{})
	})
	if err != nil {
		return nil, err
	}
	task.h = h
	return task, nil
}

// Until resolves once the predicate reports true. The predicate runs on
// the designated goroutine during the tick's watch scan.
func Until(d *dispatch.Dispatcher, pred func() bool) (*Task[future.Void], error) {
	if pred == nil {
		return nil, dispatch.ErrNilOperation
	}
	return Operation(d, predicateOperation(pred))
}

// predicateOperation adapts a plain completion predicate to the host
// operation contract.
type predicateOperation func() bool

func (p predicateOperation) Done() bool { return p() }
func (p predicateOperation) Err() error { return nil }
