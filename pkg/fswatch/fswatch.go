// Package fswatch exposes filesystem changes as awaitable operations
package fswatch

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/tickbridge/tickbridge/pkg/logger"
)

// ChangeOperation completes on the first filesystem event under the
// watched path. It satisfies the host operation contract, so it can be
// awaited like any engine operation.
type ChangeOperation struct {
	watcher *fsnotify.Watcher
	log     logger.Logger

	mu    sync.Mutex
	done  bool
	err   error
	event fsnotify.Event

	closeOnce sync.Once
}

// Watch starts watching path for the next change
func Watch(path string, log logger.Logger) (*ChangeOperation, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	op := &ChangeOperation{
		watcher: watcher,
		log:     log,
	}
	go op.run()

	return op, nil
}

func (op *ChangeOperation) run() {
	defer op.Close()

	select {
	case event, ok := <-op.watcher.Events:
		if !ok {
			op.settle(fsnotify.Event{}, fmt.Errorf("watcher closed before an event arrived"))
			return
		}
		if op.log != nil {
			op.log.Debug("filesystem event observed",
				logger.WithField("name", event.Name),
				logger.WithField("op", event.Op.String()))
		}
		op.settle(event, nil)
	case err, ok := <-op.watcher.Errors:
		if !ok {
			op.settle(fsnotify.Event{}, fmt.Errorf("watcher closed before an event arrived"))
			return
		}
		op.settle(fsnotify.Event{}, err)
	}
}

func (op *ChangeOperation) settle(event fsnotify.Event, err error) {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.done {
		return
	}
	op.done = true
	op.event = event
	op.err = err
}

// Done reports whether an event or watch error has been observed
func (op *ChangeOperation) Done() bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.done
}

// Err returns the watch error, if any, once Done is true
func (op *ChangeOperation) Err() error {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.err
}

// Result returns the observed event. Only valid once Done is true and
// Err returned nil.
func (op *ChangeOperation) Result() fsnotify.Event {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.event
}

// Close stops the underlying watcher. Safe to call multiple times; an
// operation abandoned before any event arrives should be closed to free
// the watcher.
func (op *ChangeOperation) Close() error {
	var err error
	op.closeOnce.Do(func() {
		err = op.watcher.Close()
	})
	return err
}
