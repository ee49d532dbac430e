package sim

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/tickbridge/tickbridge/pkg/logger"
)

// SafeGroup supervises the demo's producer goroutines. It is an
// errgroup.Group that converts panics into errors, so one misbehaving
// producer surfaces as a failed run rather than a crashed process.
type SafeGroup struct {
	group  *errgroup.Group
	logger logger.Logger
}

// NewSafeGroup supervises goroutines under ctx; the returned context is
// canceled when any member fails
func NewSafeGroup(ctx context.Context, log logger.Logger) (*SafeGroup, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	return &SafeGroup{
		group:  g,
		logger: log,
	}, ctx
}

// Go starts fn on a supervised goroutine. A panic inside fn is logged
// and reported through Wait as an error instead of crashing the process.
func (sg *SafeGroup) Go(fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				if sg.logger != nil {
					sg.logger.Error("producer panic recovered",
						logger.WithField("panic", r),
						logger.WithField("stack_trace", string(debug.Stack())))
				}
				err = fmt.Errorf("producer panic: %v", r)
			}
		}()

		return fn()
	})
}

// SetLimit caps the number of concurrently running members
func (sg *SafeGroup) SetLimit(n int) {
	sg.group.SetLimit(n)
}

// Wait blocks until every supervised goroutine has finished and returns
// the first error observed, including recovered panics.
func (sg *SafeGroup) Wait() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if sg.logger != nil {
				sg.logger.Error("panic while waiting for producers",
					logger.WithField("panic", r),
					logger.WithField("stack_trace", string(debug.Stack())))
			}
			err = fmt.Errorf("wait panic: %v", r)
		}
	}()

	return sg.group.Wait()
}
