// Package sim provides a simulated engine loop for driving the dispatcher
// outside a real game engine. The CLI demo and integration tests use it as
// their tick source.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/tickbridge/tickbridge/pkg/dispatch"
	"github.com/tickbridge/tickbridge/pkg/interfaces"
	"github.com/tickbridge/tickbridge/pkg/logger"
	"github.com/tickbridge/tickbridge/pkg/types"
)

var _ interfaces.TickDriver = (*Loop)(nil)

// Loop drives a dispatcher at a fixed frame rate, applying the configured
// time scale to produce scaled simulation deltas. Run must be called on
// the goroutine that created the dispatcher.
type Loop struct {
	cfg    types.SimulationConfig
	d      *dispatch.Dispatcher
	logger logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewLoop creates a loop for the given dispatcher
func NewLoop(cfg types.SimulationConfig, d *dispatch.Dispatcher, log logger.Logger) *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		cfg:    cfg.WithDefaults(),
		d:      d,
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run ticks the dispatcher until Stop is called or the configured
// duration elapses. It blocks the calling goroutine for the whole run.
func (l *Loop) Run() error {
	interval := time.Second / time.Duration(l.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if l.logger != nil {
		l.logger.Debug("simulation loop starting",
			logger.WithField("frame_rate", l.cfg.FrameRate),
			logger.WithField("time_scale", l.cfg.TimeScale))
	}

	start := time.Now()
	last := start

	for {
		select {
		case <-l.ctx.Done():
			if l.logger != nil {
				l.logger.Debug("simulation loop stopping")
			}
			return nil
		case now := <-ticker.C:
			unscaled := now.Sub(last)
			last = now

			frame := types.Frame{
				Delta:         time.Duration(float64(unscaled) * l.cfg.TimeScale),
				UnscaledDelta: unscaled,
				Now:           now,
			}

			if err := l.d.Tick(frame); err != nil {
				return fmt.Errorf("tick failed: %w", err)
			}

			if bound := l.cfg.Duration(); bound > 0 && now.Sub(start) >= bound {
				return nil
			}
		}
	}
}

// Stop requests the loop to exit after the current tick
func (l *Loop) Stop() {
	l.cancel()
}
