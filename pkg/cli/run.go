package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickbridge/tickbridge/internal/sim"
	"github.com/tickbridge/tickbridge/pkg/await"
	"github.com/tickbridge/tickbridge/pkg/config"
	"github.com/tickbridge/tickbridge/pkg/dispatch"
	"github.com/tickbridge/tickbridge/pkg/logger"
	"github.com/tickbridge/tickbridge/pkg/mainthread"
	"github.com/tickbridge/tickbridge/pkg/notifier"
	"github.com/tickbridge/tickbridge/pkg/types"
)

type runOptions struct {
	frameRate   int
	timeScale   float64
	durationMs  int
	producers   int
	drainBudget int
	notify      bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the dispatcher under a simulated engine loop",
		Long: `Run a demo workload: a fixed-rate tick loop drives the dispatcher while
producer goroutines register delays, frame targets, and cross-goroutine
calls against it. Useful for profiling and for verifying a configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts)
		},
	}

	cmd.Flags().IntVar(&opts.frameRate, "frame-rate", 0, "tick frequency in frames per second")
	cmd.Flags().Float64Var(&opts.timeScale, "time-scale", 0, "simulation time scale (0.5 = half speed)")
	cmd.Flags().IntVar(&opts.durationMs, "duration", 0, "run duration in milliseconds (0 = until interrupted)")
	cmd.Flags().IntVar(&opts.producers, "producers", 4, "number of concurrent producer goroutines")
	cmd.Flags().IntVar(&opts.drainBudget, "drain-budget", 0, "max posted items drained per tick (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.notify, "notify", false, "send a desktop notification when the run finishes")

	return cmd
}

// resolveConfig loads the config file if one was given and applies
// flag overrides on top
func resolveConfig(opts runOptions) (*types.Config, error) {
	cfg := config.Default()

	if cfgFile != "" {
		loaded, err := config.NewManager().LoadConfig(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if opts.frameRate > 0 {
		cfg.Simulation.FrameRate = opts.frameRate
	}
	if opts.timeScale > 0 {
		cfg.Simulation.TimeScale = opts.timeScale
	}
	if opts.durationMs > 0 {
		cfg.Simulation.DurationMillis = opts.durationMs
	}
	if opts.drainBudget > 0 {
		cfg.Dispatcher.DrainBudget = opts.drainBudget
	}

	return cfg, nil
}

func runDemo(opts runOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		printError(err.Error())
		return err
	}

	log := logger.CreateLogger(cfg.Dispatcher.LogFile, verbosity)

	d, err := dispatch.New(cfg.Dispatcher, log)
	if err != nil {
		printError(fmt.Sprintf("Failed to create dispatcher: %v", err))
		return err
	}
	defer d.Close()

	loop := sim.NewLoop(cfg.Simulation, d, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pctx, cancelProducers := context.WithCancel(ctx)
	defer cancelProducers()

	sg, gctx := sim.NewSafeGroup(pctx, log)
	for i := 0; i < opts.producers; i++ {
		id := i
		sg.Go(func() error {
			return runProducer(gctx, id, d, log)
		})
	}

	producersDone := make(chan error, 1)
	go func() {
		producersDone <- sg.Wait()
	}()

	go func() {
		select {
		case <-ctx.Done():
		case err := <-producersDone:
			producersDone <- err
		}
		loop.Stop()
	}()

	printInfo(fmt.Sprintf("Running %d producers at %d fps (time scale %.2f)",
		opts.producers, cfg.Simulation.FrameRate, cfg.Simulation.TimeScale))

	start := time.Now()
	runErr := loop.Run()
	elapsed := time.Since(start)

	// Unblock producers still waiting on futures that will never tick
	cancelProducers()
	prodErr := <-producersDone

	printStats(d.Stats(), elapsed)

	notify := notifier.New(notifier.Config{Enabled: opts.notify}, log)
	switch {
	case runErr != nil:
		notify.NotifyFailed("demo run", runErr)
		printError(fmt.Sprintf("Loop failed: %v", runErr))
		return runErr
	case prodErr != nil && !errors.Is(prodErr, context.Canceled):
		notify.NotifyFailed("demo run", prodErr)
		printError(fmt.Sprintf("Producer failed: %v", prodErr))
		return prodErr
	default:
		notify.NotifyCompleted("demo run", elapsed)
		printSuccess(fmt.Sprintf("Completed in %s", elapsed.Round(time.Millisecond)))
		return nil
	}
}

// runProducer exercises the dispatcher the way engine-hosted async code
// would: scaled delays, frame targets, and synchronous calls onto the
// designated goroutine.
func runProducer(ctx context.Context, id int, d *dispatch.Dispatcher, log logger.Logger) error {
	delay, err := await.Delay(d, time.Duration(10+id*5)*time.Millisecond, types.ClockScaled)
	if err != nil {
		return fmt.Errorf("producer %d: %w", id, err)
	}
	if _, err := delay.Wait(ctx); err != nil {
		return fmt.Errorf("producer %d delay: %w", id, err)
	}

	frames, err := await.Frames(d, id+1)
	if err != nil {
		return fmt.Errorf("producer %d: %w", id, err)
	}
	if _, err := frames.Wait(ctx); err != nil {
		return fmt.Errorf("producer %d frames: %w", id, err)
	}

	tick, err := mainthread.Call(d.Context(), func() (uint64, error) {
		return d.CurrentTick(), nil
	})
	if err != nil {
		return fmt.Errorf("producer %d call: %w", id, err)
	}

	log.Debug("producer finished",
		logger.WithField("producer", id),
		logger.WithField("tick", tick))
	return nil
}

func printStats(stats dispatch.Stats, elapsed time.Duration) {
	printInfo(fmt.Sprintf("Ticks: %d (%.0f/s)", stats.Tick, float64(stats.Tick)/elapsed.Seconds()))
	if stats.PendingWork+stats.PendingWatches+stats.PendingTimers+stats.PendingFrames > 0 {
		printInfo(fmt.Sprintf("Still pending: %d work, %d watches, %d timers, %d frame targets",
			stats.PendingWork, stats.PendingWatches, stats.PendingTimers, stats.PendingFrames))
	}
}
