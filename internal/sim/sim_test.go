package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tickbridge/tickbridge/pkg/dispatch"
	"github.com/tickbridge/tickbridge/pkg/types"
)

func TestSafeGroup_Normal(t *testing.T) {
	sg, _ := NewSafeGroup(context.Background(), nil)

	var ran atomic.Bool
	sg.Go(func() error {
		ran.Store(true)
		return nil
	})

	if err := sg.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran.Load() {
		t.Error("goroutine did not run")
	}
}

func TestSafeGroup_ErrorPropagation(t *testing.T) {
	sg, _ := NewSafeGroup(context.Background(), nil)

	wantErr := errors.New("producer failed")
	sg.Go(func() error {
		return wantErr
	})

	if err := sg.Wait(); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestSafeGroup_PanicRecovery(t *testing.T) {
	sg, _ := NewSafeGroup(context.Background(), nil)

	sg.Go(func() error {
		panic("boom")
	})

	err := sg.Wait()
	if err == nil {
		t.Fatal("expected an error from panicking goroutine")
	}
	if got := err.Error(); got != "producer panic: boom" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestSafeGroup_ContextCancellation(t *testing.T) {
	sg, ctx := NewSafeGroup(context.Background(), nil)

	wantErr := errors.New("first failure")
	sg.Go(func() error {
		return wantErr
	})
	sg.Go(func() error {
		<-ctx.Done()
		return nil
	})

	if err := sg.Wait(); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func newLoopDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()

	d, err := dispatch.New(types.DispatcherConfig{}, nil)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestLoop_BoundedDuration(t *testing.T) {
	d := newLoopDispatcher(t)

	loop := NewLoop(types.SimulationConfig{
		FrameRate:      200,
		DurationMillis: 100,
	}, d, nil)

	if err := loop.Run(); err != nil {
		t.Fatalf("loop failed: %v", err)
	}

	if d.CurrentTick() == 0 {
		t.Error("expected at least one tick")
	}
}

func TestLoop_Stop(t *testing.T) {
	d := newLoopDispatcher(t)

	loop := NewLoop(types.SimulationConfig{FrameRate: 100}, d, nil)

	go func() {
		time.Sleep(50 * time.Millisecond)
		loop.Stop()
	}()

	if err := loop.Run(); err != nil {
		t.Fatalf("loop failed: %v", err)
	}
}

func TestLoop_TimeScale(t *testing.T) {
	d := newLoopDispatcher(t)

	fired := make(chan struct{}, 1)

	// A scaled timer at half speed needs roughly twice the wall time.
	if _, err := d.After(40*time.Millisecond, types.ClockScaled, func() {
		fired <- struct{}{}
	}); err != nil {
		t.Fatalf("failed to register timer: %v", err)
	}

	loop := NewLoop(types.SimulationConfig{
		FrameRate:      200,
		TimeScale:      0.5,
		DurationMillis: 60,
	}, d, nil)

	if err := loop.Run(); err != nil {
		t.Fatalf("loop failed: %v", err)
	}

	select {
	case <-fired:
		t.Error("scaled timer fired too early at half speed")
	default:
	}
}
