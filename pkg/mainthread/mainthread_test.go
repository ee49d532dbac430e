package mainthread_test

import (
	"errors"
	"testing"
	"time"

	"github.com/tickbridge/tickbridge/pkg/mainthread"
	"github.com/tickbridge/tickbridge/pkg/mocks"
)

func TestContext_IsCurrent(t *testing.T) {
	ctx := mainthread.NewContext(mocks.NewMockExecutor(), 0)

	if !ctx.IsCurrent() {
		t.Error("constructing goroutine should be designated")
	}

	result := make(chan bool, 1)
	go func() {
		result <- ctx.IsCurrent()
	}()
	if <-result {
		t.Error("other goroutines should not be designated")
	}
}

func TestContext_Post(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 0)

	ran := false
	if err := ctx.Post(func() { ran = true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatal("post must not run work synchronously")
	}

	exec.Drain()
	if !ran {
		t.Error("expected work to run on drain")
	}
}

func TestContext_PostNil(t *testing.T) {
	ctx := mainthread.NewContext(mocks.NewMockExecutor(), 0)
	if err := ctx.Post(nil); !errors.Is(err, mainthread.ErrNilWork) {
		t.Errorf("expected ErrNilWork, got %v", err)
	}
}

func TestContext_Send_ReturnsResult(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 0)

	type outcome struct {
		value interface{}
		err   error
	}
	got := make(chan outcome, 1)

	go func() {
		value, err := ctx.Send(func() (interface{}, error) { return 42, nil })
		got <- outcome{value, err}
	}()

	// Service the queue on the designated goroutine until the sender
	// observes completion.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case o := <-got:
			if o.err != nil {
				t.Fatalf("unexpected error: %v", o.err)
			}
			if o.value != 42 {
				t.Errorf("expected 42, got %v", o.value)
			}
			return
		case <-deadline:
			t.Fatal("send never completed")
		default:
			exec.Drain()
		}
	}
}

func TestContext_Send_PropagatesError(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 0)

	cause := errors.New("load failed")
	got := make(chan error, 1)

	go func() {
		_, err := ctx.Send(func() (interface{}, error) { return nil, cause })
		got <- err
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-got:
			if !errors.Is(err, cause) {
				t.Errorf("expected sent error, got %v", err)
			}
			return
		case <-deadline:
			t.Fatal("send never completed")
		default:
			exec.Drain()
		}
	}
}

func TestContext_Send_RecoversPanic(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 0)

	got := make(chan error, 1)
	go func() {
		_, err := ctx.Send(func() (interface{}, error) { panic("boom") })
		got <- err
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-got:
			if err == nil {
				t.Error("expected panic surfaced as error")
			}
			return
		case <-deadline:
			t.Fatal("send never completed")
		default:
			exec.Drain()
		}
	}
}

func TestContext_Send_InlineOnDesignated(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 0)

	// Nobody drains; inline execution is the only way this returns.
	value, err := ctx.Send(func() (interface{}, error) { return "inline", nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "inline" {
		t.Errorf("expected inline result, got %v", value)
	}
}

func TestContext_Send_Timeout(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 20*time.Millisecond)

	got := make(chan error, 1)
	go func() {
		_, err := ctx.Send(func() (interface{}, error) { return nil, nil })
		got <- err
	}()

	// The designated goroutine never drains: the spin must give up.
	select {
	case err := <-got:
		if !errors.Is(err, mainthread.ErrSendTimeout) {
			t.Errorf("expected ErrSendTimeout, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("send never timed out")
	}
}

func TestContext_SendNil(t *testing.T) {
	ctx := mainthread.NewContext(mocks.NewMockExecutor(), 0)
	if _, err := ctx.Send(nil); !errors.Is(err, mainthread.ErrNilWork) {
		t.Errorf("expected ErrNilWork, got %v", err)
	}
}

func TestContext_Send_PostFailure(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 0)

	cause := errors.New("queue closed")
	exec.FailWith(cause)

	got := make(chan error, 1)
	go func() {
		_, err := ctx.Send(func() (interface{}, error) { return nil, nil })
		got <- err
	}()

	select {
	case err := <-got:
		if !errors.Is(err, cause) {
			t.Errorf("expected post failure surfaced, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("send never returned")
	}
}

func TestCall_TypedResult(t *testing.T) {
	exec := mocks.NewMockExecutor()
	ctx := mainthread.NewContext(exec, 0)

	// Inline path keeps the test single-goroutine.
	value, err := mainthread.Call(ctx, func() (int, error) { return 7, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 7 {
		t.Errorf("expected 7, got %d", value)
	}
}
