package ripple

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestImmediate_RunsInline(t *testing.T) {
	s := NewImmediate(nil)
	if s.Clock() != clockz.RealClock {
		t.Error("expected nil clock to default to the real clock")
	}

	ran := false
	s.Dispatch(func() { ran = true })
	if !ran {
		t.Error("expected work to run before Dispatch returns")
	}
}

func TestLoop_RunsInOrder(t *testing.T) {
	clock := clockz.NewFakeClock()
	loop := NewLoop(clock)
	if loop.Clock() != clock {
		t.Error("expected loop to use the given clock")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	results := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		loop.Dispatch(func() { results <- i })
	}

	for want := 1; want <= 3; want++ {
		select {
		case got := <-results:
			if got != want {
				t.Errorf("expected %d, got %d", want, got)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for dispatched work")
		}
	}

	cancel()
	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for loop to stop")
	}
}

func TestLoop_DispatchAfterStopIsDropped(t *testing.T) {
	loop := NewLoop(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Run(ctx)

	for range DefaultLoopBuffer + 1 {
		loop.Dispatch(func() {
			t.Error("work dispatched after stop must not run")
		})
	}
}

func TestImmediate_QueuesWorkWhileBusy(t *testing.T) {
	s := NewImmediate(nil)
	running := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})

	var order []int
	go func() {
		s.Dispatch(func() {
			close(running)
			<-release
			order = append(order, 1)
		})
		close(finished)
	}()
	<-running

	// Returns without waiting; the busy goroutine runs it next.
	s.Dispatch(func() { order = append(order, 2) })
	close(release)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for the busy goroutine")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected [1 2], got %v", order)
	}
}

func TestImmediate_NestedDispatchRunsAfter(t *testing.T) {
	s := NewImmediate(nil)

	var order []string
	s.Dispatch(func() {
		s.Dispatch(func() { order = append(order, "inner") })
		order = append(order, "outer")
	})

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("expected [outer inner], got %v", order)
	}
}
