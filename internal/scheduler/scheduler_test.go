package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSchedulerRunsJobsUntilCancelled(t *testing.T) {
	var ticks atomic.Int64

	s := New(zerolog.Nop(), Job{
		Name:     "counter",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			ticks.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	s.Wait()

	if ticks.Load() == 0 {
		t.Fatal("expected job to tick at least once")
	}

	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if ticks.Load() != settled {
		t.Fatal("job kept ticking after cancel")
	}
}

func TestSchedulerKeepsRunningAfterJobError(t *testing.T) {
	var ticks atomic.Int64

	s := New(zerolog.Nop(), Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			ticks.Add(1)
			return errors.New("tick failed")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	s.Wait()

	if ticks.Load() < 2 {
		t.Fatalf("expected job to keep running after errors, got %d ticks", ticks.Load())
	}
}

func TestSchedulerRunsMultipleJobs(t *testing.T) {
	var a, b atomic.Int64

	s := New(zerolog.Nop(),
		Job{Name: "a", Interval: 5 * time.Millisecond, Run: func(ctx context.Context) error { a.Add(1); return nil }},
		Job{Name: "b", Interval: 5 * time.Millisecond, Run: func(ctx context.Context) error { b.Add(1); return nil }},
	)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	s.Wait()

	if a.Load() == 0 || b.Load() == 0 {
		t.Fatalf("expected both jobs to tick, got a=%d b=%d", a.Load(), b.Load())
	}
}
