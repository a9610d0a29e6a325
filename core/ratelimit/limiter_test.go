package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLimiter_ReserveSpacesCalls(t *testing.T) {
	limiter := New(2 * time.Second)
	now := time.Now()

	delays := []time.Duration{
		limiter.Reserve(now),
		limiter.Reserve(now),
		limiter.Reserve(now),
	}

	want := []time.Duration{0, 2 * time.Second, 4 * time.Second}
	for i := range want {
		if diff := delays[i] - want[i]; diff < -time.Millisecond || diff > time.Millisecond {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestLimiter_ReserveAfterIntervalIsImmediate(t *testing.T) {
	limiter := New(2 * time.Second)
	start := time.Now()

	limiter.Reserve(start)
	if delay := limiter.Reserve(start.Add(2 * time.Second)); delay != 0 {
		t.Errorf("delay after a full interval = %v, want 0", delay)
	}
}

func TestLimiter_AcquireFirstCallDoesNotBlock(t *testing.T) {
	limiter := New(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}
}

func TestLimiter_AcquireHonoursContext(t *testing.T) {
	limiter := New(time.Hour)
	_ = limiter.Acquire(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Acquire(ctx); err == nil {
		t.Error("Acquire should fail when the wait exceeds the deadline")
	}
}

func TestLimiter_AcquireConcurrentCallers(t *testing.T) {
	interval := 30 * time.Millisecond
	limiter := New(interval)

	var mu sync.Mutex
	var times []time.Time
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire returned error: %v", err)
				return
			}
			mu.Lock()
			times = append(times, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(times) != 3 {
		t.Fatalf("got %d acquisitions, want 3", len(times))
	}
	first, last := times[0], times[0]
	for _, ts := range times {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	if span := last.Sub(first); span < 2*interval-10*time.Millisecond {
		t.Errorf("three callers finished within %v, want at least ~%v", span, 2*interval)
	}
}

func TestLimiter_ZeroIntervalDisablesLimiting(t *testing.T) {
	limiter := New(0)
	now := time.Now()

	for i := 0; i < 5; i++ {
		if delay := limiter.Reserve(now); delay != 0 {
			t.Fatalf("Reserve #%d delay = %v, want 0", i, delay)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := limiter.Acquire(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire with unlimited rate returned %v", err)
	}
}
