package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/jobalert/internal/model"
)

func TestWait_SameKey_EnforcesMinDelay(t *testing.T) {
	pacer := NewPacer(100 * time.Millisecond)
	ctx := context.Background()

	if err := pacer.Wait(ctx, "amazon"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := pacer.Wait(ctx, "amazon"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Allow 80ms for timer jitter.
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentKeys_NoCrossBlocking(t *testing.T) {
	pacer := NewPacer(200 * time.Millisecond)
	ctx := context.Background()

	if err := pacer.Wait(ctx, "greenhouse"); err != nil {
		t.Fatalf("greenhouse wait: %v", err)
	}

	start := time.Now()
	if err := pacer.Wait(ctx, "lever"); err != nil {
		t.Fatalf("lever wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected lever wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_ZeroDelayNeverBlocks(t *testing.T) {
	pacer := NewPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := pacer.Wait(ctx, "greenhouse"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected no waiting with zero delay, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	pacer := NewPacer(5 * time.Second)

	if err := pacer.Wait(context.Background(), "greenhouse"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pacer.Wait(ctx, "greenhouse"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

type recordingFetcher struct {
	called bool
	probed bool
}

func (f *recordingFetcher) FetchPostings(_ context.Context) ([]model.Posting, error) {
	f.called = true
	return nil, nil
}

func (f *recordingFetcher) Probe(_ context.Context) error {
	f.probed = true
	return nil
}

func TestRateLimitedFetcher_WaitsBeforeDelegating(t *testing.T) {
	pacer := NewPacer(100 * time.Millisecond)
	inner := &recordingFetcher{}
	fetcher := NewRateLimitedFetcher(inner, pacer, "greenhouse")
	ctx := context.Background()

	if _, err := fetcher.FetchPostings(ctx); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !inner.called {
		t.Fatal("inner fetcher was not called on first fetch")
	}

	inner.called = false

	start := time.Now()
	if _, err := fetcher.FetchPostings(ctx); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner fetcher was not called on second fetch")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second fetch, got %v", elapsed)
	}
}

func TestRateLimitedFetcher_ProbeDelegates(t *testing.T) {
	inner := &recordingFetcher{}
	fetcher := NewRateLimitedFetcher(inner, NewPacer(0), "lever")

	if err := fetcher.Probe(context.Background()); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !inner.probed {
		t.Error("inner Probe was not called")
	}
}
