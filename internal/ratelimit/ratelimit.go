package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/amishk599/jobalert/internal/model"
)

// Pacer enforces a minimum gap between consecutive calls sharing a key
// (a source family, or a single paginated endpoint). It is meant for the
// sequential run loop and is not safe for concurrent use.
type Pacer struct {
	lastCall map[string]time.Time
	minDelay time.Duration
}

// NewPacer creates a pacer with the given minimum gap. A zero delay never waits.
func NewPacer(minDelay time.Duration) *Pacer {
	return &Pacer{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until minDelay has passed since the previous call for key.
// The first call for a key returns immediately.
func (p *Pacer) Wait(ctx context.Context, key string) error {
	last, ok := p.lastCall[key]
	if ok && p.minDelay > 0 {
		if remaining := p.minDelay - time.Since(last); remaining > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("pacer wait for %s: %w", key, ctx.Err())
			case <-time.After(remaining):
			}
		}
	}
	p.lastCall[key] = time.Now()
	return nil
}

// RateLimitedFetcher waits on a shared pacer before delegating to the
// wrapped fetcher. All companies of one source family share a key.
type RateLimitedFetcher struct {
	inner model.PostingFetcher
	pacer *Pacer
	key   string
}

// NewRateLimitedFetcher wraps a fetcher with pacing under key.
func NewRateLimitedFetcher(inner model.PostingFetcher, pacer *Pacer, key string) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner: inner,
		pacer: pacer,
		key:   key,
	}
}

// FetchPostings waits for the pacer, then delegates.
func (f *RateLimitedFetcher) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	if err := f.pacer.Wait(ctx, f.key); err != nil {
		return nil, err
	}
	return f.inner.FetchPostings(ctx)
}

// Probe delegates to the wrapped fetcher when it supports probing.
func (f *RateLimitedFetcher) Probe(ctx context.Context) error {
	p, ok := f.inner.(model.Prober)
	if !ok {
		return fmt.Errorf("%s: probing not supported", f.key)
	}
	if err := f.pacer.Wait(ctx, f.key); err != nil {
		return err
	}
	return p.Probe(ctx)
}
