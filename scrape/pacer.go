package scrape

import (
	"context"
	"time"
)

// pacer is the explicit wait step between frontier dequeues. Only a
// successful fetch arms the next delay: skipped and failed URLs never make
// the crawl slower, and the very first fetch goes out immediately.
type pacer struct {
	delay time.Duration
	next  time.Time
	armed bool
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay}
}

// Wait blocks until the politeness window has passed, or returns the
// context error on cancellation.
func (p *pacer) Wait(ctx context.Context) error {
	if !p.armed {
		return ctx.Err()
	}
	wait := time.Until(p.next)
	if wait <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Mark records a successful fetch, arming the delay before the next one.
func (p *pacer) Mark() {
	p.armed = true
	p.next = time.Now().Add(p.delay)
}
