package github

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/docdex/docdex"
)

// lowQuotaThreshold is the remaining-call count under which tree fetches
// proceed with a warning instead of failing.
const lowQuotaThreshold = 5

// RateTracker tracks the GitHub API quota from response headers. It is an
// explicit dependency injected into the Client rather than process-global
// state, so separate credentials and test doubles never cross-talk.
//
// Updates are last-writer-wins; the tracker mirrors a single remote
// account's quota regardless of caller concurrency.
type RateTracker struct {
	mu        sync.Mutex
	limit     int
	remaining int
	reset     time.Time
	known     bool
}

// NewRateTracker returns a tracker with no observations yet.
func NewRateTracker() *RateTracker {
	return &RateTracker{}
}

// Update records quota state from API response headers. Responses without
// rate headers (e.g., the raw content channel) leave the tracker untouched.
func (t *RateTracker) Update(h http.Header) {
	remaining, err := strconv.Atoi(h.Get("X-Ratelimit-Remaining"))
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.known = true
	t.remaining = remaining
	if limit, err := strconv.Atoi(h.Get("X-Ratelimit-Limit")); err == nil {
		t.limit = limit
	}
	if reset, err := strconv.ParseInt(h.Get("X-Ratelimit-Reset"), 10, 64); err == nil {
		t.reset = time.Unix(reset, 0).UTC()
	}
}

// Snapshot returns the current quota view.
func (t *RateTracker) Snapshot() docdex.RateSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return docdex.RateSnapshot{
		Limit:     t.limit,
		Remaining: t.remaining,
		Reset:     t.reset,
		Known:     t.known,
	}
}

// Exhausted reports whether the quota is known to be used up.
func (t *RateTracker) Exhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.known && t.remaining <= 0
}

// Low reports whether the quota is known to be nearly used up.
func (t *RateTracker) Low() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.known && t.remaining > 0 && t.remaining < lowQuotaThreshold
}
