package router

import (
	"sync"
	"time"
)

// slidingWindow is a sliding-window request counter. It admits bursts up
// to limit within any trailing window span; entries older than the window
// are purged lazily on each check. This is not a token bucket.
type slidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		limit:  limit,
		window: window,
		stamps: make([]time.Time, 0, limit),
	}
}

// allow purges expired timestamps, then records now and admits the request
// unless the trailing window is already at the limit.
func (w *slidingWindow) allow(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.purge(now)
	if len(w.stamps) >= w.limit {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}

// oldest returns the oldest timestamp still inside the window, used for the
// advisory throughput estimate in metrics.
func (w *slidingWindow) oldest(now time.Time) (time.Time, int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.purge(now)
	if len(w.stamps) == 0 {
		return time.Time{}, 0, false
	}
	return w.stamps[0], len(w.stamps), true
}

func (w *slidingWindow) purge(now time.Time) {
	cutoff := now.Add(-w.window)
	idx := 0
	for idx < len(w.stamps) && !w.stamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[idx:]...)
	}
}
