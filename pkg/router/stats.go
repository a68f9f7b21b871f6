package router

import "sync"

// Metrics is a read-only snapshot of router counters. The
// RequestsPerMinute estimate is derived from the rate-limiter window and
// is advisory only; it is noisy when the window is sparse.
type Metrics struct {
	TotalRequests     uint64            `json:"total_requests"`
	Errors            uint64            `json:"errors"`
	CacheHits         uint64            `json:"cache_hits"`
	PerCapability     map[string]uint64 `json:"per_capability"`
	RequestsPerMinute float64           `json:"requests_per_minute"`
}

type routerStats struct {
	mu            sync.Mutex
	total         uint64
	errors        uint64
	cacheHits     uint64
	perCapability map[string]uint64
}

func newRouterStats() *routerStats {
	return &routerStats{perCapability: make(map[string]uint64)}
}

func (s *routerStats) recordRequest() {
	s.mu.Lock()
	s.total++
	s.mu.Unlock()
}

func (s *routerStats) recordError() {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
}

func (s *routerStats) recordCacheHit() {
	s.mu.Lock()
	s.cacheHits++
	s.mu.Unlock()
}

func (s *routerStats) recordCapability(name string) {
	s.mu.Lock()
	s.perCapability[name]++
	s.mu.Unlock()
}

func (s *routerStats) snapshot() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	perCapability := make(map[string]uint64, len(s.perCapability))
	for name, count := range s.perCapability {
		perCapability[name] = count
	}
	return Metrics{
		TotalRequests: s.total,
		Errors:        s.errors,
		CacheHits:     s.cacheHits,
		PerCapability: perCapability,
	}
}
