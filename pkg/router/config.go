package router

import "time"

// Config holds the router tunables. The zero value is usable: every field
// falls back to its documented default.
type Config struct {
	// RequestLimit is the number of classifications admitted per window.
	RequestLimit int
	// RequestWindow is the trailing span the limit applies to.
	RequestWindow time.Duration
	// CacheCapacity bounds the decision cache entry count.
	CacheCapacity int
	// HistoryCapacity bounds the duplicate-detection ring.
	HistoryCapacity int
	// MaxInputLength truncates cleaned input, in runes.
	MaxInputLength int
	// ClassifyAttempts bounds classify+parse retries per route.
	ClassifyAttempts int
	// ClassifyRetryDelay is slept between attempts.
	ClassifyRetryDelay time.Duration
	// ClassifyTimeout caps each individual gateway call. Zero disables it.
	ClassifyTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.RequestLimit <= 0 {
		c.RequestLimit = 10
	}
	if c.RequestWindow <= 0 {
		c.RequestWindow = 60 * time.Second
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = 2000
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = 2000
	}
	if c.MaxInputLength <= 0 {
		c.MaxInputLength = 1500
	}
	if c.ClassifyAttempts <= 0 {
		c.ClassifyAttempts = 3
	}
	if c.ClassifyRetryDelay < 0 {
		c.ClassifyRetryDelay = 0
	} else if c.ClassifyRetryDelay == 0 {
		c.ClassifyRetryDelay = 300 * time.Millisecond
	}
}
