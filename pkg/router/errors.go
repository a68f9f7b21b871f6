package router

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyInput is returned when the input is empty after cleaning.
var ErrEmptyInput = errors.New("input is empty after cleaning")

// RateLimitError is returned when the sliding window is full. The request
// was rejected before any gateway call and consumed no limiter slot.
type RateLimitError struct {
	Limit  int
	Window time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d requests per %s", e.Limit, e.Window)
}

// ParseError is returned when classifier output yields no usable decision.
// Raw preserves the offending output, truncated, for logs.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable classifier output %q: %v", truncate(e.Raw, 200), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownCapabilityError is returned when the classifier names a
// capability that is not registered. The router never substitutes a
// default; callers decide whether to degrade.
type UnknownCapabilityError struct {
	Capability string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("classifier selected unknown capability %q", e.Capability)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
