package router

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/astralwake/jarviq/pkg/capability"
	"github.com/astralwake/jarviq/pkg/gateway"
)

// Router turns a raw utterance into a routing decision. It owns the rate
// limiter, decision cache, history ring, and stats; none of that state is
// shared outside its public operations, so Route is safe to call from
// multiple goroutines.
type Router struct {
	gateway      gateway.Gateway
	cfg          Config
	descriptors  map[string]capability.Descriptor
	systemPrompt string

	limiter *slidingWindow
	cache   *decisionCache
	history *historyRing
	stats   *routerStats

	log zerolog.Logger
	now func() time.Time
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// WithClock overrides the router's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// New creates a router over the given gateway and capability set.
func New(gw gateway.Gateway, descriptors []capability.Descriptor, cfg Config, opts ...Option) (*Router, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("at least one capability descriptor is required")
	}
	cfg.applyDefaults()

	byName := make(map[string]capability.Descriptor, len(descriptors))
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("capability descriptor with empty name")
		}
		if _, dup := byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate capability %s", d.Name)
		}
		byName[d.Name] = d
	}

	cache, err := newDecisionCache(cfg.CacheCapacity)
	if err != nil {
		return nil, err
	}

	r := &Router{
		gateway:      gw,
		cfg:          cfg,
		descriptors:  byName,
		systemPrompt: buildSystemPrompt(descriptors),
		limiter:      newSlidingWindow(cfg.RequestLimit, cfg.RequestWindow),
		cache:        cache,
		history:      newHistoryRing(cfg.HistoryCapacity),
		stats:        newRouterStats(),
		log:          zerolog.Nop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Route cleans the input, short-circuits on recent duplicates, enforces
// the rate limit, then classifies with caching and bounded retry. It
// returns ErrEmptyInput, *RateLimitError, *ParseError, or
// *UnknownCapabilityError on failure; it never silently defaults to a
// capability.
func (r *Router) Route(ctx context.Context, rawInput string) (Decision, error) {
	start := r.now()
	r.stats.recordRequest()

	cleaned := Clean(rawInput, r.cfg.MaxInputLength)
	if cleaned == "" {
		r.stats.recordError()
		return Decision{}, ErrEmptyInput
	}

	// Stronger shortcut than the decision cache: identical recent turns
	// skip the rate limiter and the gateway entirely.
	if entry, ok := r.history.findExact(cleaned); ok {
		r.stats.recordCacheHit()
		r.log.Debug().Str("capability", entry.Decision.Capability).Msg("duplicate turn, reusing decision")
		return entry.Decision, nil
	}

	// Cache hits are free: only requests that may actually reach the
	// gateway count against the sliding window.
	key := hashText(cleaned)
	if decision, ok := r.cache.peek(key); ok {
		r.stats.recordCacheHit()
		return r.finish(decision, cleaned, start, true), nil
	}

	if !r.limiter.allow(r.now()) {
		r.stats.recordError()
		return Decision{}, &RateLimitError{Limit: r.cfg.RequestLimit, Window: r.cfg.RequestWindow}
	}

	decision, hit, err := r.cache.getOrCompute(key, func() (Decision, error) {
		return r.classify(ctx, cleaned)
	})
	if err != nil {
		r.stats.recordError()
		return Decision{}, err
	}
	if hit {
		r.stats.recordCacheHit()
	}
	return r.finish(decision, cleaned, start, hit), nil
}

// finish applies input defaulting, records the history entry and stats,
// and logs the outcome of a successful route.
func (r *Router) finish(decision Decision, cleaned string, start time.Time, hit bool) Decision {
	if decision.Input == "" {
		decision.Input = cleaned
	}

	r.history.append(HistoryEntry{
		Timestamp:   r.now(),
		CleanedText: cleaned,
		Decision:    decision,
		Latency:     r.now().Sub(start),
	})
	r.stats.recordCapability(decision.Capability)

	r.log.Debug().
		Str("capability", decision.Capability).
		Bool("cache_hit", hit).
		Dur("latency", r.now().Sub(start)).
		Msg("routed")

	return decision
}

// classify runs the gateway call and parse up to ClassifyAttempts times.
// Parse failures, unknown capability names, and transient gateway errors
// are retried after ClassifyRetryDelay; anything else fails immediately.
// Called outside every router lock so the gateway may block freely.
func (r *Router) classify(ctx context.Context, cleaned string) (Decision, error) {
	prompt := r.systemPrompt + cleaned
	var lastErr error

	for attempt := 1; attempt <= r.cfg.ClassifyAttempts; attempt++ {
		if attempt > 1 && r.cfg.ClassifyRetryDelay > 0 {
			time.Sleep(r.cfg.ClassifyRetryDelay)
		}

		raw, err := r.callGateway(ctx, prompt)
		if err != nil {
			lastErr = fmt.Errorf("classifier gateway: %w", err)
			if gateway.IsTransient(err) {
				r.log.Debug().Err(err).Int("attempt", attempt).Msg("transient gateway error")
				continue
			}
			return Decision{}, lastErr
		}

		decision, err := ExtractDecision(raw)
		if err != nil {
			lastErr = err
			r.log.Debug().Err(err).Int("attempt", attempt).Msg("classifier output unparsable")
			continue
		}

		if _, known := r.descriptors[decision.Capability]; !known {
			lastErr = &UnknownCapabilityError{Capability: decision.Capability}
			r.log.Debug().Str("capability", decision.Capability).Int("attempt", attempt).Msg("unknown capability from classifier")
			continue
		}

		return decision, nil
	}

	return Decision{}, lastErr
}

func (r *Router) callGateway(ctx context.Context, prompt string) (string, error) {
	if r.cfg.ClassifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ClassifyTimeout)
		defer cancel()
	}
	return r.gateway.Classify(ctx, prompt)
}

// Metrics returns a snapshot of the router's counters plus an advisory
// requests-per-minute estimate derived from the rate-limiter window.
func (r *Router) Metrics() Metrics {
	m := r.stats.snapshot()
	now := r.now()
	if oldest, count, ok := r.limiter.oldest(now); ok {
		if elapsed := now.Sub(oldest); elapsed > 0 {
			m.RequestsPerMinute = float64(count) / elapsed.Minutes()
		}
	}
	return m
}

// Descriptors returns the configured capability descriptors.
func (r *Router) Descriptors() []capability.Descriptor {
	out := make([]capability.Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	return out
}

// Knows reports whether name is a configured capability.
func (r *Router) Knows(name string) bool {
	_, ok := r.descriptors[name]
	return ok
}

// Clean normalizes raw input: NUL bytes are dropped, surrounding
// whitespace and control characters are trimmed, and the result is
// truncated to maxLength runes before a final trim.
func Clean(input string, maxLength int) string {
	cleaned := strings.ReplaceAll(input, "\x00", "")
	cleaned = strings.TrimFunc(cleaned, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	if maxLength > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLength {
			cleaned = strings.TrimFunc(string(runes[:maxLength]), unicode.IsSpace)
		}
	}
	return cleaned
}
