package router

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// decisionCache memoizes routing decisions keyed by a hash of the cleaned
// input text. Capacity is bounded with LRU eviction, and singleflight
// guarantees at most one concurrent computation per key so concurrent
// routes for the same text share a single gateway call.
type decisionCache struct {
	entries *lru.Cache[string, Decision]
	group   singleflight.Group
}

func newDecisionCache(capacity int) (*decisionCache, error) {
	entries, err := lru.New[string, Decision](capacity)
	if err != nil {
		return nil, err
	}
	return &decisionCache{entries: entries}, nil
}

// peek returns the cached decision for key without computing anything.
func (c *decisionCache) peek(key string) (Decision, bool) {
	return c.entries.Get(key)
}

// getOrCompute returns the cached decision for key, computing and storing
// it on a miss. The hit flag reports whether compute was skipped.
func (c *decisionCache) getOrCompute(key string, compute func() (Decision, error)) (Decision, bool, error) {
	if decision, ok := c.entries.Get(key); ok {
		return decision, true, nil
	}

	recheckHit := false
	value, err, sharedFlight := c.group.Do(key, func() (any, error) {
		if decision, ok := c.entries.Get(key); ok {
			recheckHit = true
			return decision, nil
		}
		decision, err := compute()
		if err != nil {
			return Decision{}, err
		}
		c.entries.Add(key, decision)
		return decision, nil
	})
	if err != nil {
		return Decision{}, false, err
	}
	return value.(Decision), recheckHit || sharedFlight, nil
}

// hashText derives the cache key from cleaned input text. Hashing the
// cleaned text rather than the raw input keeps whitespace variants from
// fragmenting the cache.
func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
