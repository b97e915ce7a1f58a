package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// seenEnvelopeCacheSize bounds the replay cache. Envelopes are keyed by
// beacon block root alone; a root admits exactly one valid envelope, so
// there is no equivocation concept here, only replay prevention.
const seenEnvelopeCacheSize = 1024

// SeenEnvelopeCache remembers which beacon block roots already had their
// envelope processed. Entries are only ever added, so eviction follows
// insertion order at the bounded capacity.
type SeenEnvelopeCache struct {
	cache *lru.Cache[[32]byte, struct{}]
}

// NewSeenEnvelopeCache initializes the envelope replay cache.
func NewSeenEnvelopeCache() *SeenEnvelopeCache {
	// Size is fixed and positive, lru.New cannot fail.
	c, err := lru.New[[32]byte, struct{}](seenEnvelopeCacheSize)
	if err != nil {
		panic(err)
	}
	return &SeenEnvelopeCache{cache: c}
}

// Add marks the root's envelope as seen. It reports false if the root was
// already present. The check and the insert are a single operation so
// concurrent callers cannot both claim the first sighting.
func (c *SeenEnvelopeCache) Add(root [32]byte) bool {
	present, _ := c.cache.ContainsOrAdd(root, struct{}{})
	return !present
}

// Contains reports whether an envelope for the root was already seen.
// Lookups do not refresh recency, so eviction stays in insertion order.
func (c *SeenEnvelopeCache) Contains(root [32]byte) bool {
	return c.cache.Contains(root)
}
