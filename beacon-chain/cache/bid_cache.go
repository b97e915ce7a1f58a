// Package cache holds the gossip-layer bookkeeping for the payload market:
// equivocation caches for bids and payload attestations, a replay cache for
// envelopes, and the bid pool consulted at block production.
package cache

import (
	"sync"

	"github.com/dapplion/gloas/consensus-types/primitives"
)

// Outcome classifies an observation against an equivocation cache.
type Outcome int

const (
	// New marks the first observation for the key.
	New Outcome = iota
	// Duplicate marks a repeat observation of the same root.
	Duplicate
	// Equivocation marks a conflicting root for an already-seen key.
	Equivocation
)

// Observation is the result of recording a message root against a key. For
// equivocations, Existing carries the first-seen root as evidence.
type Observation struct {
	Outcome  Outcome
	Existing [32]byte
}

type bidKey struct {
	builder primitives.BuilderIndex
	slot    primitives.Slot
}

// ExecutionPayloadBidCache tracks the first bid root seen per
// (builder, slot) to detect builder equivocation on the gossip layer.
type ExecutionPayloadBidCache struct {
	sync.Mutex
	roots map[bidKey][32]byte
}

// NewExecutionPayloadBidCache initializes the bid equivocation cache.
func NewExecutionPayloadBidCache() *ExecutionPayloadBidCache {
	return &ExecutionPayloadBidCache{roots: make(map[bidKey][32]byte)}
}

// Observe records the bid root for the builder and slot and classifies it
// against any previously recorded root. The lock spans only the
// observe-and-compare step.
func (c *ExecutionPayloadBidCache) Observe(builder primitives.BuilderIndex, slot primitives.Slot, root [32]byte) Observation {
	c.Lock()
	defer c.Unlock()

	key := bidKey{builder: builder, slot: slot}
	existing, ok := c.roots[key]
	if !ok {
		c.roots[key] = root
		return Observation{Outcome: New}
	}
	if existing == root {
		return Observation{Outcome: Duplicate, Existing: existing}
	}
	bidEquivocationsTotal.Inc()
	return Observation{Outcome: Equivocation, Existing: existing}
}

// Peek classifies the root against the recorded first sighting without
// recording anything. Recording is reserved for Observe, which callers run
// only once the bid is otherwise valid.
func (c *ExecutionPayloadBidCache) Peek(builder primitives.BuilderIndex, slot primitives.Slot, root [32]byte) Observation {
	c.Lock()
	defer c.Unlock()

	existing, ok := c.roots[bidKey{builder: builder, slot: slot}]
	if !ok {
		return Observation{Outcome: New}
	}
	if existing == root {
		return Observation{Outcome: Duplicate, Existing: existing}
	}
	return Observation{Outcome: Equivocation, Existing: existing}
}

// Prune drops entries at or below the finalized slot. No new equivocation
// evidence is admissible for finalized history.
func (c *ExecutionPayloadBidCache) Prune(finalizedSlot primitives.Slot) {
	c.Lock()
	defer c.Unlock()

	for key := range c.roots {
		if key.slot <= finalizedSlot {
			delete(c.roots, key)
		}
	}
}
