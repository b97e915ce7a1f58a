package cache

import (
	"sync"

	"github.com/dapplion/gloas/consensus-types/primitives"
)

type attKey struct {
	validator primitives.ValidatorIndex
	slot      primitives.Slot
}

// PayloadAttestationCache tracks the first attestation data root seen per
// (validator, slot) to detect PTC member equivocation. A repeat of the same
// data root is expected, since independent aggregates can carry the same
// member's vote.
type PayloadAttestationCache struct {
	sync.Mutex
	roots map[attKey][32]byte
}

// NewPayloadAttestationCache initializes the attestation equivocation cache.
func NewPayloadAttestationCache() *PayloadAttestationCache {
	return &PayloadAttestationCache{roots: make(map[attKey][32]byte)}
}

// Observe records the attestation data root for the validator and slot and
// classifies it against any previously recorded root.
func (c *PayloadAttestationCache) Observe(validator primitives.ValidatorIndex, slot primitives.Slot, root [32]byte) Observation {
	c.Lock()
	defer c.Unlock()

	key := attKey{validator: validator, slot: slot}
	existing, ok := c.roots[key]
	if !ok {
		c.roots[key] = root
		return Observation{Outcome: New}
	}
	if existing == root {
		return Observation{Outcome: Duplicate, Existing: existing}
	}
	attestationEquivocationsTotal.Inc()
	return Observation{Outcome: Equivocation, Existing: existing}
}

// Peek classifies the root against the recorded first sighting without
// recording anything. Recording is reserved for Observe, which callers run
// only once the attestation is otherwise valid.
func (c *PayloadAttestationCache) Peek(validator primitives.ValidatorIndex, slot primitives.Slot, root [32]byte) Observation {
	c.Lock()
	defer c.Unlock()

	existing, ok := c.roots[attKey{validator: validator, slot: slot}]
	if !ok {
		return Observation{Outcome: New}
	}
	if existing == root {
		return Observation{Outcome: Duplicate, Existing: existing}
	}
	return Observation{Outcome: Equivocation, Existing: existing}
}

// Prune drops entries at or below the finalized slot.
func (c *PayloadAttestationCache) Prune(finalizedSlot primitives.Slot) {
	c.Lock()
	defer c.Unlock()

	for key := range c.roots {
		if key.slot <= finalizedSlot {
			delete(c.roots, key)
		}
	}
}
