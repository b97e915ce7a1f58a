package cache

import (
	"testing"

	"github.com/dapplion/gloas/testing/require"
)

func TestExecutionPayloadBidCache_Observe(t *testing.T) {
	c := NewExecutionPayloadBidCache()
	rootA := [32]byte{0xa}
	rootB := [32]byte{0xb}

	obs := c.Observe(1, 10, rootA)
	require.Equal(t, New, obs.Outcome)

	obs = c.Observe(1, 10, rootA)
	require.Equal(t, Duplicate, obs.Outcome)
	require.Equal(t, rootA, obs.Existing)

	obs = c.Observe(1, 10, rootB)
	require.Equal(t, Equivocation, obs.Outcome)
	require.Equal(t, rootA, obs.Existing)

	// The first-seen root stays the evidence even after an equivocation.
	obs = c.Observe(1, 10, rootB)
	require.Equal(t, Equivocation, obs.Outcome)
	require.Equal(t, rootA, obs.Existing)
}

func TestExecutionPayloadBidCache_KeysAreIndependent(t *testing.T) {
	c := NewExecutionPayloadBidCache()
	rootA := [32]byte{0xa}
	rootB := [32]byte{0xb}

	require.Equal(t, New, c.Observe(1, 10, rootA).Outcome)
	// Same builder, different slot.
	require.Equal(t, New, c.Observe(1, 11, rootB).Outcome)
	// Different builder, same slot.
	require.Equal(t, New, c.Observe(2, 10, rootB).Outcome)
}

func TestExecutionPayloadBidCache_Prune(t *testing.T) {
	c := NewExecutionPayloadBidCache()
	rootA := [32]byte{0xa}
	rootB := [32]byte{0xb}

	c.Observe(1, 10, rootA)
	c.Observe(1, 20, rootA)
	c.Prune(10)

	// The pruned slot admits a fresh root without an equivocation verdict.
	require.Equal(t, New, c.Observe(1, 10, rootB).Outcome)
	// The unpruned slot still remembers.
	require.Equal(t, Equivocation, c.Observe(1, 20, rootB).Outcome)
}

func TestPayloadAttestationCache_Observe(t *testing.T) {
	c := NewPayloadAttestationCache()
	rootA := [32]byte{0xa}
	rootB := [32]byte{0xb}

	require.Equal(t, New, c.Observe(7, 3, rootA).Outcome)
	require.Equal(t, Duplicate, c.Observe(7, 3, rootA).Outcome)

	obs := c.Observe(7, 3, rootB)
	require.Equal(t, Equivocation, obs.Outcome)
	require.Equal(t, rootA, obs.Existing)

	// Another validator is free to vote the conflicting judgment.
	require.Equal(t, New, c.Observe(8, 3, rootB).Outcome)
}

func TestPayloadAttestationCache_Prune(t *testing.T) {
	c := NewPayloadAttestationCache()
	rootA := [32]byte{0xa}

	c.Observe(7, 3, rootA)
	c.Observe(7, 9, rootA)
	c.Prune(5)

	require.Equal(t, New, c.Observe(7, 3, rootA).Outcome)
	require.Equal(t, Duplicate, c.Observe(7, 9, rootA).Outcome)
}
