package cache

import (
	"testing"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/testing/require"
)

func roBid(t *testing.T, slot primitives.Slot, builder primitives.BuilderIndex, value primitives.Gwei) gloas.ROBid {
	signed := &gloas.SignedExecutionPayloadBid{
		Message: &gloas.ExecutionPayloadBid{
			ParentBlockHash: make([]byte, fieldparams.RootLength),
			ParentBlockRoot: make([]byte, fieldparams.RootLength),
			BlockHash:       make([]byte, fieldparams.RootLength),
			PrevRandao:      make([]byte, fieldparams.RootLength),
			FeeRecipient:    make([]byte, fieldparams.FeeRecipientLength),
			BuilderIndex:    builder,
			Slot:            slot,
			Value:           value,
		},
		Signature: make([]byte, fieldparams.BLSSignatureLength),
	}
	bid, err := gloas.NewROBid(signed)
	require.NoError(t, err)
	return bid
}

func TestExecutionPayloadBidPool_BestBid(t *testing.T) {
	p := NewExecutionPayloadBidPool()
	p.Insert(roBid(t, 4, 1, 100))
	p.Insert(roBid(t, 4, 2, 300))
	p.Insert(roBid(t, 4, 3, 200))

	best, ok := p.BestBid(4)
	require.Equal(t, true, ok)
	require.Equal(t, primitives.BuilderIndex(2), best.BuilderIndex())
	require.Equal(t, primitives.Gwei(300), best.Value())
}

func TestExecutionPayloadBidPool_TieBreaksToLowestBuilder(t *testing.T) {
	p := NewExecutionPayloadBidPool()
	p.Insert(roBid(t, 4, 7, 300))
	p.Insert(roBid(t, 4, 2, 300))
	p.Insert(roBid(t, 4, 5, 300))

	best, ok := p.BestBid(4)
	require.Equal(t, true, ok)
	require.Equal(t, primitives.BuilderIndex(2), best.BuilderIndex())
}

func TestExecutionPayloadBidPool_FirstWriteWins(t *testing.T) {
	p := NewExecutionPayloadBidPool()
	p.Insert(roBid(t, 4, 1, 100))
	p.Insert(roBid(t, 4, 1, 900)) // conflicting bid, rejected upstream; keep the first

	best, ok := p.BestBid(4)
	require.Equal(t, true, ok)
	require.Equal(t, primitives.Gwei(100), best.Value())
}

func TestExecutionPayloadBidPool_EmptySlot(t *testing.T) {
	p := NewExecutionPayloadBidPool()
	_, ok := p.BestBid(9)
	require.Equal(t, false, ok)
}

func TestExecutionPayloadBidPool_Prune(t *testing.T) {
	p := NewExecutionPayloadBidPool()
	p.Insert(roBid(t, 1, 1, 100))
	p.Insert(roBid(t, 5, 1, 100))

	p.Prune(8, 4)

	_, ok := p.BestBid(1)
	require.Equal(t, false, ok)
	_, ok = p.BestBid(5)
	require.Equal(t, true, ok)
}

func TestSeenEnvelopeCache(t *testing.T) {
	c := NewSeenEnvelopeCache()
	root := [32]byte{0x1}

	require.Equal(t, false, c.Contains(root))
	require.Equal(t, true, c.Add(root))
	require.Equal(t, false, c.Add(root))
	require.Equal(t, true, c.Contains(root))
}
