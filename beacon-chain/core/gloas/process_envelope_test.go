package gloas

import (
	"context"
	"testing"

	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
	"github.com/dapplion/gloas/encoding/bytesutil"
	"github.com/dapplion/gloas/testing/require"
	"github.com/dapplion/gloas/testing/util"
	"github.com/dapplion/gloas/time/slots"
)

// committedBidState returns a state with a builder registered and a bid
// committed for the current slot, plus the builder key and index.
func committedBidState(t *testing.T) (*state.BeaconState, bls.SecretKey, primitives.BuilderIndex) {
	st, _ := util.DeterministicGenesisState(t, 8)
	builderKey := util.DeterministicKeys(t, 16)[10]
	builderIdx := util.RegisterBuilder(t, st, builderKey, 1000)
	signed := util.SignedBidForState(t, st, builderKey, builderIdx, 500)
	require.NoError(t, ProcessExecutionPayloadBid(st, signed, 0))
	return st, builderKey, builderIdx
}

// envelopeForCommittedBid builds an envelope consistent with the committed
// bid and fills in the state root the transition will arrive at.
func envelopeForCommittedBid(t *testing.T, st *state.BeaconState, key bls.SecretKey) *gloastypes.SignedExecutionPayloadEnvelope {
	post := st.Copy()
	require.NoError(t, backfillHeaderStateRoot(post))
	headerRoot, err := post.LatestBlockHeader().HashTreeRoot()
	require.NoError(t, err)

	committed := st.LatestExecutionPayloadBid()
	latestBlockHash := st.LatestBlockHash()
	payload := util.HydrateExecutionPayload(&gloastypes.ExecutionPayload{
		ParentHash: latestBlockHash[:],
		PrevRandao: committed.PrevRandao,
		GasLimit:   committed.GasLimit,
		Timestamp:  st.GenesisTime() + uint64(st.Slot())*params.BeaconConfig().SecondsPerSlot,
		BlockHash:  committed.BlockHash,
	})
	payload.Withdrawals = ExpectedWithdrawals(post)

	// Arrive at the same post state the transition will produce.
	expected := ExpectedWithdrawals(post)
	applyWithdrawals(post, expected)
	releasePendingPayment(post)
	post.UpdateExecutionPayloadAvailability(post.Slot(), true)
	post.SetLatestBlockHash(bytesutil.ToBytes32(payload.BlockHash))
	post.SetLatestFullSlot(post.Slot())
	stateRoot, err := post.HashTreeRoot()
	require.NoError(t, err)

	envelope := &gloastypes.ExecutionPayloadEnvelope{
		Payload:         payload,
		BuilderIndex:    committed.BuilderIndex,
		BeaconBlockRoot: headerRoot[:],
		Slot:            st.Slot(),
		StateRoot:       stateRoot[:],
	}
	sig := util.ComputeDomainAndSign(t, st, slots.ToEpoch(envelope.Slot), envelope, params.BeaconConfig().DomainBeaconBuilder, key)
	return &gloastypes.SignedExecutionPayloadEnvelope{Message: envelope, Signature: sig}
}

func TestProcessExecutionPayloadEnvelope_AppliesReveal(t *testing.T) {
	st, builderKey, builderIdx := committedBidState(t)
	signed := envelopeForCommittedBid(t, st, builderKey)

	post, err := ProcessExecutionPayloadEnvelope(context.Background(), st, signed)
	require.NoError(t, err)

	require.Equal(t, true, post.ExecutionPayloadAvailability(post.Slot()))
	require.Equal(t, bytesutil.ToBytes32(signed.Message.Payload.BlockHash), post.LatestBlockHash())
	require.Equal(t, st.Slot(), post.LatestFullSlot())

	// The queued payment moved from the window to the pending queue.
	pending := post.BuilderPendingWithdrawals()
	require.Equal(t, 1, len(pending))
	require.Equal(t, primitives.Gwei(500), pending[0].Amount)
	require.Equal(t, builderIdx, pending[0].BuilderIndex)
	windowIdx := uint64(params.BeaconConfig().SlotsPerEpoch) + uint64(st.Slot()%params.BeaconConfig().SlotsPerEpoch)
	payment, err := post.BuilderPendingPayment(windowIdx)
	require.NoError(t, err)
	require.Equal(t, primitives.Gwei(0), payment.Withdrawal.Amount)

	// The input state is untouched.
	require.Equal(t, false, st.ExecutionPayloadAvailability(st.Slot()))
	require.Equal(t, primitives.Slot(0), st.LatestFullSlot())
	require.Equal(t, 0, len(st.BuilderPendingWithdrawals()))
}

func TestProcessExecutionPayloadEnvelope_BindingChecks(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		mutate  func(e *gloastypes.ExecutionPayloadEnvelope)
		wantErr error
	}{
		{
			name:    "beacon block root mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.BeaconBlockRoot[0] ^= 0xff },
			wantErr: ErrBeaconBlockRootMismatch,
		},
		{
			name:    "slot mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.Slot++ },
			wantErr: ErrEnvelopeSlotMismatch,
		},
		{
			name:    "builder index mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.BuilderIndex++ },
			wantErr: ErrBuilderIndexMismatch,
		},
		{
			name:    "prev randao mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.Payload.PrevRandao[0] ^= 0xff },
			wantErr: ErrPrevRandaoMismatch,
		},
		{
			name:    "gas limit mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.Payload.GasLimit++ },
			wantErr: ErrGasLimitMismatch,
		},
		{
			name:    "block hash mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.Payload.BlockHash[0] ^= 0xff },
			wantErr: ErrBlockHashMismatch,
		},
		{
			name: "unexpected withdrawal",
			mutate: func(e *gloastypes.ExecutionPayloadEnvelope) {
				e.Payload.Withdrawals = append(e.Payload.Withdrawals, &gloastypes.Withdrawal{Address: make([]byte, 20)})
			},
			wantErr: ErrWithdrawalsMismatch,
		},
		{
			name:    "parent hash mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.Payload.ParentHash[0] ^= 0xff },
			wantErr: ErrPayloadParentHashMismatch,
		},
		{
			name:    "timestamp mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.Payload.Timestamp++ },
			wantErr: ErrTimestampMismatch,
		},
		{
			name:    "state root mismatch",
			mutate:  func(e *gloastypes.ExecutionPayloadEnvelope) { e.StateRoot[0] ^= 0xff },
			wantErr: ErrStateRootMismatch,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, builderKey, _ := committedBidState(t)
			signed := envelopeForCommittedBid(t, st, builderKey)
			tc.mutate(signed.Message)
			_, err := ProcessExecutionPayloadEnvelope(ctx, st, signed)
			require.ErrorIs(t, err, tc.wantErr)

			// A failed envelope leaves no observable mutation.
			require.Equal(t, false, st.ExecutionPayloadAvailability(st.Slot()))
			require.Equal(t, 0, len(st.BuilderPendingWithdrawals()))
			require.Equal(t, primitives.Slot(0), st.LatestFullSlot())
		})
	}
}

func TestProcessExecutionPayloadEnvelope_TamperedCommitmentFailsBlockBinding(t *testing.T) {
	// Rewriting the committed bid after the envelope was built alters the
	// pre-state, so the backfilled header root no longer matches the
	// envelope's beacon block root and the block binding fails before any
	// payload check is reached.
	st, builderKey, _ := committedBidState(t)
	signed := envelopeForCommittedBid(t, st, builderKey)
	committed := st.LatestExecutionPayloadBid()
	committed.BlockHash[0] ^= 0xff
	st.SetLatestExecutionPayloadBid(committed)
	_, err := ProcessExecutionPayloadEnvelope(context.Background(), st, signed)
	require.ErrorIs(t, err, ErrBeaconBlockRootMismatch)
}

func TestVerifyEnvelopeSignature(t *testing.T) {
	st, builderKey, _ := committedBidState(t)
	signed := envelopeForCommittedBid(t, st, builderKey)
	require.NoError(t, VerifyEnvelopeSignature(st, signed))

	wrongKey := util.DeterministicKeys(t, 16)[11]
	signed.Signature = util.ComputeDomainAndSign(t, st, slots.ToEpoch(signed.Message.Slot), signed.Message, params.BeaconConfig().DomainBeaconBuilder, wrongKey)
	require.NotNil(t, VerifyEnvelopeSignature(st, signed))
}
