package gloas

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/encoding/bytesutil"
	"github.com/dapplion/gloas/time/slots"
)

// ProcessExecutionPayloadEnvelope applies the builder's payload reveal to
// the state. All checks and mutations run against a copy of the input
// state; the copy is returned only if every check, including the final
// state root equality, succeeds. A failed envelope therefore leaves no
// observable mutation.
func ProcessExecutionPayloadEnvelope(ctx context.Context, st *state.BeaconState, signed *gloastypes.SignedExecutionPayloadEnvelope) (*state.BeaconState, error) {
	_, span := trace.StartSpan(ctx, "gloas.ProcessExecutionPayloadEnvelope")
	defer span.End()

	if st == nil {
		return nil, state.ErrNilState
	}
	if signed == nil || signed.Message == nil || signed.Message.Payload == nil {
		return nil, ErrNilEnvelope
	}
	envelope := signed.Message
	payload := envelope.Payload

	post := st.Copy()

	// The header kept in state has a zeroed state root until the first
	// mutation after block processing. Backfill it before hashing so the
	// envelope's beacon block root binds to the completed header.
	if err := backfillHeaderStateRoot(post); err != nil {
		return nil, err
	}

	headerRoot, err := post.LatestBlockHeader().HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash latest block header")
	}
	if !bytes.Equal(envelope.BeaconBlockRoot, headerRoot[:]) {
		return nil, ErrBeaconBlockRootMismatch
	}
	if envelope.Slot != post.Slot() {
		return nil, ErrEnvelopeSlotMismatch
	}

	committed := post.LatestExecutionPayloadBid()
	if envelope.BuilderIndex != committed.BuilderIndex {
		return nil, ErrBuilderIndexMismatch
	}
	if !bytes.Equal(payload.PrevRandao, committed.PrevRandao) {
		return nil, ErrPrevRandaoMismatch
	}
	if payload.GasLimit != committed.GasLimit {
		return nil, ErrGasLimitMismatch
	}
	if !bytes.Equal(payload.BlockHash, committed.BlockHash) {
		return nil, ErrBlockHashMismatch
	}

	expected := ExpectedWithdrawals(post)
	if err := matchWithdrawals(payload.Withdrawals, expected); err != nil {
		return nil, err
	}

	latestBlockHash := post.LatestBlockHash()
	if !bytes.Equal(payload.ParentHash, latestBlockHash[:]) {
		return nil, ErrPayloadParentHashMismatch
	}
	if payload.Timestamp != slotStartTime(post.GenesisTime(), post.Slot()) {
		return nil, ErrTimestampMismatch
	}

	applyWithdrawals(post, expected)
	if envelope.ExecutionRequests != nil {
		if err := processExecutionRequests(post, envelope.ExecutionRequests); err != nil {
			return nil, err
		}
	}
	releasePendingPayment(post)

	post.UpdateExecutionPayloadAvailability(post.Slot(), true)
	post.SetLatestBlockHash(bytesutil.ToBytes32(payload.BlockHash))
	post.SetLatestFullSlot(post.Slot())

	postRoot, err := post.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash post state")
	}
	if !bytes.Equal(envelope.StateRoot, postRoot[:]) {
		return nil, ErrStateRootMismatch
	}

	log.WithFields(log.Fields{
		"slot":         envelope.Slot,
		"builderIndex": envelope.BuilderIndex,
	}).Debug("Processed execution payload envelope")
	return post, nil
}

// VerifyEnvelopeSignature checks the builder's signature over the envelope.
// Self-built envelopes carry the proposer's signature instead and are
// verified by the caller against the proposer key.
func VerifyEnvelopeSignature(st *state.BeaconState, signed *gloastypes.SignedExecutionPayloadEnvelope) error {
	if signed == nil || signed.Message == nil {
		return ErrNilEnvelope
	}
	builder, err := st.BuilderAtIndex(signed.Message.BuilderIndex)
	if err != nil {
		return ErrUnknownBuilder
	}
	gvr := st.GenesisValidatorsRoot()
	domain, err := signing.Domain(st.Fork(), slots.ToEpoch(signed.Message.Slot), params.BeaconConfig().DomainBeaconBuilder, gvr[:])
	if err != nil {
		return err
	}
	return signing.VerifySigningRoot(signed.Message, builder.PublicKey, signed.Signature, domain)
}

// backfillHeaderStateRoot completes the cached header with the current
// state root if it is still zeroed.
func backfillHeaderStateRoot(st *state.BeaconState) error {
	header := st.LatestBlockHeader()
	if !bytes.Equal(header.StateRoot, make([]byte, 32)) {
		return nil
	}
	prevRoot, err := st.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash state for header backfill")
	}
	st.SetLatestBlockHeaderStateRoot(prevRoot)
	return nil
}

func matchWithdrawals(got, want []*gloastypes.Withdrawal) error {
	if len(got) != len(want) {
		return ErrWithdrawalsMismatch
	}
	for i, w := range want {
		g := got[i]
		if g.Index != w.Index || g.ValidatorIndex != w.ValidatorIndex ||
			g.Amount != w.Amount || !bytes.Equal(g.Address, w.Address) {
			return ErrWithdrawalsMismatch
		}
	}
	return nil
}

// releasePendingPayment settles the current slot's queued builder payment
// at reveal time: the window entry is zeroed and a non-zero withdrawal is
// pushed onto the pending queue.
func releasePendingPayment(st *state.BeaconState) {
	windowIdx := uint64(params.BeaconConfig().SlotsPerEpoch) + uint64(st.Slot()%params.BeaconConfig().SlotsPerEpoch)
	payment, err := st.BuilderPendingPayment(windowIdx)
	if err != nil {
		return
	}
	if payment.Withdrawal.Amount > 0 {
		st.AppendBuilderPendingWithdrawal(payment.Withdrawal)
	}
	zero := &gloastypes.BuilderPendingPayment{
		Withdrawal: &gloastypes.BuilderPendingWithdrawal{FeeRecipient: make([]byte, 20)},
	}
	// The window index is in range here, the lookup above succeeded.
	_ = st.SetBuilderPendingPayment(windowIdx, zero)
}

func slotStartTime(genesisTimeSec uint64, slot primitives.Slot) uint64 {
	return genesisTimeSec + uint64(slot)*params.BeaconConfig().SecondsPerSlot
}
