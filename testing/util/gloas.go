package util

import (
	"encoding/binary"
	"testing"

	"github.com/dapplion/gloas/beacon-chain/state"
	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
	"github.com/dapplion/gloas/crypto/bls/common"
	"github.com/dapplion/gloas/crypto/hash"
	"github.com/dapplion/gloas/time/slots"
)

// HydrateExecutionPayloadBid fills the byte-slice fields of a bid with
// correctly sized zero values, so partially specified fixtures hash.
func HydrateExecutionPayloadBid(b *gloas.ExecutionPayloadBid) *gloas.ExecutionPayloadBid {
	if b == nil {
		b = &gloas.ExecutionPayloadBid{}
	}
	if b.ParentBlockHash == nil {
		b.ParentBlockHash = make([]byte, fieldparams.RootLength)
	}
	if b.ParentBlockRoot == nil {
		b.ParentBlockRoot = make([]byte, fieldparams.RootLength)
	}
	if b.BlockHash == nil {
		b.BlockHash = make([]byte, fieldparams.RootLength)
	}
	if b.PrevRandao == nil {
		b.PrevRandao = make([]byte, fieldparams.RootLength)
	}
	if b.FeeRecipient == nil {
		b.FeeRecipient = make([]byte, fieldparams.FeeRecipientLength)
	}
	return b
}

// HydrateSignedExecutionPayloadBid fills nil fields of a signed bid with
// correctly sized zero values.
func HydrateSignedExecutionPayloadBid(b *gloas.SignedExecutionPayloadBid) *gloas.SignedExecutionPayloadBid {
	if b == nil {
		b = &gloas.SignedExecutionPayloadBid{}
	}
	b.Message = HydrateExecutionPayloadBid(b.Message)
	if b.Signature == nil {
		b.Signature = make([]byte, fieldparams.BLSSignatureLength)
	}
	return b
}

// HydrateExecutionPayload fills the byte-slice fields of a payload with
// correctly sized zero values.
func HydrateExecutionPayload(p *gloas.ExecutionPayload) *gloas.ExecutionPayload {
	if p == nil {
		p = &gloas.ExecutionPayload{}
	}
	if p.ParentHash == nil {
		p.ParentHash = make([]byte, fieldparams.RootLength)
	}
	if p.FeeRecipient == nil {
		p.FeeRecipient = make([]byte, fieldparams.FeeRecipientLength)
	}
	if p.StateRoot == nil {
		p.StateRoot = make([]byte, fieldparams.RootLength)
	}
	if p.ReceiptsRoot == nil {
		p.ReceiptsRoot = make([]byte, fieldparams.RootLength)
	}
	if p.LogsBloom == nil {
		p.LogsBloom = make([]byte, fieldparams.LogsBloomLength)
	}
	if p.PrevRandao == nil {
		p.PrevRandao = make([]byte, fieldparams.RootLength)
	}
	if p.ExtraData == nil {
		p.ExtraData = make([]byte, 0)
	}
	if p.BaseFeePerGas == nil {
		p.BaseFeePerGas = make([]byte, fieldparams.RootLength)
	}
	if p.BlockHash == nil {
		p.BlockHash = make([]byte, fieldparams.RootLength)
	}
	return p
}

// HydrateSignedExecutionPayloadEnvelope fills nil fields of a signed
// envelope with correctly sized zero values.
func HydrateSignedExecutionPayloadEnvelope(e *gloas.SignedExecutionPayloadEnvelope) *gloas.SignedExecutionPayloadEnvelope {
	if e == nil {
		e = &gloas.SignedExecutionPayloadEnvelope{}
	}
	if e.Message == nil {
		e.Message = &gloas.ExecutionPayloadEnvelope{}
	}
	e.Message.Payload = HydrateExecutionPayload(e.Message.Payload)
	if e.Message.BeaconBlockRoot == nil {
		e.Message.BeaconBlockRoot = make([]byte, fieldparams.RootLength)
	}
	if e.Message.StateRoot == nil {
		e.Message.StateRoot = make([]byte, fieldparams.RootLength)
	}
	if e.Signature == nil {
		e.Signature = make([]byte, fieldparams.BLSSignatureLength)
	}
	return e
}

// HydratePayloadAttestationData fills nil fields of attestation data with
// correctly sized zero values.
func HydratePayloadAttestationData(d *gloas.PayloadAttestationData) *gloas.PayloadAttestationData {
	if d == nil {
		d = &gloas.PayloadAttestationData{}
	}
	if d.BeaconBlockRoot == nil {
		d.BeaconBlockRoot = make([]byte, fieldparams.RootLength)
	}
	return d
}

// SignedBidForState builds a bid bound to the given state, slot-current and
// parent-consistent, signed by the builder key with the builder domain.
func SignedBidForState(t testing.TB, st *state.BeaconState, key bls.SecretKey, builderIdx primitives.BuilderIndex, value primitives.Gwei) *gloas.SignedExecutionPayloadBid {
	bid := boundBid(t, st, builderIdx, value)
	sig := ComputeDomainAndSign(t, st, slots.ToEpoch(bid.Slot), bid, params.BeaconConfig().DomainBeaconBuilder, key)
	return &gloas.SignedExecutionPayloadBid{Message: bid, Signature: sig}
}

// SelfBuildBid builds the bid a proposer commits when producing its own
// payload: the sentinel builder index, zero value and the infinity-point
// signature.
func SelfBuildBid(t testing.TB, st *state.BeaconState) *gloas.SignedExecutionPayloadBid {
	bid := boundBid(t, st, primitives.SelfBuilderIndex, 0)
	return &gloas.SignedExecutionPayloadBid{Message: bid, Signature: common.InfiniteSignature[:]}
}

func boundBid(t testing.TB, st *state.BeaconState, builderIdx primitives.BuilderIndex, value primitives.Gwei) *gloas.ExecutionPayloadBid {
	headerRoot, err := st.LatestBlockHeader().HashTreeRoot()
	if err != nil {
		t.Fatalf("could not hash latest block header: %v", err)
	}
	latestBlockHash := st.LatestBlockHash()
	bid := HydrateExecutionPayloadBid(&gloas.ExecutionPayloadBid{
		ParentBlockHash: latestBlockHash[:],
		ParentBlockRoot: headerRoot[:],
		GasLimit:        30_000_000,
		BuilderIndex:    builderIdx,
		Slot:            st.Slot(),
		Value:           value,
	})
	bid.BlockHash = deterministicHash32("blockhash", uint64(st.Slot()))
	return bid
}

func deterministicHash32(tag string, n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	h := hash.Hash(append([]byte(tag), b...))
	return h[:]
}

// PayloadAttestationMessageForState builds a single PTC member's signed
// judgment for the state's current slot.
func PayloadAttestationMessageForState(t testing.TB, st *state.BeaconState, key bls.SecretKey, validatorIdx primitives.ValidatorIndex, present bool) *gloas.PayloadAttestationMessage {
	headerRoot, err := st.LatestBlockHeader().HashTreeRoot()
	if err != nil {
		t.Fatalf("could not hash latest block header: %v", err)
	}
	data := &gloas.PayloadAttestationData{
		BeaconBlockRoot:   headerRoot[:],
		Slot:              st.Slot(),
		PayloadPresent:    present,
		BlobDataAvailable: present,
	}
	sig := ComputeDomainAndSign(t, st, slots.ToEpoch(data.Slot), data, params.BeaconConfig().DomainPTCAttester, key)
	return &gloas.PayloadAttestationMessage{
		ValidatorIndex: validatorIdx,
		Data:           data,
		Signature:      sig,
	}
}
