package gloas

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dapplion/gloas/beacon-chain/core/helpers"
	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
	"github.com/dapplion/gloas/time/slots"
)

// PayloadAttestationQuorum is the number of committee members that must
// attest before the slot's payload judgment becomes final.
func PayloadAttestationQuorum() uint64 {
	cfg := params.BeaconConfig()
	return cfg.PTCSize * cfg.PayloadTimelyThresholdNumerator / cfg.PayloadTimelyThresholdDenominator
}

// GetIndexedPayloadAttestation resolves the aggregation bits of an
// aggregated payload attestation against the slot's committee. The returned
// indices are sorted ascending, inheriting the committee's canonical order.
func GetIndexedPayloadAttestation(st *state.BeaconState, slot primitives.Slot, att *gloastypes.PayloadAttestation) (*gloastypes.IndexedPayloadAttestation, error) {
	if att == nil || att.Data == nil {
		return nil, ErrNilAttestation
	}
	committee, err := helpers.PTCCommittee(st, slot)
	if err != nil {
		return nil, errors.Wrap(err, "could not compute committee")
	}
	indices := make([]primitives.ValidatorIndex, 0, len(committee))
	for pos := uint64(0); pos < att.AggregationBits.Len(); pos++ {
		if !att.AggregationBits.BitAt(pos) {
			continue
		}
		if pos >= uint64(len(committee)) {
			return nil, ErrCommitteeIndexOutOfBound
		}
		indices = append(indices, committee[pos])
	}
	return &gloastypes.IndexedPayloadAttestation{
		AttestingIndices: indices,
		Data:             att.Data,
		Signature:        att.Signature,
	}, nil
}

// ProcessPayloadAttestation applies an aggregated payload attestation
// included in a block body. When the attester count reaches the committee
// quorum, the slot's availability bit is set to the attested judgment; a
// present payload additionally accrues the attesters' effective balances
// onto the slot's pending payment weight.
func ProcessPayloadAttestation(st *state.BeaconState, att *gloastypes.PayloadAttestation) error {
	if st == nil {
		return state.ErrNilState
	}
	if att == nil || att.Data == nil {
		return ErrNilAttestation
	}
	if att.Data.Slot != st.Slot() {
		return ErrAttestationSlotMismatch
	}
	headerRoot, err := st.LatestBlockHeader().HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash latest block header")
	}
	if !bytes.Equal(att.Data.BeaconBlockRoot, headerRoot[:]) {
		return ErrAttestationRootMismatch
	}

	indexed, err := GetIndexedPayloadAttestation(st, att.Data.Slot, att)
	if err != nil {
		return err
	}
	if uint64(len(indexed.AttestingIndices)) < PayloadAttestationQuorum() {
		return nil
	}

	st.UpdateExecutionPayloadAvailability(att.Data.Slot, att.Data.PayloadPresent)
	if !att.Data.PayloadPresent {
		return nil
	}

	weight := primitives.Gwei(0)
	for _, idx := range indexed.AttestingIndices {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return err
		}
		weight += primitives.Gwei(v.EffectiveBalance)
	}
	windowIdx := uint64(params.BeaconConfig().SlotsPerEpoch) + uint64(att.Data.Slot%params.BeaconConfig().SlotsPerEpoch)
	if err := st.AddBuilderPendingPaymentWeight(windowIdx, weight); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"slot":      att.Data.Slot,
		"attesters": len(indexed.AttestingIndices),
		"present":   att.Data.PayloadPresent,
	}).Debug("Payload attestation reached quorum")
	return nil
}

// VerifyPayloadAttestationSignature checks the aggregate signature of an
// indexed payload attestation over the PTC attester domain.
func VerifyPayloadAttestationSignature(st *state.BeaconState, indexed *gloastypes.IndexedPayloadAttestation) error {
	if indexed == nil || indexed.Data == nil {
		return ErrNilAttestation
	}
	pubkeys := make([]bls.PublicKey, 0, len(indexed.AttestingIndices))
	for _, idx := range indexed.AttestingIndices {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return err
		}
		pk, err := bls.PublicKeyFromBytes(v.PublicKey)
		if err != nil {
			return err
		}
		pubkeys = append(pubkeys, pk)
	}
	gvr := st.GenesisValidatorsRoot()
	domain, err := signing.Domain(st.Fork(), slots.ToEpoch(indexed.Data.Slot), params.BeaconConfig().DomainPTCAttester, gvr[:])
	if err != nil {
		return err
	}
	root, err := signing.ComputeSigningRoot(indexed.Data, domain)
	if err != nil {
		return err
	}
	sig, err := bls.SignatureFromBytes(indexed.Signature)
	if err != nil {
		return err
	}
	if !sig.Eth2FastAggregateVerify(pubkeys, root) {
		return signing.ErrSigFailedToVerify
	}
	return nil
}
