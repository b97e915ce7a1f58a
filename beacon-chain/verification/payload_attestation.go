package verification

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dapplion/gloas/beacon-chain/cache"
	"github.com/dapplion/gloas/beacon-chain/core/helpers"
	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	payloadattestation "github.com/dapplion/gloas/consensus-types/gloas/payload-attestation"
	"github.com/dapplion/gloas/time/slots"
)

// GossipPayloadAttestationMessageRequirements defines the set of
// requirements that individual payload attestation messages received on
// gossip must satisfy to upgrade an ROMessage to a VerifiedROMessage.
var GossipPayloadAttestationMessageRequirements = []Requirement{
	RequireCurrentSlot,
	RequireKnownBlockRoot,
	RequireValidatorInPTC,
	RequireNoAttesterEquivocation,
	RequireAttestationSignatureValid,
}

var (
	ErrPayloadAttestationInvalid = errors.New("payload attestation failed verification")
	// ErrIncorrectPayloadAttSlot is an IGNORE class failure.
	ErrIncorrectPayloadAttSlot = errors.Wrap(ErrPayloadAttestationInvalid, "attestation is not for the current slot")
	ErrUnknownBeaconBlockRoot  = errors.Wrap(ErrPayloadAttestationInvalid, "attested beacon block root has not been seen")
	ErrValidatorNotInPTC       = errors.Wrap(ErrPayloadAttestationInvalid, "validator is not a committee member for the slot")
	// ErrDuplicatePayloadAtt is an IGNORE class failure: the same judgment
	// can arrive through independent aggregates.
	ErrDuplicatePayloadAtt        = errors.Wrap(ErrPayloadAttestationInvalid, "attestation with the same data root was already seen")
	ErrPayloadAttEquivocation     = errors.Wrap(ErrPayloadAttestationInvalid, "validator equivocated with a conflicting attestation")
	ErrInvalidPayloadAttSignature = errors.Wrap(ErrPayloadAttestationInvalid, "attester signature could not be verified")
)

// PayloadAttEquivocationError carries the conflicting data roots as
// slashing-adjacent evidence.
type PayloadAttEquivocationError struct {
	Existing [32]byte
	Observed [32]byte
}

func (e *PayloadAttEquivocationError) Error() string {
	return ErrPayloadAttEquivocation.Error()
}

// Unwrap lets errors.Is match the sentinel.
func (e *PayloadAttEquivocationError) Unwrap() error {
	return ErrPayloadAttEquivocation
}

// PayloadAttMsgVerifier runs the gossip admission checks for a single
// payload attestation message against a read-only snapshot of head state.
type PayloadAttMsgVerifier struct {
	*sharedResources
	results *results
	pa      payloadattestation.ROMessage
	st      *state.BeaconState
}

// VerifiedROMessage "upgrades" the wrapped ROMessage to a
// VerifiedROMessage and records the sighting in the equivocation cache. If
// any of the verifications ran against the message failed, or some required
// verifications were not run, an error is returned and nothing is recorded.
func (v *PayloadAttMsgVerifier) VerifiedROMessage() (payloadattestation.VerifiedROMessage, error) {
	if !v.results.allSatisfied() {
		return payloadattestation.VerifiedROMessage{}, v.results.errors(ErrPayloadAttestationInvalid)
	}
	obs := v.attCache.Observe(v.pa.ValidatorIndex(), v.pa.Slot(), v.pa.DataRoot())
	switch obs.Outcome {
	case cache.Duplicate:
		return payloadattestation.VerifiedROMessage{}, ErrDuplicatePayloadAtt
	case cache.Equivocation:
		log.WithFields(attFields(v.pa)).Debug("Validator equivocated on payload attestation")
		return payloadattestation.VerifiedROMessage{}, &PayloadAttEquivocationError{Existing: obs.Existing, Observed: v.pa.DataRoot()}
	}
	return payloadattestation.NewVerifiedROMessage(v.pa), nil
}

func (v *PayloadAttMsgVerifier) recordResult(req Requirement, err *error) {
	if err == nil || *err == nil {
		v.results.record(req, nil)
		return
	}
	v.results.record(req, *err)
}

// SatisfyRequirement allows the caller to assert that a requirement was
// satisfied outside the verifier.
func (v *PayloadAttMsgVerifier) SatisfyRequirement(req Requirement) {
	v.recordResult(req, nil)
}

// VerifyCurrentSlot represents the verification:
// [IGNORE] the attestation is for the current slot, within the gossip
// clock disparity window.
func (v *PayloadAttMsgVerifier) VerifyCurrentSlot() (err error) {
	defer v.recordResult(RequireCurrentSlot, &err)
	if v.pa.Slot() == v.clock.CurrentSlot() {
		return nil
	}
	genesisSec := uint64(v.clock.GenesisTime().Unix())
	if !slots.WithinDisparityWindow(v.clock.Now(), genesisSec, v.pa.Slot()) {
		log.WithFields(attFields(v.pa)).Debug("Attestation outside the slot window")
		return ErrIncorrectPayloadAttSlot
	}
	return nil
}

// VerifyKnownBlockRoot represents the verification:
// [IGNORE] the attested beacon block root has been seen.
func (v *PayloadAttMsgVerifier) VerifyKnownBlockRoot() (err error) {
	defer v.recordResult(RequireKnownBlockRoot, &err)
	if !v.fc.HasNode(v.pa.BeaconBlockRoot()) {
		return ErrUnknownBeaconBlockRoot
	}
	return nil
}

// VerifyValidatorInPTC represents the verification:
// [REJECT] the attesting validator is a member of the slot's payload
// timeliness committee.
func (v *PayloadAttMsgVerifier) VerifyValidatorInPTC() (err error) {
	defer v.recordResult(RequireValidatorInPTC, &err)
	committee, cerr := helpers.PTCCommittee(v.st, v.pa.Slot())
	if cerr != nil {
		return cerr
	}
	if _, ok := helpers.PTCPosition(committee, v.pa.ValidatorIndex()); !ok {
		log.WithFields(attFields(v.pa)).Debug("Validator not in payload timeliness committee")
		return ErrValidatorNotInPTC
	}
	return nil
}

// VerifyNoEquivocation represents the verification:
// [IGNORE] the same judgment was not already seen from this validator, and
// [REJECT] the validator did not previously sign a conflicting judgment for
// the slot. The check only reads the cache: recording the first sighting is
// a success side effect of VerifiedROMessage, so an unverifiable message
// cannot poison the validator's slot.
func (v *PayloadAttMsgVerifier) VerifyNoEquivocation() (err error) {
	defer v.recordResult(RequireNoAttesterEquivocation, &err)
	obs := v.attCache.Peek(v.pa.ValidatorIndex(), v.pa.Slot(), v.pa.DataRoot())
	switch obs.Outcome {
	case cache.New:
		return nil
	case cache.Duplicate:
		return ErrDuplicatePayloadAtt
	default:
		log.WithFields(attFields(v.pa)).Debug("Validator equivocated on payload attestation")
		return &PayloadAttEquivocationError{Existing: obs.Existing, Observed: v.pa.DataRoot()}
	}
}

// VerifySignature represents the verification:
// [REJECT] the validator's signature over the attestation data verifies
// with the PTC attester domain.
func (v *PayloadAttMsgVerifier) VerifySignature() (err error) {
	defer v.recordResult(RequireAttestationSignatureValid, &err)
	val, verr := v.st.ValidatorAtIndex(v.pa.ValidatorIndex())
	if verr != nil {
		return verr
	}
	gvr := v.st.GenesisValidatorsRoot()
	domain, derr := signing.Domain(v.st.Fork(), slots.ToEpoch(v.pa.Slot()), params.BeaconConfig().DomainPTCAttester, gvr[:])
	if derr != nil {
		return derr
	}
	sig := v.pa.Signature()
	if serr := signing.VerifySigningRoot(v.pa.Data(), val.PublicKey, sig[:], domain); serr != nil {
		log.WithFields(attFields(v.pa)).WithError(serr).Debug("Attestation signature verification failed")
		return ErrInvalidPayloadAttSignature
	}
	return nil
}

func attFields(pa payloadattestation.ROMessage) log.Fields {
	return log.Fields{
		"slot":           pa.Slot(),
		"validatorIndex": pa.ValidatorIndex(),
	}
}
