package verification

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/time/slots"
)

// GossipEnvelopeRequirements defines the set of requirements that signed
// execution payload envelopes received on gossip must satisfy in order to
// upgrade an ROEnvelope to a VerifiedROEnvelope.
var GossipEnvelopeRequirements = []Requirement{
	RequireEnvelopeNotSeen,
	RequireKnownBlockRoot,
	RequireBuilderMatchesCommitment,
	RequireBlockHashMatchesCommitment,
	RequireEnvelopeSignatureValid,
}

var (
	ErrEnvelopeInvalid = errors.New("execution payload envelope failed verification")
	// ErrSeenEnvelope is an IGNORE class failure: a block root admits
	// exactly one envelope, so a repeat is a replay rather than a
	// violation.
	ErrSeenEnvelope              = errors.Wrap(ErrEnvelopeInvalid, "envelope for the block root was already seen")
	ErrUnknownEnvelopeBlockRoot  = errors.Wrap(ErrEnvelopeInvalid, "envelope beacon block root has not been seen")
	ErrEnvelopeBuilderMismatch   = errors.Wrap(ErrEnvelopeInvalid, "builder index does not match the committed bid")
	ErrEnvelopeBlockHashMismatch = errors.Wrap(ErrEnvelopeInvalid, "payload block hash does not match the committed bid")
	ErrInvalidEnvelopeSignature  = errors.Wrap(ErrEnvelopeInvalid, "builder signature could not be verified")
)

// EnvelopeVerifier runs the gossip admission checks for a single signed
// execution payload envelope against a read-only snapshot of the state the
// committed bid was processed into.
type EnvelopeVerifier struct {
	*sharedResources
	results *results
	env     gloas.ROEnvelope
	st      *state.BeaconState
}

// VerifiedROEnvelope "upgrades" the wrapped ROEnvelope to a
// VerifiedROEnvelope and claims the block root in the replay cache. If any
// of the verifications ran against the envelope failed, or some required
// verifications were not run, an error is returned and the root stays
// unclaimed. The claim is atomic, so of two racing envelopes for the same
// root exactly one upgrades.
func (v *EnvelopeVerifier) VerifiedROEnvelope() (gloas.VerifiedROEnvelope, error) {
	if !v.results.allSatisfied() {
		return gloas.VerifiedROEnvelope{}, v.results.errors(ErrEnvelopeInvalid)
	}
	if !v.envCache.Add(v.env.BeaconBlockRoot()) {
		return gloas.VerifiedROEnvelope{}, ErrSeenEnvelope
	}
	return gloas.NewVerifiedROEnvelope(v.env), nil
}

func (v *EnvelopeVerifier) recordResult(req Requirement, err *error) {
	if err == nil || *err == nil {
		v.results.record(req, nil)
		return
	}
	v.results.record(req, *err)
}

// SatisfyRequirement allows the caller to assert that a requirement was
// satisfied outside the verifier.
func (v *EnvelopeVerifier) SatisfyRequirement(req Requirement) {
	v.recordResult(req, nil)
}

// VerifyNotSeen represents the verification:
// [IGNORE] no envelope was already processed for the beacon block root.
func (v *EnvelopeVerifier) VerifyNotSeen() (err error) {
	defer v.recordResult(RequireEnvelopeNotSeen, &err)
	if v.envCache.Contains(v.env.BeaconBlockRoot()) {
		return ErrSeenEnvelope
	}
	return nil
}

// VerifyKnownBlockRoot represents the verification:
// [IGNORE] the envelope's beacon block root has been seen.
func (v *EnvelopeVerifier) VerifyKnownBlockRoot() (err error) {
	defer v.recordResult(RequireKnownBlockRoot, &err)
	if !v.fc.HasNode(v.env.BeaconBlockRoot()) {
		return ErrUnknownEnvelopeBlockRoot
	}
	return nil
}

// VerifyBuilderMatchesCommitment represents the verification:
// [REJECT] the revealing builder is the builder the committed bid named.
func (v *EnvelopeVerifier) VerifyBuilderMatchesCommitment() (err error) {
	defer v.recordResult(RequireBuilderMatchesCommitment, &err)
	if v.env.BuilderIndex() != v.st.LatestExecutionPayloadBid().BuilderIndex {
		log.WithFields(envelopeFields(v.env)).Debug("Envelope builder does not match committed bid")
		return ErrEnvelopeBuilderMismatch
	}
	return nil
}

// VerifyBlockHashMatchesCommitment represents the verification:
// [REJECT] the revealed payload's block hash is the hash the builder
// committed to in the bid.
func (v *EnvelopeVerifier) VerifyBlockHashMatchesCommitment() (err error) {
	defer v.recordResult(RequireBlockHashMatchesCommitment, &err)
	if !bytes.Equal(v.env.Execution().BlockHash, v.st.LatestExecutionPayloadBid().BlockHash) {
		log.WithFields(envelopeFields(v.env)).Debug("Envelope block hash does not match committed bid")
		return ErrEnvelopeBlockHashMismatch
	}
	return nil
}

// VerifySignature represents the verification:
// [REJECT] the builder's signature over the envelope verifies against the
// registered builder pubkey with the builder domain.
func (v *EnvelopeVerifier) VerifySignature() (err error) {
	defer v.recordResult(RequireEnvelopeSignatureValid, &err)
	builder, berr := v.st.BuilderAtIndex(v.env.BuilderIndex())
	if berr != nil {
		return ErrEnvelopeBuilderMismatch
	}
	gvr := v.st.GenesisValidatorsRoot()
	domain, derr := signing.Domain(v.st.Fork(), slots.ToEpoch(v.env.Slot()), params.BeaconConfig().DomainBeaconBuilder, gvr[:])
	if derr != nil {
		return derr
	}
	sig := v.env.Signature()
	if serr := signing.VerifySigningRoot(v.env.Envelope(), builder.PublicKey, sig[:], domain); serr != nil {
		log.WithFields(envelopeFields(v.env)).WithError(serr).Debug("Envelope signature verification failed")
		return ErrInvalidEnvelopeSignature
	}
	return nil
}

// CommittedVersionedHashes derives the versioned hashes of the committed
// bid's blob commitments, the blob argument of the execution engine's new
// payload call for this envelope.
func (v *EnvelopeVerifier) CommittedVersionedHashes() []common.Hash {
	return gloas.VersionedHashes(v.st.LatestExecutionPayloadBid().BlobKzgCommitments)
}

func envelopeFields(env gloas.ROEnvelope) log.Fields {
	return log.Fields{
		"slot":         env.Slot(),
		"builderIndex": env.BuilderIndex(),
	}
}
