package verification

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dapplion/gloas/beacon-chain/cache"
	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/crypto/bls/common"
	"github.com/dapplion/gloas/time/slots"
)

// GossipBidRequirements defines the set of requirements that signed
// execution payload bids received on gossip must satisfy in order to
// upgrade an ROBid to a VerifiedROBid.
var GossipBidRequirements = []Requirement{
	RequireCurrentOrNextSlot,
	RequireZeroReservedPayment,
	RequireBuilderActive,
	RequireBuilderSufficientBalance,
	RequireNoBuilderEquivocation,
	RequireKnownParentBlockRoot,
	RequireBidSignatureValid,
}

var (
	ErrBidInvalid = errors.New("bid failed verification")
	// ErrIncorrectBidSlot is an IGNORE class failure: the bid is outside
	// the acceptance window but carries no protocol violation.
	ErrIncorrectBidSlot           = errors.Wrap(ErrBidInvalid, "bid is not for the current or next slot")
	ErrReservedPaymentNonZero     = errors.Wrap(ErrBidInvalid, "reserved execution payment field is not zero")
	ErrBuilderUnknown             = errors.Wrap(ErrBidInvalid, "builder index is not in the registry")
	ErrBuilderInactive            = errors.Wrap(ErrBidInvalid, "builder is not active at the finalized epoch")
	ErrBuilderInsufficientBalance = errors.Wrap(ErrBidInvalid, "builder balance cannot cover the bid value")
	// ErrDuplicateBid is an IGNORE class failure: the same bid was already
	// admitted.
	ErrDuplicateBid           = errors.Wrap(ErrBidInvalid, "bid with the same root was already seen")
	ErrBidEquivocation        = errors.Wrap(ErrBidInvalid, "builder equivocated with a conflicting bid")
	ErrUnknownParentBlockRoot = errors.Wrap(ErrBidInvalid, "bid parent block root does not match head")
	ErrInvalidBidSignature    = errors.Wrap(ErrBidInvalid, "builder signature could not be verified")
	ErrSelfBuildValue         = errors.Wrap(ErrBidInvalid, "self-build bid carries a non-zero value")
	ErrSelfBuildSignature     = errors.Wrap(ErrBidInvalid, "self-build bid signature is not the infinity point")
)

// BidEquivocationError carries the conflicting roots as slashing-adjacent
// evidence.
type BidEquivocationError struct {
	Existing [32]byte
	Observed [32]byte
}

func (e *BidEquivocationError) Error() string {
	return ErrBidEquivocation.Error()
}

// Unwrap lets errors.Is match the sentinel.
func (e *BidEquivocationError) Unwrap() error {
	return ErrBidEquivocation
}

// BidVerifier runs the gossip admission checks for a single signed bid
// against a read-only snapshot of head state.
type BidVerifier struct {
	*sharedResources
	results *results
	bid     gloas.ROBid
	st      *state.BeaconState
}

// VerifiedROBid "upgrades" the wrapped ROBid to a VerifiedROBid, records
// the sighting in the equivocation cache and inserts the bid into the bid
// pool. If any of the verifications ran against the bid failed, or some
// required verifications were not run, an error is returned and no side
// effect takes place. The atomic observe-and-compare happens here so a
// concurrent upgrade of a conflicting bid is still classified.
func (v *BidVerifier) VerifiedROBid() (gloas.VerifiedROBid, error) {
	if !v.results.allSatisfied() {
		return gloas.VerifiedROBid{}, v.results.errors(ErrBidInvalid)
	}
	obs := v.bidCache.Observe(v.bid.BuilderIndex(), v.bid.Slot(), v.bid.Root())
	switch obs.Outcome {
	case cache.Duplicate:
		return gloas.VerifiedROBid{}, ErrDuplicateBid
	case cache.Equivocation:
		log.WithFields(bidFields(v.bid)).Debug("Builder equivocated on bid")
		return gloas.VerifiedROBid{}, &BidEquivocationError{Existing: obs.Existing, Observed: v.bid.Root()}
	}
	v.bidPool.Insert(v.bid)
	return gloas.NewVerifiedROBid(v.bid), nil
}

func (v *BidVerifier) recordResult(req Requirement, err *error) {
	if err == nil || *err == nil {
		v.results.record(req, nil)
		return
	}
	v.results.record(req, *err)
}

// SatisfyRequirement allows the caller to assert that a requirement has
// been satisfied outside the verifier, such as the builder checks that a
// self-build bid is exempt from.
func (v *BidVerifier) SatisfyRequirement(req Requirement) {
	v.recordResult(req, nil)
}

// VerifyCurrentOrNextSlot represents the verification:
// [IGNORE] the bid is for the current or the immediately next slot, within
// the maximum gossip clock disparity.
func (v *BidVerifier) VerifyCurrentOrNextSlot() (err error) {
	defer v.recordResult(RequireCurrentOrNextSlot, &err)
	current := v.clock.CurrentSlot()
	if v.bid.Slot() == current || v.bid.Slot() == current+1 {
		return nil
	}
	// A bid for slot s is acceptable while the wall clock sits in slot s-1
	// or slot s, widened by the disparity tolerance on both ends.
	genesisSec := uint64(v.clock.GenesisTime().Unix())
	now := v.clock.Now()
	if slots.WithinDisparityWindow(now, genesisSec, v.bid.Slot()) {
		return nil
	}
	if v.bid.Slot() > 0 && slots.WithinDisparityWindow(now, genesisSec, v.bid.Slot()-1) {
		return nil
	}
	log.WithFields(bidFields(v.bid)).WithField("currentSlot", current).Debug("Bid outside the slot window")
	return ErrIncorrectBidSlot
}

// VerifyZeroReservedPayment represents the verification:
// [REJECT] the reserved execution payment field is zero.
func (v *BidVerifier) VerifyZeroReservedPayment() (err error) {
	defer v.recordResult(RequireZeroReservedPayment, &err)
	if v.bid.Bid().ExecutionPayment != 0 {
		return ErrReservedPaymentNonZero
	}
	return nil
}

// VerifySelfBuild checks the constraints specific to self-build bids:
// zero value and the infinity-point signature. A successful self-build
// check satisfies the builder registry, balance and signature requirements,
// which self-build bids are exempt from.
func (v *BidVerifier) VerifySelfBuild() error {
	if v.bid.Value() != 0 {
		v.results.record(RequireBuilderActive, ErrSelfBuildValue)
		return ErrSelfBuildValue
	}
	sig := v.bid.Signature()
	if !bytes.Equal(sig[:], common.InfiniteSignature[:]) {
		v.results.record(RequireBidSignatureValid, ErrSelfBuildSignature)
		return ErrSelfBuildSignature
	}
	v.SatisfyRequirement(RequireBuilderActive)
	v.SatisfyRequirement(RequireBuilderSufficientBalance)
	v.SatisfyRequirement(RequireBidSignatureValid)
	return nil
}

// VerifyBuilderActive represents the verification:
// [REJECT] the builder exists in the registry and is active at the
// finalized epoch.
func (v *BidVerifier) VerifyBuilderActive() (err error) {
	defer v.recordResult(RequireBuilderActive, &err)
	active, aerr := v.st.IsActiveBuilder(v.bid.BuilderIndex())
	if aerr != nil {
		return ErrBuilderUnknown
	}
	if !active {
		return ErrBuilderInactive
	}
	return nil
}

// VerifyBuilderSufficientBalance represents the verification:
// [REJECT] the builder's balance covers the bid value.
func (v *BidVerifier) VerifyBuilderSufficientBalance() (err error) {
	defer v.recordResult(RequireBuilderSufficientBalance, &err)
	builder, berr := v.st.BuilderAtIndex(v.bid.BuilderIndex())
	if berr != nil {
		return ErrBuilderUnknown
	}
	if v.bid.Value() > builder.Balance {
		log.WithFields(bidFields(v.bid)).WithField("balance", builder.Balance).Debug("Bid value exceeds builder balance")
		return ErrBuilderInsufficientBalance
	}
	return nil
}

// VerifyNoEquivocation represents the verification:
// [IGNORE] a bid with the same root was not already seen, and
// [REJECT] the builder did not previously submit a conflicting bid for the
// slot. The check only reads the cache: recording the first sighting is a
// success side effect of VerifiedROBid, so an unverifiable bid cannot
// poison the builder's slot.
func (v *BidVerifier) VerifyNoEquivocation() (err error) {
	defer v.recordResult(RequireNoBuilderEquivocation, &err)
	obs := v.bidCache.Peek(v.bid.BuilderIndex(), v.bid.Slot(), v.bid.Root())
	switch obs.Outcome {
	case cache.New:
		return nil
	case cache.Duplicate:
		return ErrDuplicateBid
	default:
		log.WithFields(bidFields(v.bid)).Debug("Builder equivocated on bid")
		return &BidEquivocationError{Existing: obs.Existing, Observed: v.bid.Root()}
	}
}

// VerifyKnownParentBlockRoot represents the verification:
// [REJECT] the bid's parent block root matches the current head root.
func (v *BidVerifier) VerifyKnownParentBlockRoot() (err error) {
	defer v.recordResult(RequireKnownParentBlockRoot, &err)
	if v.bid.ParentBlockRoot() != v.fc.HeadRoot() {
		return ErrUnknownParentBlockRoot
	}
	return nil
}

// VerifySignature represents the verification:
// [REJECT] the builder's signature over the bid verifies against the
// registered builder pubkey with the builder domain.
func (v *BidVerifier) VerifySignature() (err error) {
	defer v.recordResult(RequireBidSignatureValid, &err)
	builder, berr := v.st.BuilderAtIndex(v.bid.BuilderIndex())
	if berr != nil {
		return ErrBuilderUnknown
	}
	gvr := v.st.GenesisValidatorsRoot()
	domain, derr := signing.Domain(v.st.Fork(), slots.ToEpoch(v.bid.Slot()), params.BeaconConfig().DomainBeaconBuilder, gvr[:])
	if derr != nil {
		return derr
	}
	sig := v.bid.Signature()
	if serr := signing.VerifySigningRoot(v.bid.Bid(), builder.PublicKey, sig[:], domain); serr != nil {
		log.WithFields(bidFields(v.bid)).WithError(serr).Debug("Bid signature verification failed")
		return ErrInvalidBidSignature
	}
	return nil
}

func bidFields(bid gloas.ROBid) log.Fields {
	return log.Fields{
		"slot":         bid.Slot(),
		"builderIndex": bid.BuilderIndex(),
		"value":        bid.Value(),
	}
}
