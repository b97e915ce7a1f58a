package verification

import (
	"github.com/dapplion/gloas/beacon-chain/cache"
	"github.com/dapplion/gloas/beacon-chain/startup"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/consensus-types/gloas"
	payloadattestation "github.com/dapplion/gloas/consensus-types/gloas/payload-attestation"
)

// Forkchoicer represents the forkchoice methods that the verifiers need.
// Note that forkchoice is used here in a lock-free fashion, assuming that a
// version of forkchoice is given that internally handles the details of
// locking the underlying store.
type Forkchoicer interface {
	HeadRoot() [32]byte
	HasNode([32]byte) bool
	FinalizedCheckpoint() *gloas.Checkpoint
}

// sharedResources provides access to resources that are required by
// different verification types; the bid and attestation verifiers share the
// clock, forkchoice and the equivocation caches.
type sharedResources struct {
	clock    *startup.Clock
	fc       Forkchoicer
	bidCache *cache.ExecutionPayloadBidCache
	attCache *cache.PayloadAttestationCache
	bidPool  *cache.ExecutionPayloadBidPool
	envCache *cache.SeenEnvelopeCache
}

// Initializer is used to create different Verifiers. Verifiers require
// access to stateful data structures, like caches, and it is Initializer's
// job to provide access to those.
type Initializer struct {
	shared *sharedResources
}

// NewInitializer assembles the shared resources for verifier construction.
func NewInitializer(clock *startup.Clock, fc Forkchoicer, bidCache *cache.ExecutionPayloadBidCache, attCache *cache.PayloadAttestationCache, bidPool *cache.ExecutionPayloadBidPool, envCache *cache.SeenEnvelopeCache) *Initializer {
	return &Initializer{shared: &sharedResources{
		clock:    clock,
		fc:       fc,
		bidCache: bidCache,
		attCache: attCache,
		bidPool:  bidPool,
		envCache: envCache,
	}}
}

// NewBidVerifier creates a BidVerifier for a single signed bid, with the
// given set of requirements.
func (ini *Initializer) NewBidVerifier(bid gloas.ROBid, st *state.BeaconState, reqs []Requirement) *BidVerifier {
	return &BidVerifier{
		sharedResources: ini.shared,
		results:         newResults(reqs...),
		bid:             bid,
		st:              st,
	}
}

// NewEnvelopeVerifier creates an EnvelopeVerifier for a single signed
// execution payload envelope, with the given set of requirements.
func (ini *Initializer) NewEnvelopeVerifier(env gloas.ROEnvelope, st *state.BeaconState, reqs []Requirement) *EnvelopeVerifier {
	return &EnvelopeVerifier{
		sharedResources: ini.shared,
		results:         newResults(reqs...),
		env:             env,
		st:              st,
	}
}

// NewPayloadAttestationMsgVerifier creates a PayloadAttMsgVerifier for a
// single payload attestation message, with the given set of requirements.
func (ini *Initializer) NewPayloadAttestationMsgVerifier(pa payloadattestation.ROMessage, st *state.BeaconState, reqs []Requirement) *PayloadAttMsgVerifier {
	return &PayloadAttMsgVerifier{
		sharedResources: ini.shared,
		results:         newResults(reqs...),
		pa:              pa,
		st:              st,
	}
}
