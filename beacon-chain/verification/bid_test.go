package verification

import (
	"errors"
	"testing"
	"time"

	"github.com/dapplion/gloas/beacon-chain/cache"
	"github.com/dapplion/gloas/beacon-chain/startup"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
	"github.com/dapplion/gloas/encoding/bytesutil"
	"github.com/dapplion/gloas/testing/require"
	"github.com/dapplion/gloas/testing/util"
)

type mockForkchoicer struct {
	headRoot  [32]byte
	hasNode   bool
	finalized *gloas.Checkpoint
}

func (m *mockForkchoicer) HeadRoot() [32]byte                     { return m.headRoot }
func (m *mockForkchoicer) HasNode([32]byte) bool                  { return m.hasNode }
func (m *mockForkchoicer) FinalizedCheckpoint() *gloas.Checkpoint { return m.finalized }

func genesisClock() *startup.Clock {
	genesis := time.Unix(0, 0)
	return startup.NewClock(genesis, [32]byte{}, startup.WithNower(func() time.Time { return genesis }))
}

// bidTestSetup returns a state with one funded builder, a bid from it, and
// an initializer whose forkchoice treats the bid's parent as head.
func bidTestSetup(t *testing.T, value primitives.Gwei) (*Initializer, *state.BeaconState, gloas.ROBid, bls.SecretKey) {
	st, _ := util.DeterministicGenesisState(t, 8)
	builderKey := util.DeterministicKeys(t, 16)[10]
	builderIdx := util.RegisterBuilder(t, st, builderKey, 1000)
	signed := util.SignedBidForState(t, st, builderKey, builderIdx, value)
	bid, err := gloas.NewROBid(signed)
	require.NoError(t, err)

	ini := NewInitializer(
		genesisClock(),
		&mockForkchoicer{headRoot: bid.ParentBlockRoot(), hasNode: true, finalized: st.FinalizedCheckpoint()},
		cache.NewExecutionPayloadBidCache(),
		cache.NewPayloadAttestationCache(),
		cache.NewExecutionPayloadBidPool(),
		cache.NewSeenEnvelopeCache(),
	)
	return ini, st, bid, builderKey
}

func TestBidVerifier_VerifyCurrentOrNextSlot(t *testing.T) {
	ini, st, bid, builderKey := bidTestSetup(t, 100)

	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyCurrentOrNextSlot())
	require.Equal(t, true, v.results.executed(RequireCurrentOrNextSlot))
	require.NoError(t, v.results.result(RequireCurrentOrNextSlot))

	st.SetSlot(2)
	stale := util.SignedBidForState(t, st, builderKey, bid.BuilderIndex(), 100)
	st.SetSlot(0)
	staleBid, err := gloas.NewROBid(stale)
	require.NoError(t, err)
	v = ini.NewBidVerifier(staleBid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifyCurrentOrNextSlot(), ErrIncorrectBidSlot)
	require.Equal(t, true, v.results.executed(RequireCurrentOrNextSlot))
	require.NotNil(t, v.results.result(RequireCurrentOrNextSlot))

	// A bid for the slot after next is acceptable inside the clock
	// disparity window just before the slot boundary.
	genesis := time.Unix(0, 0)
	slotDuration := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	early := genesis.Add(2 * slotDuration).Add(-100 * time.Millisecond)
	ini.shared.clock = startup.NewClock(genesis, [32]byte{}, startup.WithNower(func() time.Time { return early }))
	st.SetSlot(3)
	ahead := util.SignedBidForState(t, st, builderKey, bid.BuilderIndex(), 100)
	st.SetSlot(0)
	aheadBid, err := gloas.NewROBid(ahead)
	require.NoError(t, err)
	v = ini.NewBidVerifier(aheadBid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyCurrentOrNextSlot())
}

func TestBidVerifier_VerifyZeroReservedPayment(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 100)

	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyZeroReservedPayment())

	bid.Bid().ExecutionPayment = 5
	v = ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifyZeroReservedPayment(), ErrReservedPaymentNonZero)
}

func TestBidVerifier_VerifyBuilderActive(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 100)

	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyBuilderActive())

	require.NoError(t, st.SetBuilderWithdrawableEpoch(bid.BuilderIndex(), 4))
	v = ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifyBuilderActive(), ErrBuilderInactive)
}

func TestBidVerifier_VerifyBuilderSufficientBalance(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 1001)
	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifyBuilderSufficientBalance(), ErrBuilderInsufficientBalance)

	ini, st, bid, _ = bidTestSetup(t, 1000)
	v = ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyBuilderSufficientBalance())
}

func TestBidVerifier_VerifyNoEquivocation(t *testing.T) {
	ini, st, bid, builderKey := bidTestSetup(t, 100)

	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyNoEquivocation())

	// The check records nothing, so repeating it still passes.
	v = ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyNoEquivocation())

	// Once the sighting is recorded the same bid is a duplicate, not an
	// equivocation.
	ini.shared.bidCache.Observe(bid.BuilderIndex(), bid.Slot(), bid.Root())
	v = ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifyNoEquivocation(), ErrDuplicateBid)

	// A conflicting bid from the same builder for the slot equivocates.
	conflicting := util.SignedBidForState(t, st, builderKey, bid.BuilderIndex(), 999)
	conflictingBid, err := gloas.NewROBid(conflicting)
	require.NoError(t, err)
	v = ini.NewBidVerifier(conflictingBid, st, GossipBidRequirements)
	err = v.VerifyNoEquivocation()
	require.ErrorIs(t, err, ErrBidEquivocation)
	var evErr *BidEquivocationError
	require.Equal(t, true, errors.As(err, &evErr))
	require.Equal(t, bid.Root(), evErr.Existing)
	require.Equal(t, conflictingBid.Root(), evErr.Observed)
}

func TestBidVerifier_VerifyKnownParentBlockRoot(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 100)
	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyKnownParentBlockRoot())

	ini.shared.fc = &mockForkchoicer{headRoot: bytesutil.ToBytes32([]byte("other")), hasNode: true}
	v = ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifyKnownParentBlockRoot(), ErrUnknownParentBlockRoot)
}

func TestBidVerifier_VerifySignature(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 100)
	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifySignature())

	wrongKey := util.DeterministicKeys(t, 16)[11]
	forged := util.SignedBidForState(t, st, wrongKey, bid.BuilderIndex(), 100)
	forgedBid, err := gloas.NewROBid(forged)
	require.NoError(t, err)
	v = ini.NewBidVerifier(forgedBid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifySignature(), ErrInvalidBidSignature)
}

func TestBidVerifier_VerifiedROBid(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 100)

	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyCurrentOrNextSlot())
	require.NoError(t, v.VerifyZeroReservedPayment())
	require.NoError(t, v.VerifyBuilderActive())
	require.NoError(t, v.VerifyBuilderSufficientBalance())
	require.NoError(t, v.VerifyNoEquivocation())
	require.NoError(t, v.VerifyKnownParentBlockRoot())
	require.NoError(t, v.VerifySignature())

	verified, err := v.VerifiedROBid()
	require.NoError(t, err)
	require.Equal(t, bid.Root(), verified.Root())

	// The verified bid landed in the pool for block production.
	best, ok := ini.shared.bidPool.BestBid(bid.Slot())
	require.Equal(t, true, ok)
	require.Equal(t, bid.Root(), best.Root())

	// The sighting was recorded at the upgrade: the same bid now reads as
	// a duplicate.
	v = ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifyNoEquivocation(), ErrDuplicateBid)
}

func TestBidVerifier_FailedBidDoesNotPoisonBuilder(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 100)

	// A forged bid under the builder's index passes every keyless check
	// but fails signature verification; it must leave no trace in the
	// equivocation cache.
	wrongKey := util.DeterministicKeys(t, 16)[11]
	forged := util.SignedBidForState(t, st, wrongKey, bid.BuilderIndex(), 999)
	forgedBid, err := gloas.NewROBid(forged)
	require.NoError(t, err)
	fv := ini.NewBidVerifier(forgedBid, st, GossipBidRequirements)
	require.NoError(t, fv.VerifyCurrentOrNextSlot())
	require.NoError(t, fv.VerifyZeroReservedPayment())
	require.NoError(t, fv.VerifyBuilderActive())
	require.NoError(t, fv.VerifyBuilderSufficientBalance())
	require.NoError(t, fv.VerifyNoEquivocation())
	require.NoError(t, fv.VerifyKnownParentBlockRoot())
	require.ErrorIs(t, fv.VerifySignature(), ErrInvalidBidSignature)
	_, err = fv.VerifiedROBid()
	require.ErrorIs(t, err, ErrBidInvalid)

	// The builder's genuine bid still verifies and upgrades; it is not
	// classified as an equivocation against the forgery.
	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyCurrentOrNextSlot())
	require.NoError(t, v.VerifyZeroReservedPayment())
	require.NoError(t, v.VerifyBuilderActive())
	require.NoError(t, v.VerifyBuilderSufficientBalance())
	require.NoError(t, v.VerifyNoEquivocation())
	require.NoError(t, v.VerifyKnownParentBlockRoot())
	require.NoError(t, v.VerifySignature())
	_, err = v.VerifiedROBid()
	require.NoError(t, err)
}

func TestBidVerifier_VerifiedROBidRequiresAllChecks(t *testing.T) {
	ini, st, bid, _ := bidTestSetup(t, 100)

	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyCurrentOrNextSlot())

	_, err := v.VerifiedROBid()
	require.ErrorIs(t, err, ErrBidInvalid)
	me, ok := err.(VerificationMultiError)
	require.Equal(t, true, ok)
	require.ErrorIs(t, me.Failures()[RequireBidSignatureValid], ErrMissingVerification)

	// Nothing lands in the pool on a failed upgrade.
	_, ok = ini.shared.bidPool.BestBid(bid.Slot())
	require.Equal(t, false, ok)
}

func TestBidVerifier_SelfBuild(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	signed := util.SelfBuildBid(t, st)
	bid, err := gloas.NewROBid(signed)
	require.NoError(t, err)
	require.Equal(t, true, bid.IsSelfBuild())

	ini := NewInitializer(
		genesisClock(),
		&mockForkchoicer{headRoot: bid.ParentBlockRoot(), hasNode: true, finalized: st.FinalizedCheckpoint()},
		cache.NewExecutionPayloadBidCache(),
		cache.NewPayloadAttestationCache(),
		cache.NewExecutionPayloadBidPool(),
		cache.NewSeenEnvelopeCache(),
	)
	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.NoError(t, v.VerifyCurrentOrNextSlot())
	require.NoError(t, v.VerifyZeroReservedPayment())
	require.NoError(t, v.VerifySelfBuild())
	require.NoError(t, v.VerifyNoEquivocation())
	require.NoError(t, v.VerifyKnownParentBlockRoot())

	_, err = v.VerifiedROBid()
	require.NoError(t, err)
}

func TestBidVerifier_SelfBuildRejectsValue(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	signed := util.SelfBuildBid(t, st)
	signed.Message.Value = 3
	bid, err := gloas.NewROBid(signed)
	require.NoError(t, err)

	ini := NewInitializer(genesisClock(), &mockForkchoicer{}, cache.NewExecutionPayloadBidCache(), cache.NewPayloadAttestationCache(), cache.NewExecutionPayloadBidPool(), cache.NewSeenEnvelopeCache())
	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifySelfBuild(), ErrSelfBuildValue)
}

func TestBidVerifier_SelfBuildRejectsRealSignature(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	key := util.DeterministicKeys(t, 16)[10]
	signed := util.SelfBuildBid(t, st)
	signed.Signature = key.Sign(make([]byte, 32)).Marshal()
	bid, err := gloas.NewROBid(signed)
	require.NoError(t, err)

	ini := NewInitializer(genesisClock(), &mockForkchoicer{}, cache.NewExecutionPayloadBidCache(), cache.NewPayloadAttestationCache(), cache.NewExecutionPayloadBidPool(), cache.NewSeenEnvelopeCache())
	v := ini.NewBidVerifier(bid, st, GossipBidRequirements)
	require.ErrorIs(t, v.VerifySelfBuild(), ErrSelfBuildSignature)
}

func TestRequirementString(t *testing.T) {
	require.Equal(t, "RequireBidSignatureValid", RequireBidSignatureValid.String())
	require.Equal(t, "RequireValidatorInPTC", RequireValidatorInPTC.String())
	require.Equal(t, "unknown requirement", Requirement(1000).String())
}
