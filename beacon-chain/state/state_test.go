package state

import (
	"testing"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/testing/require"
)

func testBuilder(balance primitives.Gwei) *gloas.Builder {
	return &gloas.Builder{
		PublicKey:         make([]byte, fieldparams.BLSPubkeyLength),
		ExecutionAddress:  make([]byte, fieldparams.FeeRecipientLength),
		Balance:           balance,
		DepositEpoch:      0,
		WithdrawableEpoch: params.BeaconConfig().FarFutureEpoch,
	}
}

func testValidator(activation, exit primitives.Epoch) *gloas.Validator {
	return &gloas.Validator{
		PublicKey:             make([]byte, fieldparams.BLSPubkeyLength),
		WithdrawalCredentials: make([]byte, fieldparams.RootLength),
		EffectiveBalance:      params.BeaconConfig().MaxEffectiveBalance,
		ActivationEpoch:       activation,
		ExitEpoch:             exit,
		WithdrawableEpoch:     params.BeaconConfig().FarFutureEpoch,
	}
}

func TestCopy_IsolatesMutations(t *testing.T) {
	st := New(0, [32]byte{1})
	st.AppendValidator(testValidator(0, params.BeaconConfig().FarFutureEpoch), 32e9)
	idx := st.AppendBuilder(testBuilder(1000), 0)

	cp := st.Copy()
	require.NoError(t, cp.IncreaseBuilderBalance(idx, 500))
	cp.SetSlot(7)
	cp.UpdateExecutionPayloadAvailability(3, true)
	cp.SetLatestBlockHeaderStateRoot([32]byte{0xff})

	builder, err := st.BuilderAtIndex(idx)
	require.NoError(t, err)
	require.Equal(t, primitives.Gwei(1000), builder.Balance)
	require.Equal(t, primitives.Slot(0), st.Slot())
	require.Equal(t, false, st.ExecutionPayloadAvailability(3))
	require.DeepEqual(t, make([]byte, fieldparams.RootLength), st.LatestBlockHeader().StateRoot)
}

func TestCopy_RootsMatch(t *testing.T) {
	st := New(12345, [32]byte{2})
	st.AppendValidator(testValidator(0, params.BeaconConfig().FarFutureEpoch), 32e9)
	st.AppendBuilder(testBuilder(500), 0)

	r1, err := st.HashTreeRoot()
	require.NoError(t, err)
	r2, err := st.Copy().HashTreeRoot()
	require.NoError(t, err)
	require.Equal(t, r1, r2)
}

func TestHashTreeRoot_ChangesWithState(t *testing.T) {
	st := New(0, [32]byte{})
	before, err := st.HashTreeRoot()
	require.NoError(t, err)

	st.SetSlot(1)
	after, err := st.HashTreeRoot()
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	st.UpdateExecutionPayloadAvailability(100, true)
	bitSet, err := st.HashTreeRoot()
	require.NoError(t, err)
	require.NotEqual(t, after, bitSet)
}

func TestIsActiveBuilder(t *testing.T) {
	st := New(0, [32]byte{})
	idx := st.AppendBuilder(testBuilder(1000), 0)

	// Finalized epoch is still zero: the deposit is not finalized.
	active, err := st.IsActiveBuilder(idx)
	require.NoError(t, err)
	require.Equal(t, false, active)

	st.SetFinalizedCheckpoint(&gloas.Checkpoint{Epoch: 1, Root: make([]byte, 32)})
	active, err = st.IsActiveBuilder(idx)
	require.NoError(t, err)
	require.Equal(t, true, active)

	// An initiated withdrawal deactivates the builder.
	require.NoError(t, st.SetBuilderWithdrawableEpoch(idx, 9))
	active, err = st.IsActiveBuilder(idx)
	require.NoError(t, err)
	require.Equal(t, false, active)

	_, err = st.IsActiveBuilder(99)
	require.NotNil(t, err)
}

func TestPendingBuilderObligations(t *testing.T) {
	st := New(0, [32]byte{})
	idx := st.AppendBuilder(testBuilder(1000), 0)
	other := st.AppendBuilder(testBuilder(1000), 0)

	require.NoError(t, st.SetBuilderPendingPayment(33, &gloas.BuilderPendingPayment{
		Withdrawal: &gloas.BuilderPendingWithdrawal{
			FeeRecipient: make([]byte, 20),
			Amount:       200,
			BuilderIndex: idx,
		},
	}))
	st.AppendBuilderPendingWithdrawal(&gloas.BuilderPendingWithdrawal{
		FeeRecipient: make([]byte, 20),
		Amount:       150,
		BuilderIndex: idx,
	})
	st.AppendBuilderPendingWithdrawal(&gloas.BuilderPendingWithdrawal{
		FeeRecipient: make([]byte, 20),
		Amount:       999,
		BuilderIndex: other,
	})

	require.Equal(t, primitives.Gwei(350), st.PendingBuilderObligations(idx))
	require.Equal(t, primitives.Gwei(999), st.PendingBuilderObligations(other))
}

func TestAppendBuilder_ReusesWithdrawnSlot(t *testing.T) {
	st := New(0, [32]byte{})
	first := st.AppendBuilder(testBuilder(1000), 0)

	// Withdrawn and drained: the slot is reusable.
	require.NoError(t, st.SetBuilderWithdrawableEpoch(first, 3))
	require.NoError(t, st.DecreaseBuilderBalance(first, 1000))

	replacement := testBuilder(500)
	replacement.PublicKey[0] = 0xaa
	idx := st.AppendBuilder(replacement, 5)
	require.Equal(t, first, idx)
	require.Equal(t, 1, st.NumBuilders())

	got, err := st.BuilderAtIndex(idx)
	require.NoError(t, err)
	require.Equal(t, byte(0xaa), got.PublicKey[0])
}

func TestDecreaseBuilderBalance_FloorsAtZero(t *testing.T) {
	st := New(0, [32]byte{})
	idx := st.AppendBuilder(testBuilder(100), 0)
	require.NoError(t, st.DecreaseBuilderBalance(idx, 500))
	builder, err := st.BuilderAtIndex(idx)
	require.NoError(t, err)
	require.Equal(t, primitives.Gwei(0), builder.Balance)
}

func TestExecutionPayloadAvailability_WrapsWindow(t *testing.T) {
	st := New(0, [32]byte{})
	slot := primitives.Slot(fieldparams.ExecutionPayloadAvailabilityLength + 17)
	st.UpdateExecutionPayloadAvailability(slot, true)
	require.Equal(t, true, st.ExecutionPayloadAvailability(17))

	st.UpdateExecutionPayloadAvailability(17, false)
	require.Equal(t, false, st.ExecutionPayloadAvailability(slot))
}

func TestDequeueBuilderPendingWithdrawals(t *testing.T) {
	st := New(0, [32]byte{})
	for i := 0; i < 3; i++ {
		st.AppendBuilderPendingWithdrawal(&gloas.BuilderPendingWithdrawal{
			FeeRecipient: make([]byte, 20),
			Amount:       primitives.Gwei(i + 1),
		})
	}
	st.DequeueBuilderPendingWithdrawals(2)
	pending := st.BuilderPendingWithdrawals()
	require.Equal(t, 1, len(pending))
	require.Equal(t, primitives.Gwei(3), pending[0].Amount)

	// Over-draining empties the queue rather than panicking.
	st.DequeueBuilderPendingWithdrawals(5)
	require.Equal(t, 0, len(st.BuilderPendingWithdrawals()))
}

func TestTotalActiveBalance_FloorsAtIncrement(t *testing.T) {
	st := New(0, [32]byte{})
	require.Equal(t, primitives.Gwei(params.BeaconConfig().EffectiveBalanceIncrement), st.TotalActiveBalance(0))

	st.AppendValidator(testValidator(0, params.BeaconConfig().FarFutureEpoch), 32e9)
	st.AppendValidator(testValidator(5, params.BeaconConfig().FarFutureEpoch), 32e9) // not yet active
	require.Equal(t, primitives.Gwei(params.BeaconConfig().MaxEffectiveBalance), st.TotalActiveBalance(0))
}

func TestIsParentBlockFull(t *testing.T) {
	st := New(0, [32]byte{})
	// Genesis: the empty bid matches the zero block hash.
	require.Equal(t, true, st.IsParentBlockFull())

	bid := st.LatestExecutionPayloadBid()
	bid.BlockHash = append(make([]byte, 31), 0x7)
	st.SetLatestExecutionPayloadBid(bid)
	require.Equal(t, false, st.IsParentBlockFull())

	var h [32]byte
	copy(h[:], bid.BlockHash)
	st.SetLatestBlockHash(h)
	require.Equal(t, true, st.IsParentBlockFull())
}
