package gloas

import (
	"math"
	"testing"

	"github.com/dapplion/gloas/beacon-chain/core/signing"
	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/config/params"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/testing/require"
	"github.com/dapplion/gloas/testing/util"
)

func TestProcessExecutionPayloadBid_CommitsBidAndQueuesPayment(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	builderKey := util.DeterministicKeys(t, 16)[10]
	builderIdx := util.RegisterBuilder(t, st, builderKey, 1000)

	signed := util.SignedBidForState(t, st, builderKey, builderIdx, 500)
	require.NoError(t, ProcessExecutionPayloadBid(st, signed, 0))

	require.DeepEqual(t, signed.Message, st.LatestExecutionPayloadBid())

	windowIdx := uint64(fieldparams.SlotsPerEpoch) + uint64(st.Slot()%params.BeaconConfig().SlotsPerEpoch)
	payment, err := st.BuilderPendingPayment(windowIdx)
	require.NoError(t, err)
	require.Equal(t, primitives.Gwei(500), payment.Withdrawal.Amount)
	require.Equal(t, builderIdx, payment.Withdrawal.BuilderIndex)
	require.Equal(t, primitives.Gwei(0), payment.Weight)

	proposer, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	require.DeepEqual(t, proposer.WithdrawalCredentials[12:], payment.Withdrawal.FeeRecipient)
}

func TestProcessExecutionPayloadBid_BindingChecks(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	builderKey := util.DeterministicKeys(t, 16)[10]
	builderIdx := util.RegisterBuilder(t, st, builderKey, 1000)

	t.Run("slot mismatch", func(t *testing.T) {
		signed := util.SignedBidForState(t, st, builderKey, builderIdx, 100)
		signed.Message.Slot = st.Slot() + 1
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrBidSlotMismatch)
	})
	t.Run("parent hash mismatch", func(t *testing.T) {
		signed := util.SignedBidForState(t, st, builderKey, builderIdx, 100)
		signed.Message.ParentBlockHash[0] ^= 0xff
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrBidParentHashMismatch)
	})
	t.Run("parent root mismatch", func(t *testing.T) {
		signed := util.SignedBidForState(t, st, builderKey, builderIdx, 100)
		signed.Message.ParentBlockRoot[0] ^= 0xff
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrBidParentRootMismatch)
	})
	t.Run("reserved payment not zero", func(t *testing.T) {
		signed := util.SignedBidForState(t, st, builderKey, builderIdx, 100)
		signed.Message.ExecutionPayment = 1
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrNonZeroReservedPayment)
	})
}

func TestProcessExecutionPayloadBid_SelfBuild(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)

	signed := util.SelfBuildBid(t, st)
	require.NoError(t, ProcessExecutionPayloadBid(st, signed, 0))
	require.Equal(t, primitives.SelfBuilderIndex, st.LatestExecutionPayloadBid().BuilderIndex)

	// No payment is queued for a self-build commitment.
	windowIdx := uint64(fieldparams.SlotsPerEpoch) + uint64(st.Slot()%params.BeaconConfig().SlotsPerEpoch)
	payment, err := st.BuilderPendingPayment(windowIdx)
	require.NoError(t, err)
	require.Equal(t, primitives.Gwei(0), payment.Withdrawal.Amount)
}

func TestProcessExecutionPayloadBid_SelfBuildRejectsValueAndSignature(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)

	signed := util.SelfBuildBid(t, st)
	signed.Message.Value = 1
	require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrSelfBuildNonZeroValue)

	signed = util.SelfBuildBid(t, st)
	signed.Signature = make([]byte, fieldparams.BLSSignatureLength)
	require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrSelfBuildSignature)
}

func TestProcessExecutionPayloadBid_BuilderChecks(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	builderKey := util.DeterministicKeys(t, 16)[10]
	builderIdx := util.RegisterBuilder(t, st, builderKey, 1000)

	t.Run("unknown builder", func(t *testing.T) {
		signed := util.SignedBidForState(t, st, builderKey, 99, 100)
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrUnknownBuilder)
	})
	t.Run("withdrawing builder is inactive", func(t *testing.T) {
		exitingKey := util.DeterministicKeys(t, 16)[11]
		exitingIdx := util.RegisterBuilder(t, st, exitingKey, 1000)
		require.NoError(t, st.SetBuilderWithdrawableEpoch(exitingIdx, 5))
		signed := util.SignedBidForState(t, st, exitingKey, exitingIdx, 100)
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrBuilderInactive)
	})
	t.Run("unfinalized deposit is inactive", func(t *testing.T) {
		freshKey := util.DeterministicKeys(t, 16)[12]
		freshIdx := st.AppendBuilder(&gloastypes.Builder{
			PublicKey:         freshKey.PublicKey().Marshal(),
			ExecutionAddress:  make([]byte, fieldparams.FeeRecipientLength),
			Balance:           1000,
			DepositEpoch:      1, // not behind the finalized epoch yet
			WithdrawableEpoch: params.BeaconConfig().FarFutureEpoch,
		}, 0)
		signed := util.SignedBidForState(t, st, freshKey, freshIdx, 100)
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrBuilderInactive)
	})
	t.Run("value exceeds balance", func(t *testing.T) {
		signed := util.SignedBidForState(t, st, builderKey, builderIdx, 1001)
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrInsufficientBuilderBalance)
	})
	t.Run("pending obligations count against the balance", func(t *testing.T) {
		st, _ := util.DeterministicGenesisState(t, 8)
		idx := util.RegisterBuilder(t, st, builderKey, 1000)
		st.AppendBuilderPendingWithdrawal(&gloastypes.BuilderPendingWithdrawal{
			FeeRecipient: make([]byte, fieldparams.FeeRecipientLength),
			Amount:       600,
			BuilderIndex: idx,
		})
		signed := util.SignedBidForState(t, st, builderKey, idx, 500)
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrInsufficientBuilderBalance)

		signed = util.SignedBidForState(t, st, builderKey, idx, 400)
		require.NoError(t, ProcessExecutionPayloadBid(st, signed, 0))
	})
	t.Run("value plus obligations cannot wrap", func(t *testing.T) {
		st, _ := util.DeterministicGenesisState(t, 8)
		idx := util.RegisterBuilder(t, st, builderKey, 1000)
		st.AppendBuilderPendingWithdrawal(&gloastypes.BuilderPendingWithdrawal{
			FeeRecipient: make([]byte, fieldparams.FeeRecipientLength),
			Amount:       100,
			BuilderIndex: idx,
		})
		// A value chosen so that value + obligations overflows uint64 to a
		// number below the balance.
		signed := util.SignedBidForState(t, st, builderKey, idx, primitives.Gwei(math.MaxUint64-99))
		require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), ErrInsufficientBuilderBalance)
	})
}

func TestProcessExecutionPayloadBid_SignatureVerified(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	keys := util.DeterministicKeys(t, 16)
	builderIdx := util.RegisterBuilder(t, st, keys[10], 1000)

	// Signed by a key other than the registered builder key.
	signed := util.SignedBidForState(t, st, keys[11], builderIdx, 100)
	require.ErrorIs(t, ProcessExecutionPayloadBid(st, signed, 0), signing.ErrSigFailedToVerify)
}
