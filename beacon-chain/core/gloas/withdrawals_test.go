package gloas

import (
	"testing"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/testing/require"
	"github.com/dapplion/gloas/testing/util"
)

func TestExpectedWithdrawals_CapsAmountAtBuilderBalance(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 4)
	key := util.DeterministicKeys(t, 16)[10]
	idx := util.RegisterBuilder(t, st, key, 400)
	st.AppendBuilderPendingWithdrawal(&gloastypes.BuilderPendingWithdrawal{
		FeeRecipient: make([]byte, fieldparams.FeeRecipientLength),
		Amount:       1000, // more than the builder holds
		BuilderIndex: idx,
	})

	withdrawals := ExpectedWithdrawals(st)
	require.Equal(t, 1, len(withdrawals))
	require.Equal(t, uint64(400), withdrawals[0].Amount)
	require.Equal(t, primitives.ValidatorIndex(idx), withdrawals[0].ValidatorIndex)
	require.Equal(t, st.NextWithdrawalIndex(), withdrawals[0].Index)
}

func TestExpectedWithdrawals_CapsCountPerPayload(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 4)
	key := util.DeterministicKeys(t, 16)[10]
	idx := util.RegisterBuilder(t, st, key, 1_000_000)
	for i := 0; i < fieldparams.MaxWithdrawalsPerPayload+5; i++ {
		st.AppendBuilderPendingWithdrawal(&gloastypes.BuilderPendingWithdrawal{
			FeeRecipient: make([]byte, fieldparams.FeeRecipientLength),
			Amount:       1,
			BuilderIndex: idx,
		})
	}

	withdrawals := ExpectedWithdrawals(st)
	require.Equal(t, fieldparams.MaxWithdrawalsPerPayload, len(withdrawals))
	for i, w := range withdrawals {
		require.Equal(t, st.NextWithdrawalIndex()+uint64(i), w.Index)
	}
}

func TestApplyWithdrawals_DebitsAndDequeues(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 4)
	key := util.DeterministicKeys(t, 16)[10]
	idx := util.RegisterBuilder(t, st, key, 1000)
	st.AppendBuilderPendingWithdrawal(&gloastypes.BuilderPendingWithdrawal{
		FeeRecipient: make([]byte, fieldparams.FeeRecipientLength),
		Amount:       300,
		BuilderIndex: idx,
	})

	withdrawals := ExpectedWithdrawals(st)
	applyWithdrawals(st, withdrawals)

	builder, err := st.BuilderAtIndex(idx)
	require.NoError(t, err)
	require.Equal(t, primitives.Gwei(700), builder.Balance)
	require.Equal(t, 0, len(st.BuilderPendingWithdrawals()))
	require.Equal(t, uint64(1), st.NextWithdrawalIndex())
}
