package gloas

import (
	"bytes"
	"context"
	"testing"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/testing/require"
	"github.com/dapplion/gloas/testing/util"
)

func TestProcessSlots_AdvancesAndClearsAvailability(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	// A stale bit from the historical window must be cleared when the slot
	// comes around again.
	st.UpdateExecutionPayloadAvailability(2, true)

	require.NoError(t, ProcessSlots(context.Background(), st, 3))
	require.Equal(t, primitives.Slot(3), st.Slot())
	for slot := primitives.Slot(1); slot <= 3; slot++ {
		require.Equal(t, false, st.ExecutionPayloadAvailability(slot))
	}

	// The cached header's state root was backfilled on the first advance.
	header := st.LatestBlockHeader()
	require.Equal(t, false, bytes.Equal(header.StateRoot, make([]byte, fieldparams.RootLength)))
}

func TestProcessSlots_TargetBehindState(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	st.SetSlot(5)
	require.ErrorIs(t, ProcessSlots(context.Background(), st, 2), ErrSlotBehindState)
}

func TestProcessSlots_PaymentSettlesOneEpochAfterAccrual(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 8)
	quorum := settlementQuorum(8)

	// A payment accrued at slot 5 lands in the next-epoch half.
	windowIdx := uint64(fieldparams.SlotsPerEpoch) + 5
	require.NoError(t, st.SetBuilderPendingPayment(windowIdx, paymentEntry(0, 500, quorum)))

	// Crossing the first boundary rotates the entry down without settling.
	require.NoError(t, ProcessSlots(context.Background(), st, fieldparams.SlotsPerEpoch))
	require.Equal(t, 0, len(st.BuilderPendingWithdrawals()))
	moved, err := st.BuilderPendingPayment(5)
	require.NoError(t, err)
	require.Equal(t, primitives.Gwei(500), moved.Withdrawal.Amount)

	// The second boundary settles it.
	require.NoError(t, ProcessSlots(context.Background(), st, 2*fieldparams.SlotsPerEpoch))
	pending := st.BuilderPendingWithdrawals()
	require.Equal(t, 1, len(pending))
	require.Equal(t, primitives.Gwei(500), pending[0].Amount)
}
