package gloas

import (
	"github.com/dapplion/gloas/beacon-chain/state"
	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/encoding/bytesutil"
)

// ExpectedWithdrawals returns the withdrawals the next revealed payload must
// carry: the head of the builder pending withdrawal queue, capped per
// payload, with consecutive withdrawal indices. The amount is capped at the
// builder's current balance, so an over-committed builder pays out at most
// what it holds.
func ExpectedWithdrawals(st *state.BeaconState) []*gloastypes.Withdrawal {
	pending := st.BuilderPendingWithdrawals()
	n := len(pending)
	if n > fieldparams.MaxWithdrawalsPerPayload {
		n = fieldparams.MaxWithdrawalsPerPayload
	}

	withdrawals := make([]*gloastypes.Withdrawal, 0, n)
	nextIdx := st.NextWithdrawalIndex()
	for i := 0; i < n; i++ {
		w := pending[i]
		amount := w.Amount
		if builder, err := st.BuilderAtIndex(w.BuilderIndex); err == nil && builder.Balance < amount {
			amount = builder.Balance
		}
		withdrawals = append(withdrawals, &gloastypes.Withdrawal{
			Index:          nextIdx,
			ValidatorIndex: primitives.ValidatorIndex(w.BuilderIndex),
			Address:        bytesutil.SafeCopyBytes(w.FeeRecipient),
			Amount:         uint64(amount),
		})
		nextIdx++
	}
	return withdrawals
}

// applyWithdrawals debits the paying builders, pops the consumed queue
// entries and advances the withdrawal index. The withdrawals argument must
// be the ExpectedWithdrawals list for the same state.
func applyWithdrawals(st *state.BeaconState, withdrawals []*gloastypes.Withdrawal) {
	for _, w := range withdrawals {
		// The in-queue entry identifies the builder; Amount is already
		// capped at its balance.
		_ = st.DecreaseBuilderBalance(primitives.BuilderIndex(w.ValidatorIndex), primitives.Gwei(w.Amount))
	}
	st.DequeueBuilderPendingWithdrawals(len(withdrawals))
	st.SetNextWithdrawalIndex(st.NextWithdrawalIndex() + uint64(len(withdrawals)))
}
