package gloas

import (
	log "github.com/sirupsen/logrus"

	"github.com/dapplion/gloas/beacon-chain/state"
	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/config/params"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/time/slots"
)

// ProcessBuilderPendingPayments settles the elapsed epoch's half of the
// payment window and rotates the window. An entry settles when its accrued
// attestation weight reaches the per-slot balance quorum; settling pushes
// the withdrawal onto the pending queue for release in a later payload.
// This arithmetic is part of the state root and must be byte-identical
// across implementations.
func ProcessBuilderPendingPayments(st *state.BeaconState) error {
	if st == nil {
		return state.ErrNilState
	}
	cfg := params.BeaconConfig()
	perSlotBalance := uint64(st.TotalActiveBalance(slots.ToEpoch(st.Slot()))) / uint64(cfg.SlotsPerEpoch)
	quorum := primitives.Gwei(perSlotBalance * cfg.BuilderPaymentThresholdNumerator / cfg.BuilderPaymentThresholdDenominator)

	payments := st.BuilderPendingPayments()
	settled := 0
	for _, p := range payments[:fieldparams.SlotsPerEpoch] {
		if p.Weight >= quorum && p.Withdrawal.Amount > 0 {
			st.AppendBuilderPendingWithdrawal(p.Withdrawal)
			settled++
		}
	}
	if err := st.SetBuilderPendingPayments(rotatePayments(payments)); err != nil {
		return err
	}
	if settled > 0 {
		log.WithFields(log.Fields{
			"epoch":   slots.ToEpoch(st.Slot()),
			"settled": settled,
		}).Debug("Settled builder pending payments")
	}
	return nil
}

// rotatePayments shifts the next-epoch half of the window into the elapsed
// half and zero-fills the vacated tail.
func rotatePayments(payments []*gloastypes.BuilderPendingPayment) []*gloastypes.BuilderPendingPayment {
	rotated := make([]*gloastypes.BuilderPendingPayment, fieldparams.BuilderPendingPaymentsLength)
	copy(rotated, payments[fieldparams.SlotsPerEpoch:])
	for i := fieldparams.SlotsPerEpoch; i < fieldparams.BuilderPendingPaymentsLength; i++ {
		rotated[i] = &gloastypes.BuilderPendingPayment{
			Withdrawal: &gloastypes.BuilderPendingWithdrawal{
				FeeRecipient: make([]byte, fieldparams.FeeRecipientLength),
			},
		}
	}
	return rotated
}
