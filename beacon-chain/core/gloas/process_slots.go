package gloas

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/time/slots"
)

// ErrSlotBehindState is returned when a state is asked to advance backwards.
var ErrSlotBehindState = errors.New("target slot is behind state slot")

// ProcessSlots advances the state to the target slot. Each advance backfills
// the cached header's state root, clears the availability bit of the
// incoming slot before any judgment can land on it, and runs payment
// settlement when the advance crosses an epoch boundary.
func ProcessSlots(ctx context.Context, st *state.BeaconState, target primitives.Slot) error {
	_, span := trace.StartSpan(ctx, "gloas.ProcessSlots")
	defer span.End()

	if st == nil {
		return state.ErrNilState
	}
	if target < st.Slot() {
		return errors.Wrapf(ErrSlotBehindState, "state slot %d, target %d", st.Slot(), target)
	}
	for st.Slot() < target {
		if err := processSlot(st); err != nil {
			return err
		}
		if slots.IsEpochStart(st.Slot()) {
			if err := ProcessBuilderPendingPayments(st); err != nil {
				return err
			}
		}
	}
	return nil
}

func processSlot(st *state.BeaconState) error {
	if err := backfillHeaderStateRoot(st); err != nil {
		return err
	}
	next := st.Slot() + 1
	st.SetSlot(next)
	// The bit must start cleared; a quorum during the slot is the only
	// thing that may set it.
	st.UpdateExecutionPayloadAvailability(next, false)
	return nil
}
