// Package slots includes ticker and timer-related functionality for slots.
package slots

import (
	"time"

	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/pkg/errors"
)

// ToEpoch returns the epoch number of the input slot.
//
// Spec pseudocode definition:
//
//	def compute_epoch_at_slot(slot: Slot) -> Epoch:
//	  """
//	  Return the epoch number at ``slot``.
//	  """
//	  return Epoch(slot // SLOTS_PER_EPOCH)
func ToEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(slot.Div(uint64(params.BeaconConfig().SlotsPerEpoch)))
}

// EpochStart returns the first slot number of the
// current epoch.
//
// Spec pseudocode definition:
//
//	def compute_start_slot_at_epoch(epoch: Epoch) -> Slot:
//	  """
//	  Return the start slot of ``epoch``.
//	  """
//	  return Slot(epoch * SLOTS_PER_EPOCH)
func EpochStart(epoch primitives.Epoch) (primitives.Slot, error) {
	slot := primitives.Slot(uint64(epoch) * uint64(params.BeaconConfig().SlotsPerEpoch))
	if uint64(epoch) != 0 && uint64(slot)/uint64(params.BeaconConfig().SlotsPerEpoch) != uint64(epoch) {
		return 0, errors.Errorf("start slot calculation overflows: %d", epoch)
	}
	return slot, nil
}

// EpochEnd returns the last slot number of the current epoch.
func EpochEnd(epoch primitives.Epoch) (primitives.Slot, error) {
	s, err := EpochStart(epoch + 1)
	if err != nil {
		return 0, err
	}
	return s - 1, nil
}

// IsEpochStart returns true if the given slot number is an epoch starting slot
// number.
func IsEpochStart(slot primitives.Slot) bool {
	return slot%params.BeaconConfig().SlotsPerEpoch == 0
}

// IsEpochEnd returns true if the given slot number is an epoch ending slot
// number.
func IsEpochEnd(slot primitives.Slot) bool {
	return IsEpochStart(slot + 1)
}

// SinceGenesis returns the number of slots since the provided genesis time.
func SinceGenesis(genesis time.Time) primitives.Slot {
	if genesis.After(time.Now()) { // Genesis has not occurred yet.
		return 0
	}
	return primitives.Slot(uint64(time.Since(genesis).Seconds()) / params.BeaconConfig().SecondsPerSlot)
}

// CurrentSlot returns the current slot as determined by the local clock and
// provided genesis time.
func CurrentSlot(genesisTimeSec uint64) primitives.Slot {
	now := time.Now().Unix()
	genesis := int64(genesisTimeSec) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
	if now < genesis {
		return 0
	}
	return primitives.Slot(uint64(now-genesis) / params.BeaconConfig().SecondsPerSlot)
}

// StartTime returns the start time in terms of its unix epoch
// value.
func StartTime(genesisTimeSec uint64, slot primitives.Slot) time.Time {
	duration := time.Second * time.Duration(uint64(slot)*params.BeaconConfig().SecondsPerSlot)
	startTime := time.Unix(int64(genesisTimeSec), 0).Add(duration) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
	return startTime
}

// BeginsAt computes the timestamp where the given slot begins, relative to
// the genesis timestamp.
func BeginsAt(slot primitives.Slot, genesis time.Time) time.Time {
	sd := time.Second * time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Duration(slot)
	return genesis.Add(sd)
}

// Duration computes the span of time between two instants, represented as
// Slots.
func Duration(start, end time.Time) primitives.Slot {
	if end.Before(start) {
		return 0
	}
	return primitives.Slot(uint64(end.Unix()-start.Unix()) / params.BeaconConfig().SecondsPerSlot)
}

// IntervalDuration returns the duration of a single intra-slot interval once
// the slot is divided into the four intervals this fork uses.
func IntervalDuration() time.Duration {
	cfg := params.BeaconConfig()
	return time.Duration(cfg.SecondsPerSlot) * time.Second / time.Duration(cfg.IntervalsPerSlotGloas)
}

// WithinDisparityWindow reports whether now falls inside the slot's span
// widened by the maximum gossip clock disparity on both sides.
func WithinDisparityWindow(now time.Time, genesisTimeSec uint64, slot primitives.Slot) bool {
	disparity := params.BeaconConfig().MaximumGossipClockDisparity()
	startTime := StartTime(genesisTimeSec, slot)
	endTime := StartTime(genesisTimeSec, slot+1)
	return now.After(startTime.Add(-disparity)) && now.Before(endTime.Add(disparity))
}
