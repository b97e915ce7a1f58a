package state

import (
	"bytes"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
)

// GenesisTime returns the genesis unix time in seconds.
func (b *BeaconState) GenesisTime() uint64 {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.genesisTime
}

// GenesisValidatorsRoot returns the genesis validators root.
func (b *BeaconState) GenesisValidatorsRoot() [32]byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.genesisValidatorsRoot
}

// Slot returns the current consensus slot of the state.
func (b *BeaconState) Slot() primitives.Slot {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.slot
}

// Fork returns a copy of the fork data of the state.
func (b *BeaconState) Fork() *gloas.Fork {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return &gloas.Fork{
		PreviousVersion: append([]byte{}, b.fork.PreviousVersion...),
		CurrentVersion:  append([]byte{}, b.fork.CurrentVersion...),
		Epoch:           b.fork.Epoch,
	}
}

// LatestBlockHeader returns a copy of the latest beacon block header.
func (b *BeaconState) LatestBlockHeader() *gloas.BeaconBlockHeader {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return copyBlockHeader(b.latestBlockHeader)
}

// RandaoMix returns the current randao mix used to seed committee shuffling.
func (b *BeaconState) RandaoMix() [32]byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.randaoMix
}

// NumValidators returns the size of the validator registry.
func (b *BeaconState) NumValidators() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.validators)
}

// ValidatorAtIndex returns a copy of the validator at the given registry index.
func (b *BeaconState) ValidatorAtIndex(idx primitives.ValidatorIndex) (*gloas.Validator, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if uint64(idx) >= uint64(len(b.validators)) {
		return nil, errUnknownValidator
	}
	return copyValidator(b.validators[idx]), nil
}

// BalanceAtIndex returns the balance of the validator at the given index.
func (b *BeaconState) BalanceAtIndex(idx primitives.ValidatorIndex) (uint64, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if uint64(idx) >= uint64(len(b.balances)) {
		return 0, errUnknownValidator
	}
	return b.balances[idx], nil
}

// ActiveValidatorIndices returns the indices of validators active at the
// given epoch, in registry order.
func (b *BeaconState) ActiveValidatorIndices(epoch primitives.Epoch) []primitives.ValidatorIndex {
	b.lock.RLock()
	defer b.lock.RUnlock()

	indices := make([]primitives.ValidatorIndex, 0, len(b.validators))
	for i, v := range b.validators {
		if v.ActivationEpoch <= epoch && epoch < v.ExitEpoch {
			indices = append(indices, primitives.ValidatorIndex(i))
		}
	}
	return indices
}

// TotalActiveBalance returns the sum of effective balances of validators
// active at the given epoch, floored at one effective balance increment.
func (b *BeaconState) TotalActiveBalance(epoch primitives.Epoch) primitives.Gwei {
	b.lock.RLock()
	defer b.lock.RUnlock()

	total := uint64(0)
	for _, v := range b.validators {
		if v.ActivationEpoch <= epoch && epoch < v.ExitEpoch {
			total += v.EffectiveBalance
		}
	}
	if total < params.BeaconConfig().EffectiveBalanceIncrement {
		total = params.BeaconConfig().EffectiveBalanceIncrement
	}
	return primitives.Gwei(total)
}

// NumBuilders returns the size of the builder registry.
func (b *BeaconState) NumBuilders() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.builders)
}

// BuilderAtIndex returns a copy of the builder at the given registry index.
func (b *BeaconState) BuilderAtIndex(idx primitives.BuilderIndex) (*gloas.Builder, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if uint64(idx) >= uint64(len(b.builders)) {
		return nil, errUnknownBuilder
	}
	return copyBuilder(b.builders[idx]), nil
}

// BuilderPubkeyIndex returns the registry index of the builder with the
// given public key, if one exists.
func (b *BeaconState) BuilderPubkeyIndex(pubkey []byte) (primitives.BuilderIndex, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	for i, bldr := range b.builders {
		if bytes.Equal(bldr.PublicKey, pubkey) {
			return primitives.BuilderIndex(i), true
		}
	}
	return 0, false
}

// IsActiveBuilder reports whether the builder at the given index has a
// finalized deposit and has not initiated a withdrawal.
func (b *BeaconState) IsActiveBuilder(idx primitives.BuilderIndex) (bool, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if uint64(idx) >= uint64(len(b.builders)) {
		return false, errUnknownBuilder
	}
	bldr := b.builders[idx]
	active := bldr.DepositEpoch < b.finalizedCheckpoint.Epoch &&
		bldr.WithdrawableEpoch == params.BeaconConfig().FarFutureEpoch
	return active, nil
}

// PendingBuilderObligations returns the total value already promised by the
// builder at the given index across the pending payment window and the
// pending withdrawal queue.
func (b *BeaconState) PendingBuilderObligations(idx primitives.BuilderIndex) primitives.Gwei {
	b.lock.RLock()
	defer b.lock.RUnlock()

	total := primitives.Gwei(0)
	for _, p := range b.builderPendingPayments {
		if p.Withdrawal.BuilderIndex == idx && p.Withdrawal.Amount > 0 {
			total += p.Withdrawal.Amount
		}
	}
	for _, w := range b.builderPendingWithdrawals {
		if w.BuilderIndex == idx {
			total += w.Amount
		}
	}
	return total
}

// ExecutionPayloadAvailability reports whether the payload for the given
// slot was delivered within the availability window.
func (b *BeaconState) ExecutionPayloadAvailability(slot primitives.Slot) bool {
	b.lock.RLock()
	defer b.lock.RUnlock()

	idx := uint64(slot) % fieldparams.ExecutionPayloadAvailabilityLength
	return b.executionPayloadAvailability[idx/8]&(1<<(idx%8)) != 0
}

// BuilderPendingPayment returns a copy of the payment window entry at the
// given window index.
func (b *BeaconState) BuilderPendingPayment(idx uint64) (*gloas.BuilderPendingPayment, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if idx >= uint64(len(b.builderPendingPayments)) {
		return nil, errPaymentIndex
	}
	return copyPendingPayment(b.builderPendingPayments[idx]), nil
}

// BuilderPendingPayments returns a copy of the full two-epoch payment window.
func (b *BeaconState) BuilderPendingPayments() []*gloas.BuilderPendingPayment {
	b.lock.RLock()
	defer b.lock.RUnlock()

	payments := make([]*gloas.BuilderPendingPayment, len(b.builderPendingPayments))
	for i, p := range b.builderPendingPayments {
		payments[i] = copyPendingPayment(p)
	}
	return payments
}

// BuilderPendingWithdrawals returns a copy of the pending withdrawal queue.
func (b *BeaconState) BuilderPendingWithdrawals() []*gloas.BuilderPendingWithdrawal {
	b.lock.RLock()
	defer b.lock.RUnlock()

	ws := make([]*gloas.BuilderPendingWithdrawal, len(b.builderPendingWithdrawals))
	for i, w := range b.builderPendingWithdrawals {
		ws[i] = copyPendingWithdrawal(w)
	}
	return ws
}

// NextWithdrawalIndex returns the index to assign to the next withdrawal.
func (b *BeaconState) NextWithdrawalIndex() uint64 {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.nextWithdrawalIndex
}

// LatestExecutionPayloadBid returns a copy of the bid committed by the
// latest beacon block.
func (b *BeaconState) LatestExecutionPayloadBid() *gloas.ExecutionPayloadBid {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return copyBid(b.latestExecutionPayloadBid)
}

// LatestBlockHash returns the block hash of the latest delivered execution
// payload.
func (b *BeaconState) LatestBlockHash() [32]byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.latestBlockHash
}

// LatestFullSlot returns the most recent slot whose payload was delivered.
func (b *BeaconState) LatestFullSlot() primitives.Slot {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.latestFullSlot
}

// IsParentBlockFull reports whether the last committed bid was honored with
// a delivered payload. The check compares the committed bid's parent block
// hash against the hash of the latest delivered payload.
func (b *BeaconState) IsParentBlockFull() bool {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return bytes.Equal(b.latestExecutionPayloadBid.BlockHash, b.latestBlockHash[:])
}

// FinalizedCheckpoint returns a copy of the finalized checkpoint.
func (b *BeaconState) FinalizedCheckpoint() *gloas.Checkpoint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return &gloas.Checkpoint{
		Epoch: b.finalizedCheckpoint.Epoch,
		Root:  append([]byte{}, b.finalizedCheckpoint.Root...),
	}
}
