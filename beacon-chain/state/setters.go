package state

import (
	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
)

// SetSlot sets the current consensus slot.
func (b *BeaconState) SetSlot(slot primitives.Slot) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.slot = slot
}

// SetFork sets the fork data of the state.
func (b *BeaconState) SetFork(f *gloas.Fork) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.fork = &gloas.Fork{
		PreviousVersion: append([]byte{}, f.PreviousVersion...),
		CurrentVersion:  append([]byte{}, f.CurrentVersion...),
		Epoch:           f.Epoch,
	}
}

// SetLatestBlockHeader stores a copy of the given header.
func (b *BeaconState) SetLatestBlockHeader(h *gloas.BeaconBlockHeader) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.latestBlockHeader = copyBlockHeader(h)
}

// SetLatestBlockHeaderStateRoot backfills the cached header's state root.
// The header is stored with a zero state root at block processing time and
// completed here on the next slot advance.
func (b *BeaconState) SetLatestBlockHeaderStateRoot(root [32]byte) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.latestBlockHeader.StateRoot = root[:]
}

// SetRandaoMix sets the randao mix used for committee seeding.
func (b *BeaconState) SetRandaoMix(mix [32]byte) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.randaoMix = mix
}

// AppendValidator adds a validator to the registry with the given starting
// balance and returns its index.
func (b *BeaconState) AppendValidator(v *gloas.Validator, balance uint64) primitives.ValidatorIndex {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.validators = append(b.validators, copyValidator(v))
	b.balances = append(b.balances, balance)
	return primitives.ValidatorIndex(len(b.validators) - 1)
}

// IncreaseBalance adds delta to the balance of the validator at idx.
func (b *BeaconState) IncreaseBalance(idx primitives.ValidatorIndex, delta uint64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if uint64(idx) >= uint64(len(b.balances)) {
		return errUnknownValidator
	}
	b.balances[idx] += delta
	return nil
}

// AppendBuilder adds a builder to the registry and returns its index. If a
// withdrawn, zero-balance slot exists it is reused instead of growing the
// registry.
func (b *BeaconState) AppendBuilder(bldr *gloas.Builder, currentEpoch primitives.Epoch) primitives.BuilderIndex {
	b.lock.Lock()
	defer b.lock.Unlock()

	for i, existing := range b.builders {
		if existing.Balance == 0 && existing.WithdrawableEpoch <= currentEpoch {
			b.builders[i] = copyBuilder(bldr)
			return primitives.BuilderIndex(i)
		}
	}
	b.builders = append(b.builders, copyBuilder(bldr))
	return primitives.BuilderIndex(len(b.builders) - 1)
}

// IncreaseBuilderBalance adds delta to the balance of the builder at idx.
func (b *BeaconState) IncreaseBuilderBalance(idx primitives.BuilderIndex, delta primitives.Gwei) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if uint64(idx) >= uint64(len(b.builders)) {
		return errUnknownBuilder
	}
	b.builders[idx].Balance += delta
	return nil
}

// DecreaseBuilderBalance subtracts delta from the balance of the builder at
// idx, flooring at zero.
func (b *BeaconState) DecreaseBuilderBalance(idx primitives.BuilderIndex, delta primitives.Gwei) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if uint64(idx) >= uint64(len(b.builders)) {
		return errUnknownBuilder
	}
	if delta > b.builders[idx].Balance {
		b.builders[idx].Balance = 0
		return nil
	}
	b.builders[idx].Balance -= delta
	return nil
}

// SetBuilderWithdrawableEpoch marks the builder at idx as exiting at the
// given epoch.
func (b *BeaconState) SetBuilderWithdrawableEpoch(idx primitives.BuilderIndex, epoch primitives.Epoch) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if uint64(idx) >= uint64(len(b.builders)) {
		return errUnknownBuilder
	}
	b.builders[idx].WithdrawableEpoch = epoch
	return nil
}

// UpdateExecutionPayloadAvailability sets or clears the availability bit for
// the given slot.
func (b *BeaconState) UpdateExecutionPayloadAvailability(slot primitives.Slot, available bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	idx := uint64(slot) % fieldparams.ExecutionPayloadAvailabilityLength
	if available {
		b.executionPayloadAvailability[idx/8] |= 1 << (idx % 8)
	} else {
		b.executionPayloadAvailability[idx/8] &^= 1 << (idx % 8)
	}
}

// SetBuilderPendingPayment stores a copy of the payment at the given window
// index.
func (b *BeaconState) SetBuilderPendingPayment(idx uint64, p *gloas.BuilderPendingPayment) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if idx >= uint64(len(b.builderPendingPayments)) {
		return errPaymentIndex
	}
	b.builderPendingPayments[idx] = copyPendingPayment(p)
	return nil
}

// AddBuilderPendingPaymentWeight accrues attestation weight on the payment
// window entry at the given index.
func (b *BeaconState) AddBuilderPendingPaymentWeight(idx uint64, weight primitives.Gwei) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if idx >= uint64(len(b.builderPendingPayments)) {
		return errPaymentIndex
	}
	b.builderPendingPayments[idx].Weight += weight
	return nil
}

// SetBuilderPendingPayments replaces the full payment window. The input must
// span exactly the two-epoch window.
func (b *BeaconState) SetBuilderPendingPayments(payments []*gloas.BuilderPendingPayment) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if len(payments) != fieldparams.BuilderPendingPaymentsLength {
		return errPaymentIndex
	}
	ps := make([]*gloas.BuilderPendingPayment, len(payments))
	for i, p := range payments {
		ps[i] = copyPendingPayment(p)
	}
	b.builderPendingPayments = ps
	return nil
}

// AppendBuilderPendingWithdrawal queues a withdrawal for release.
func (b *BeaconState) AppendBuilderPendingWithdrawal(w *gloas.BuilderPendingWithdrawal) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.builderPendingWithdrawals = append(b.builderPendingWithdrawals, copyPendingWithdrawal(w))
}

// DequeueBuilderPendingWithdrawals removes the first n entries from the
// pending withdrawal queue.
func (b *BeaconState) DequeueBuilderPendingWithdrawals(n int) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if n > len(b.builderPendingWithdrawals) {
		n = len(b.builderPendingWithdrawals)
	}
	b.builderPendingWithdrawals = b.builderPendingWithdrawals[n:]
}

// SetNextWithdrawalIndex sets the index to assign to the next withdrawal.
func (b *BeaconState) SetNextWithdrawalIndex(idx uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.nextWithdrawalIndex = idx
}

// SetLatestExecutionPayloadBid commits the given bid into the state.
func (b *BeaconState) SetLatestExecutionPayloadBid(bid *gloas.ExecutionPayloadBid) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.latestExecutionPayloadBid = copyBid(bid)
}

// SetLatestBlockHash records the block hash of a delivered payload.
func (b *BeaconState) SetLatestBlockHash(h [32]byte) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.latestBlockHash = h
}

// SetLatestFullSlot records the most recent slot whose payload was
// delivered.
func (b *BeaconState) SetLatestFullSlot(slot primitives.Slot) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.latestFullSlot = slot
}

// SetFinalizedCheckpoint sets the finalized checkpoint.
func (b *BeaconState) SetFinalizedCheckpoint(c *gloas.Checkpoint) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.finalizedCheckpoint = &gloas.Checkpoint{
		Epoch: c.Epoch,
		Root:  append([]byte{}, c.Root...),
	}
}
