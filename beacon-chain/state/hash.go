package state

import (
	ssz "github.com/ferranbt/fastssz"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
)

// HashTreeRoot computes the SSZ merkle root of the state.
func (b *BeaconState) HashTreeRoot() ([32]byte, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	hh := ssz.DefaultHasherPool.Get()
	defer ssz.DefaultHasherPool.Put(hh)
	if err := b.hashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// hashTreeRootWith hashes the state fields in declaration order. Callers
// must hold at least a read lock.
func (b *BeaconState) hashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	// Field (0) 'GenesisTime'
	hh.PutUint64(b.genesisTime)

	// Field (1) 'GenesisValidatorsRoot'
	hh.PutBytes(b.genesisValidatorsRoot[:])

	// Field (2) 'Slot'
	hh.PutUint64(uint64(b.slot))

	// Field (3) 'Fork'
	if err = b.fork.HashTreeRootWith(hh); err != nil {
		return
	}

	// Field (4) 'LatestBlockHeader'
	if err = b.latestBlockHeader.HashTreeRootWith(hh); err != nil {
		return
	}

	// Field (5) 'RandaoMix'
	hh.PutBytes(b.randaoMix[:])

	// Field (6) 'Validators'
	{
		subIndx := hh.Index()
		num := uint64(len(b.validators))
		if num > fieldparams.ValidatorRegistryLimit {
			err = ssz.ErrIncorrectListSize
			return
		}
		for _, elem := range b.validators {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.ValidatorRegistryLimit)
	}

	// Field (7) 'Balances'
	{
		if size := len(b.balances); size > fieldparams.ValidatorRegistryLimit {
			err = ssz.ErrIncorrectListSize
			return
		}
		subIndx := hh.Index()
		for _, i := range b.balances {
			hh.AppendUint64(i)
		}
		hh.FillUpTo32()
		numItems := uint64(len(b.balances))
		hh.MerkleizeWithMixin(subIndx, numItems, ssz.CalculateLimit(fieldparams.ValidatorRegistryLimit, numItems, 8))
	}

	// Field (8) 'Builders'
	{
		subIndx := hh.Index()
		num := uint64(len(b.builders))
		if num > fieldparams.BuilderRegistryLimit {
			err = ssz.ErrIncorrectListSize
			return
		}
		for _, elem := range b.builders {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.BuilderRegistryLimit)
	}

	// Field (9) 'ExecutionPayloadAvailability'
	if size := len(b.executionPayloadAvailability); size != fieldparams.ExecutionPayloadAvailabilityLength/8 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(b.executionPayloadAvailability)

	// Field (10) 'BuilderPendingPayments'
	{
		if size := len(b.builderPendingPayments); size != fieldparams.BuilderPendingPaymentsLength {
			err = ssz.ErrIncorrectListSize
			return
		}
		subIndx := hh.Index()
		for _, elem := range b.builderPendingPayments {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return
			}
		}
		hh.Merkleize(subIndx)
	}

	// Field (11) 'BuilderPendingWithdrawals'
	{
		subIndx := hh.Index()
		num := uint64(len(b.builderPendingWithdrawals))
		if num > fieldparams.BuilderPendingWithdrawalsLimit {
			err = ssz.ErrIncorrectListSize
			return
		}
		for _, elem := range b.builderPendingWithdrawals {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.BuilderPendingWithdrawalsLimit)
	}

	// Field (12) 'NextWithdrawalIndex'
	hh.PutUint64(b.nextWithdrawalIndex)

	// Field (13) 'LatestExecutionPayloadBid'
	if err = b.latestExecutionPayloadBid.HashTreeRootWith(hh); err != nil {
		return
	}

	// Field (14) 'LatestBlockHash'
	hh.PutBytes(b.latestBlockHash[:])

	// Field (15) 'LatestFullSlot'
	hh.PutUint64(uint64(b.latestFullSlot))

	// Field (16) 'FinalizedCheckpoint'
	if err = b.finalizedCheckpoint.HashTreeRootWith(hh); err != nil {
		return
	}

	hh.Merkleize(indx)
	return
}
