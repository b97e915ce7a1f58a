// Package helpers contains committee computations for the payload
// timeliness committee.
package helpers

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/hash"
	"github.com/dapplion/gloas/encoding/bytesutil"
	"github.com/dapplion/gloas/time/slots"
)

// ErrNoActiveValidators is returned when a committee is requested from a
// state with an empty active set.
var ErrNoActiveValidators = errors.New("no active validators in state")

// PTCCommittee returns the payload timeliness committee for the given slot,
// sorted ascending by validator index. Aggregation bits of a payload
// attestation index into this ordering.
//
// Members are drawn from the active set by ranking each candidate with
// hash(seed || index) and taking the lowest PTCSize ranks, where the seed
// binds the state's randao mix with the slot. The ranking is a pure
// function of state, so every honest node derives the same committee.
func PTCCommittee(st *state.BeaconState, slot primitives.Slot) ([]primitives.ValidatorIndex, error) {
	if st == nil {
		return nil, state.ErrNilState
	}
	active := st.ActiveValidatorIndices(slots.ToEpoch(slot))
	if len(active) == 0 {
		return nil, ErrNoActiveValidators
	}

	seed := committeeSeed(st.RandaoMix(), slot)
	type ranked struct {
		index primitives.ValidatorIndex
		rank  [32]byte
	}
	candidates := make([]ranked, len(active))
	for i, idx := range active {
		candidates[i] = ranked{index: idx, rank: candidateRank(seed, idx)}
	}
	sort.Slice(candidates, func(i, j int) bool {
		c := compareRanks(candidates[i].rank, candidates[j].rank)
		if c != 0 {
			return c < 0
		}
		return candidates[i].index < candidates[j].index
	})

	size := int(params.BeaconConfig().PTCSize)
	if size > len(candidates) {
		size = len(candidates)
	}
	committee := make([]primitives.ValidatorIndex, size)
	for i := 0; i < size; i++ {
		committee[i] = candidates[i].index
	}
	sort.Slice(committee, func(i, j int) bool { return committee[i] < committee[j] })
	return committee, nil
}

// PTCPosition returns the position of the given validator within the slot's
// committee, or false if the validator is not a member.
func PTCPosition(committee []primitives.ValidatorIndex, idx primitives.ValidatorIndex) (int, bool) {
	pos := sort.Search(len(committee), func(i int) bool { return committee[i] >= idx })
	if pos < len(committee) && committee[pos] == idx {
		return pos, true
	}
	return 0, false
}

func committeeSeed(mix [32]byte, slot primitives.Slot) [32]byte {
	return hash.Hash(append(mix[:], bytesutil.Uint64ToBytesLittleEndian(uint64(slot))...))
}

func candidateRank(seed [32]byte, idx primitives.ValidatorIndex) [32]byte {
	return hash.Hash(append(seed[:], bytesutil.Uint64ToBytesLittleEndian(uint64(idx))...))
}

func compareRanks(a, b [32]byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
