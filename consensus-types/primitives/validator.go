package primitives

import (
	"math"

	fssz "github.com/ferranbt/fastssz"
)

var _ fssz.HashRoot = (ValidatorIndex)(0)

// ValidatorIndex in eth2.
type ValidatorIndex uint64

// BuilderIndex identifies a builder in the builder registry. Builders live
// in a separate identity space from validators.
type BuilderIndex uint64

// SelfBuilderIndex is the sentinel builder index a proposer uses when
// supplying its own execution payload instead of committing to an external
// builder's bid.
const SelfBuilderIndex = BuilderIndex(math.MaxUint64)

// HashTreeRoot returns the hash tree root of the validator index.
func (v ValidatorIndex) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(v)
}

// HashTreeRootWith hashes the validator index with the given hasher.
func (v ValidatorIndex) HashTreeRootWith(hh *fssz.Hasher) error {
	hh.PutUint64(uint64(v))
	return nil
}

// MarshalSSZTo marshals the validator index into the provided byte slice.
func (v ValidatorIndex) MarshalSSZTo(dst []byte) ([]byte, error) {
	marshalled, err := v.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return append(dst, marshalled...), nil
}

// MarshalSSZ marshals the validator index into its SSZ form.
func (v ValidatorIndex) MarshalSSZ() ([]byte, error) {
	return fssz.MarshalUint64([]byte{}, uint64(v)), nil
}

// SizeSSZ returns the SSZ encoded size of the validator index.
func (v ValidatorIndex) SizeSSZ() int {
	return 8
}
