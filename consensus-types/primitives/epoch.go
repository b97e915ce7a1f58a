package primitives

import (
	"fmt"

	fssz "github.com/ferranbt/fastssz"
)

var _ fssz.HashRoot = (Epoch)(0)

// Epoch represents a single epoch.
type Epoch uint64

// Add increases epoch by x.
func (e Epoch) Add(x uint64) Epoch {
	return e + Epoch(x)
}

// Sub subtracts x from the epoch, clamping at zero.
func (e Epoch) Sub(x uint64) Epoch {
	if uint64(e) < x {
		return 0
	}
	return e - Epoch(x)
}

// HashTreeRoot returns the hash tree root of the epoch.
func (e Epoch) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(e)
}

// HashTreeRootWith hashes the epoch with the given hasher.
func (e Epoch) HashTreeRootWith(hh *fssz.Hasher) error {
	hh.PutUint64(uint64(e))
	return nil
}

// MarshalSSZTo marshals the epoch into the provided byte slice.
func (e Epoch) MarshalSSZTo(dst []byte) ([]byte, error) {
	marshalled, err := e.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return append(dst, marshalled...), nil
}

// MarshalSSZ marshals the epoch into its SSZ form, a little-endian uint64.
func (e Epoch) MarshalSSZ() ([]byte, error) {
	marshalled := fssz.MarshalUint64([]byte{}, uint64(e))
	return marshalled, nil
}

// SizeSSZ returns the SSZ encoded size of the epoch.
func (e Epoch) SizeSSZ() int {
	return 8
}

// UnmarshalSSZ deserializes the epoch from its SSZ form.
func (e *Epoch) UnmarshalSSZ(buf []byte) error {
	if len(buf) != e.SizeSSZ() {
		return fmt.Errorf("expected buffer of length %d received %d", e.SizeSSZ(), len(buf))
	}
	*e = Epoch(fssz.UnmarshallUint64(buf))
	return nil
}
