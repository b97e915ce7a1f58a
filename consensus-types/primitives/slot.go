package primitives

import (
	"fmt"

	fssz "github.com/ferranbt/fastssz"
)

var _ fssz.HashRoot = (Slot)(0)

// Slot represents a single slot.
type Slot uint64

// Add increases slot by x.
func (s Slot) Add(x uint64) Slot {
	return s + Slot(x)
}

// Sub subtracts x from the slot, clamping at zero.
func (s Slot) Sub(x uint64) Slot {
	if uint64(s) < x {
		return 0
	}
	return s - Slot(x)
}

// Mul multiplies slot by x.
func (s Slot) Mul(x uint64) Slot {
	return s * Slot(x)
}

// Div divides slot by x.
func (s Slot) Div(x uint64) Slot {
	if x == 0 {
		panic("divbyzero")
	}
	return s / Slot(x)
}

// Mod returns the remainder of the slot divided by x.
func (s Slot) Mod(x uint64) Slot {
	if x == 0 {
		panic("divbyzero")
	}
	return s % Slot(x)
}

// HashTreeRoot returns the hash tree root of the slot.
func (s Slot) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith hashes the slot with the given hasher.
func (s Slot) HashTreeRootWith(hh *fssz.Hasher) error {
	hh.PutUint64(uint64(s))
	return nil
}

// MarshalSSZTo marshals the slot into the provided byte slice.
func (s Slot) MarshalSSZTo(dst []byte) ([]byte, error) {
	marshalled, err := s.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return append(dst, marshalled...), nil
}

// MarshalSSZ marshals the slot into its SSZ form, a little-endian uint64.
func (s Slot) MarshalSSZ() ([]byte, error) {
	marshalled := fssz.MarshalUint64([]byte{}, uint64(s))
	return marshalled, nil
}

// SizeSSZ returns the SSZ encoded size of the slot.
func (s Slot) SizeSSZ() int {
	return 8
}

// UnmarshalSSZ deserializes the slot from its SSZ form.
func (s *Slot) UnmarshalSSZ(buf []byte) error {
	if len(buf) != s.SizeSSZ() {
		return fmt.Errorf("expected buffer of length %d received %d", s.SizeSSZ(), len(buf))
	}
	*s = Slot(fssz.UnmarshallUint64(buf))
	return nil
}
