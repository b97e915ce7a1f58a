// Package payloadattestation wraps gossiped payload attestation messages in
// read-only accessors with validated fields and cached roots.
package payloadattestation

import (
	"github.com/pkg/errors"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/encoding/bytesutil"
)

var (
	errNilMessage   = errors.New("received nil payload attestation message")
	errNilData      = errors.New("received nil payload attestation data")
	errNilSignature = errors.New("received nil payload attestation signature")
)

// ROMessage is a read-only payload attestation message with its data root
// computed once at construction.
type ROMessage struct {
	m        *gloas.PayloadAttestationMessage
	dataRoot [fieldparams.RootLength]byte
}

// NewReadOnly verifies that the message has non-nil data and signature
// before returning the wrapped message.
func NewReadOnly(m *gloas.PayloadAttestationMessage) (ROMessage, error) {
	if m == nil {
		return ROMessage{}, errNilMessage
	}
	if m.Data == nil {
		return ROMessage{}, errNilData
	}
	if len(m.Signature) != fieldparams.BLSSignatureLength {
		return ROMessage{}, errNilSignature
	}
	root, err := m.Data.HashTreeRoot()
	if err != nil {
		return ROMessage{}, errors.Wrap(err, "could not compute data root")
	}
	return ROMessage{m: m, dataRoot: root}, nil
}

// ValidatorIndex returns the attesting validator index.
func (m ROMessage) ValidatorIndex() primitives.ValidatorIndex {
	return m.m.ValidatorIndex
}

// Signature returns the message signature.
func (m ROMessage) Signature() [fieldparams.BLSSignatureLength]byte {
	return bytesutil.ToBytes96(m.m.Signature)
}

// Data returns the attestation data.
func (m ROMessage) Data() *gloas.PayloadAttestationData {
	return m.m.Data
}

// Slot returns the attested slot.
func (m ROMessage) Slot() primitives.Slot {
	return m.m.Data.Slot
}

// BeaconBlockRoot returns the attested beacon block root.
func (m ROMessage) BeaconBlockRoot() [fieldparams.RootLength]byte {
	return bytesutil.ToBytes32(m.m.Data.BeaconBlockRoot)
}

// DataRoot returns the hash tree root of the attestation data, cached at
// construction.
func (m ROMessage) DataRoot() [fieldparams.RootLength]byte {
	return m.dataRoot
}

// VerifiedROMessage is a ROMessage that has passed the full gossip
// verification pipeline.
type VerifiedROMessage struct {
	ROMessage
}

// NewVerifiedROMessage upgrades the given ROMessage. Only the verification
// package should call this.
func NewVerifiedROMessage(m ROMessage) VerifiedROMessage {
	return VerifiedROMessage{ROMessage: m}
}
