package gloas

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/hash"
	"github.com/dapplion/gloas/encoding/bytesutil"
)

var (
	errNilEnvelope = errors.New("received nil execution payload envelope")
	errNilPayload  = errors.New("received nil execution payload")
)

// ROEnvelope is a read-only signed execution payload envelope.
type ROEnvelope struct {
	e    *SignedExecutionPayloadEnvelope
	root [fieldparams.RootLength]byte
}

// NewROEnvelope validates the signed envelope's shape and caches the
// message root.
func NewROEnvelope(e *SignedExecutionPayloadEnvelope) (ROEnvelope, error) {
	if e == nil || e.Message == nil {
		return ROEnvelope{}, errNilEnvelope
	}
	if e.Message.Payload == nil {
		return ROEnvelope{}, errNilPayload
	}
	if len(e.Signature) != fieldparams.BLSSignatureLength {
		return ROEnvelope{}, errNilSignature
	}
	root, err := e.Message.HashTreeRoot()
	if err != nil {
		return ROEnvelope{}, errors.Wrap(err, "could not compute envelope root")
	}
	return ROEnvelope{e: e, root: root}, nil
}

// Envelope returns the wrapped envelope message.
func (e ROEnvelope) Envelope() *ExecutionPayloadEnvelope {
	return e.e.Message
}

// Execution returns the revealed execution payload.
func (e ROEnvelope) Execution() *ExecutionPayload {
	return e.e.Message.Payload
}

// Signature returns the builder signature over the envelope.
func (e ROEnvelope) Signature() [fieldparams.BLSSignatureLength]byte {
	return bytesutil.ToBytes96(e.e.Signature)
}

// Root returns the hash tree root of the envelope message, cached at
// construction.
func (e ROEnvelope) Root() [fieldparams.RootLength]byte {
	return e.root
}

// Slot returns the envelope slot.
func (e ROEnvelope) Slot() primitives.Slot {
	return e.e.Message.Slot
}

// BuilderIndex returns the revealing builder's index.
func (e ROEnvelope) BuilderIndex() primitives.BuilderIndex {
	return e.e.Message.BuilderIndex
}

// BeaconBlockRoot returns the beacon block root the envelope is bound to.
func (e ROEnvelope) BeaconBlockRoot() [fieldparams.RootLength]byte {
	return bytesutil.ToBytes32(e.e.Message.BeaconBlockRoot)
}

// StateRoot returns the post-state root the builder claims.
func (e ROEnvelope) StateRoot() [fieldparams.RootLength]byte {
	return bytesutil.ToBytes32(e.e.Message.StateRoot)
}

// VerifiedROEnvelope is an ROEnvelope that has passed envelope gossip
// verification. Because it embeds the ROEnvelope, it can be used anywhere
// an ROEnvelope is required.
type VerifiedROEnvelope struct {
	ROEnvelope
}

// NewVerifiedROEnvelope upgrades the given ROEnvelope. Only the
// verification package should call this.
func NewVerifiedROEnvelope(e ROEnvelope) VerifiedROEnvelope {
	return VerifiedROEnvelope{ROEnvelope: e}
}

// VersionedHashes returns the versioned hashes of the blob commitments the
// committed bid carried, for handing to the execution engine.
func VersionedHashes(commitments [][]byte) []common.Hash {
	hashes := make([]common.Hash, len(commitments))
	for i, commitment := range commitments {
		hashes[i] = kzgToVersionedHash(commitment)
	}
	return hashes
}

// blobCommitmentVersionKZG is the version byte prefixing a KZG-derived
// versioned hash.
const blobCommitmentVersionKZG uint8 = 0x01

func kzgToVersionedHash(commitment []byte) common.Hash {
	h := hash.Hash(commitment)
	h[0] = blobCommitmentVersionKZG
	return common.Hash(h)
}
