package gloas

import (
	"github.com/pkg/errors"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/encoding/bytesutil"
)

var (
	errNilBid       = errors.New("received nil execution payload bid")
	errNilSignature = errors.New("received nil bid signature")
)

// ROBid is a read-only signed execution payload bid with the bid message
// root computed once at construction. The root doubles as the equivocation
// cache value: two bids from the same builder for the same slot conflict
// exactly when their roots differ.
type ROBid struct {
	b    *SignedExecutionPayloadBid
	root [fieldparams.RootLength]byte
}

// NewROBid validates the signed bid's shape and caches the message root.
func NewROBid(b *SignedExecutionPayloadBid) (ROBid, error) {
	if b == nil || b.Message == nil {
		return ROBid{}, errNilBid
	}
	if len(b.Signature) != fieldparams.BLSSignatureLength {
		return ROBid{}, errNilSignature
	}
	root, err := b.Message.HashTreeRoot()
	if err != nil {
		return ROBid{}, errors.Wrap(err, "could not compute bid root")
	}
	return ROBid{b: b, root: root}, nil
}

// Bid returns the wrapped bid message.
func (b ROBid) Bid() *ExecutionPayloadBid {
	return b.b.Message
}

// Signature returns the builder signature over the bid.
func (b ROBid) Signature() [fieldparams.BLSSignatureLength]byte {
	return bytesutil.ToBytes96(b.b.Signature)
}

// Root returns the hash tree root of the bid message, cached at
// construction.
func (b ROBid) Root() [fieldparams.RootLength]byte {
	return b.root
}

// Slot returns the bid slot.
func (b ROBid) Slot() primitives.Slot {
	return b.b.Message.Slot
}

// BuilderIndex returns the bidding builder's index.
func (b ROBid) BuilderIndex() primitives.BuilderIndex {
	return b.b.Message.BuilderIndex
}

// Value returns the payment the builder offers the proposer.
func (b ROBid) Value() primitives.Gwei {
	return b.b.Message.Value
}

// ParentBlockRoot returns the beacon block root the bid builds on.
func (b ROBid) ParentBlockRoot() [fieldparams.RootLength]byte {
	return bytesutil.ToBytes32(b.b.Message.ParentBlockRoot)
}

// IsSelfBuild returns true if the bid uses the sentinel builder index a
// proposer supplies when building its own payload.
func (b ROBid) IsSelfBuild() bool {
	return b.b.Message.BuilderIndex == primitives.SelfBuilderIndex
}

// VerifiedROBid is a ROBid that has passed the full gossip verification
// pipeline.
type VerifiedROBid struct {
	ROBid
}

// NewVerifiedROBid upgrades the given ROBid. Only the verification package
// should call this.
func NewVerifiedROBid(b ROBid) VerifiedROBid {
	return VerifiedROBid{ROBid: b}
}
