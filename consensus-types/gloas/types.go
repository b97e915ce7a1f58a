// Package gloas defines the native consensus types introduced by the Gloas
// fork: builder bids, execution payload envelopes, payload attestations and
// the builder payment ledger entries carried in state.
package gloas

import (
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/prysmaticlabs/go-bitfield"
)

// Fork carries the fork version data used for domain separation.
type Fork struct {
	PreviousVersion []byte // 4 bytes
	CurrentVersion  []byte // 4 bytes
	Epoch           primitives.Epoch
}

// Checkpoint is an epoch boundary reference.
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  []byte // 32 bytes
}

// BeaconBlockHeader is the summary of a beacon block kept in state.
type BeaconBlockHeader struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    []byte // 32 bytes
	StateRoot     []byte // 32 bytes
	BodyRoot      []byte // 32 bytes
}

// Validator is the registry entry for a staked validator.
type Validator struct {
	PublicKey             []byte // 48 bytes
	WithdrawalCredentials []byte // 32 bytes
	EffectiveBalance      uint64
	Slashed               bool
	ActivationEpoch       primitives.Epoch
	ExitEpoch             primitives.Epoch
	WithdrawableEpoch     primitives.Epoch
}

// Builder is the registry entry for a payload builder. Builders live in
// their own registry, separate from validators, and are funded by deposits
// carrying the builder withdrawal prefix.
type Builder struct {
	PublicKey         []byte // 48 bytes
	ExecutionAddress  []byte // 20 bytes
	Balance           primitives.Gwei
	DepositEpoch      primitives.Epoch
	WithdrawableEpoch primitives.Epoch
}

// ExecutionPayloadBid is a builder's signed offer to reveal a payload with
// the committed block hash for the given slot, paying the proposer Value.
type ExecutionPayloadBid struct {
	ParentBlockHash    []byte // 32 bytes
	ParentBlockRoot    []byte // 32 bytes
	BlockHash          []byte // 32 bytes
	PrevRandao         []byte // 32 bytes
	FeeRecipient       []byte // 20 bytes
	GasLimit           uint64
	BuilderIndex       primitives.BuilderIndex
	Slot               primitives.Slot
	Value              primitives.Gwei
	ExecutionPayment   primitives.Gwei // reserved, must be zero
	BlobKzgCommitments [][]byte        // each 48 bytes
}

// SignedExecutionPayloadBid is a bid plus the builder's signature over it.
type SignedExecutionPayloadBid struct {
	Message   *ExecutionPayloadBid
	Signature []byte // 96 bytes
}

// BuilderPendingWithdrawal is a queued payment from a builder's balance to
// an execution address.
type BuilderPendingWithdrawal struct {
	FeeRecipient []byte // 20 bytes
	Amount       primitives.Gwei
	BuilderIndex primitives.BuilderIndex
}

// BuilderPendingPayment is one entry of the rotating two-epoch payment
// window. Weight accumulates payload-attestation power; the withdrawal is
// released once the weight quorum is met.
type BuilderPendingPayment struct {
	Weight     primitives.Gwei
	Withdrawal *BuilderPendingWithdrawal
}

// Withdrawal is an execution-layer withdrawal included in a payload.
type Withdrawal struct {
	Index          uint64
	ValidatorIndex primitives.ValidatorIndex
	Address        []byte // 20 bytes
	Amount         uint64
}

// ExecutionPayload is the Gloas variant of the execution payload, revealed
// by the builder inside an envelope rather than inside the beacon block.
type ExecutionPayload struct {
	ParentHash    []byte // 32 bytes
	FeeRecipient  []byte // 20 bytes
	StateRoot     []byte // 32 bytes
	ReceiptsRoot  []byte // 32 bytes
	LogsBloom     []byte // 256 bytes
	PrevRandao    []byte // 32 bytes
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	ExtraData     []byte // at most 32 bytes
	BaseFeePerGas []byte // 32 bytes, little-endian
	BlockHash     []byte // 32 bytes
	Transactions  [][]byte
	Withdrawals   []*Withdrawal
	BlobGasUsed   uint64
	ExcessBlobGas uint64
}

// DepositRequest is an execution-layer triggered deposit carried by an
// envelope.
type DepositRequest struct {
	Pubkey                []byte // 48 bytes
	WithdrawalCredentials []byte // 32 bytes
	Amount                uint64
	Signature             []byte // 96 bytes
	Index                 uint64
}

// WithdrawalRequest is an execution-layer triggered withdrawal (or builder
// exit) carried by an envelope.
type WithdrawalRequest struct {
	SourceAddress   []byte // 20 bytes
	ValidatorPubkey []byte // 48 bytes
	Amount          uint64
}

// ConsolidationRequest is an execution-layer triggered consolidation
// carried by an envelope.
type ConsolidationRequest struct {
	SourceAddress []byte // 20 bytes
	SourcePubkey  []byte // 48 bytes
	TargetPubkey  []byte // 48 bytes
}

// ExecutionRequests bundles the execution-layer requests revealed with a
// payload. In this fork they are processed at envelope time, not block
// time, since the payload is unknown until the builder reveals it.
type ExecutionRequests struct {
	Deposits       []*DepositRequest
	Withdrawals    []*WithdrawalRequest
	Consolidations []*ConsolidationRequest
}

// ExecutionPayloadEnvelope is the builder's reveal of the payload matching
// a previously committed bid.
type ExecutionPayloadEnvelope struct {
	Payload           *ExecutionPayload
	ExecutionRequests *ExecutionRequests
	BuilderIndex      primitives.BuilderIndex
	BeaconBlockRoot   []byte // 32 bytes
	Slot              primitives.Slot
	StateRoot         []byte // 32 bytes
}

// SignedExecutionPayloadEnvelope is an envelope plus the builder's
// signature over it.
type SignedExecutionPayloadEnvelope struct {
	Message   *ExecutionPayloadEnvelope
	Signature []byte // 96 bytes
}

// PayloadAttestationData is the PTC's judgment for a slot.
type PayloadAttestationData struct {
	BeaconBlockRoot   []byte // 32 bytes
	Slot              primitives.Slot
	PayloadPresent    bool
	BlobDataAvailable bool
}

// PayloadAttestationMessage is a single PTC member's signed judgment,
// gossiped individually.
type PayloadAttestationMessage struct {
	ValidatorIndex primitives.ValidatorIndex
	Data           *PayloadAttestationData
	Signature      []byte // 96 bytes
}

// PayloadAttestation is the aggregated form included in a beacon block.
// The aggregation bits are positions into the slot's PTC.
type PayloadAttestation struct {
	AggregationBits bitfield.Bitvector512
	Data            *PayloadAttestationData
	Signature       []byte // 96 bytes
}

// IndexedPayloadAttestation is the aggregate resolved against the PTC,
// with the attesting indices listed explicitly, sorted ascending.
type IndexedPayloadAttestation struct {
	AttestingIndices []primitives.ValidatorIndex
	Data             *PayloadAttestationData
	Signature        []byte // 96 bytes
}

// GetAttestingIndices returns the attesting indices.
func (p *IndexedPayloadAttestation) GetAttestingIndices() []primitives.ValidatorIndex {
	if p == nil {
		return nil
	}
	return p.AttestingIndices
}

// GetData returns the attestation data.
func (p *IndexedPayloadAttestation) GetData() *PayloadAttestationData {
	if p == nil {
		return nil
	}
	return p.Data
}

// GetSignature returns the aggregate signature.
func (p *IndexedPayloadAttestation) GetSignature() []byte {
	if p == nil {
		return nil
	}
	return p.Signature
}
