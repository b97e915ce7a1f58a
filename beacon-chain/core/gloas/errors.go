package gloas

import "github.com/pkg/errors"

// Bid processing failures.
var (
	ErrNilBid                     = errors.New("nil signed execution payload bid")
	ErrBidSlotMismatch            = errors.New("bid slot does not match state slot")
	ErrBidParentHashMismatch      = errors.New("bid parent block hash does not match latest block hash")
	ErrBidParentRootMismatch      = errors.New("bid parent block root does not match latest block header root")
	ErrNonZeroReservedPayment     = errors.New("reserved execution payment field is not zero")
	ErrSelfBuildNonZeroValue      = errors.New("self-build bid carries a non-zero value")
	ErrSelfBuildSignature         = errors.New("self-build bid signature is not the infinity point")
	ErrUnknownBuilder             = errors.New("builder index is not in the registry")
	ErrBuilderInactive            = errors.New("builder is not active at the finalized epoch")
	ErrInsufficientBuilderBalance = errors.New("builder balance cannot cover the bid value")
)

// Envelope processing failures. Each mismatch between the envelope and the
// committed bid or the state is a distinct error, fatal to the candidate
// block.
var (
	ErrNilEnvelope               = errors.New("nil signed execution payload envelope")
	ErrBeaconBlockRootMismatch   = errors.New("envelope beacon block root does not match latest block header root")
	ErrEnvelopeSlotMismatch      = errors.New("envelope slot does not match state slot")
	ErrBuilderIndexMismatch      = errors.New("envelope builder index does not match committed bid")
	ErrPrevRandaoMismatch        = errors.New("payload prev randao does not match committed bid")
	ErrGasLimitMismatch          = errors.New("payload gas limit does not match committed bid")
	ErrBlockHashMismatch         = errors.New("payload block hash does not match committed bid")
	ErrWithdrawalsMismatch       = errors.New("payload withdrawals do not match expected withdrawals")
	ErrPayloadParentHashMismatch = errors.New("payload parent hash does not match latest block hash")
	ErrTimestampMismatch         = errors.New("payload timestamp does not match slot start time")
	ErrStateRootMismatch         = errors.New("envelope state root does not match post-state root")
)

// Payload attestation processing failures.
var (
	ErrNilAttestation           = errors.New("nil payload attestation")
	ErrAttestationSlotMismatch  = errors.New("attestation slot does not match state slot")
	ErrAttestationRootMismatch  = errors.New("attestation beacon block root does not match latest block header root")
	ErrCommitteeIndexOutOfBound = errors.New("aggregation bit position exceeds committee size")
)

// Execution request failures.
var (
	ErrDepositPrefix    = errors.New("withdrawal credentials do not carry a known prefix")
	ErrDepositSignature = errors.New("deposit signature did not verify")
)
