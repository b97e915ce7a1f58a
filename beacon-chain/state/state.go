// Package state implements the Gloas beacon state: the consensus-visible
// fields the ePBS sub-protocol reads and mutates, behind the same
// lock-guarded, copy-on-transition discipline the rest of consensus state
// uses.
package state

import (
	"sync"

	"github.com/pkg/errors"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/encoding/bytesutil"
)

var (
	// ErrNilState is returned when a nil state is passed to a processing
	// function.
	ErrNilState = errors.New("received nil beacon state")

	errUnknownBuilder   = errors.New("builder index out of bounds")
	errUnknownValidator = errors.New("validator index out of bounds")
	errPaymentIndex     = errors.New("builder pending payment index out of bounds")
)

// BeaconState holds the Gloas consensus state. All exported accessors are
// safe for concurrent readers; mutation happens only on the single
// state-transition path, on a copy obtained via Copy.
type BeaconState struct {
	lock sync.RWMutex

	genesisTime           uint64
	genesisValidatorsRoot [fieldparams.RootLength]byte
	slot                  primitives.Slot
	fork                  *gloas.Fork
	latestBlockHeader     *gloas.BeaconBlockHeader
	randaoMix             [fieldparams.RootLength]byte

	validators []*gloas.Validator
	balances   []uint64
	builders   []*gloas.Builder

	executionPayloadAvailability []byte // bitvector, one bit per slot of the historical window
	builderPendingPayments       []*gloas.BuilderPendingPayment
	builderPendingWithdrawals    []*gloas.BuilderPendingWithdrawal
	nextWithdrawalIndex          uint64

	latestExecutionPayloadBid *gloas.ExecutionPayloadBid
	latestBlockHash           [fieldparams.RootLength]byte
	latestFullSlot            primitives.Slot

	finalizedCheckpoint *gloas.Checkpoint
}

// Option configures a state under construction.
type Option func(*BeaconState)

// New assembles a Gloas beacon state with empty registries and a zeroed
// payment window.
func New(genesisTime uint64, genesisValidatorsRoot [32]byte, opts ...Option) *BeaconState {
	st := &BeaconState{
		genesisTime:                  genesisTime,
		genesisValidatorsRoot:        genesisValidatorsRoot,
		fork:                         &gloas.Fork{PreviousVersion: make([]byte, 4), CurrentVersion: make([]byte, 4)},
		latestBlockHeader:            emptyBlockHeader(),
		executionPayloadAvailability: make([]byte, fieldparams.ExecutionPayloadAvailabilityLength/8),
		builderPendingPayments:       emptyPendingPayments(),
		builderPendingWithdrawals:    make([]*gloas.BuilderPendingWithdrawal, 0),
		latestExecutionPayloadBid:    emptyBid(),
		finalizedCheckpoint:          &gloas.Checkpoint{Root: make([]byte, fieldparams.RootLength)},
	}
	for _, o := range opts {
		o(st)
	}
	return st
}

func emptyBlockHeader() *gloas.BeaconBlockHeader {
	return &gloas.BeaconBlockHeader{
		ParentRoot: make([]byte, fieldparams.RootLength),
		StateRoot:  make([]byte, fieldparams.RootLength),
		BodyRoot:   make([]byte, fieldparams.RootLength),
	}
}

func emptyBid() *gloas.ExecutionPayloadBid {
	return &gloas.ExecutionPayloadBid{
		ParentBlockHash: make([]byte, fieldparams.RootLength),
		ParentBlockRoot: make([]byte, fieldparams.RootLength),
		BlockHash:       make([]byte, fieldparams.RootLength),
		PrevRandao:      make([]byte, fieldparams.RootLength),
		FeeRecipient:    make([]byte, fieldparams.FeeRecipientLength),
	}
}

func emptyPendingPayment() *gloas.BuilderPendingPayment {
	return &gloas.BuilderPendingPayment{
		Withdrawal: &gloas.BuilderPendingWithdrawal{FeeRecipient: make([]byte, fieldparams.FeeRecipientLength)},
	}
}

func emptyPendingPayments() []*gloas.BuilderPendingPayment {
	payments := make([]*gloas.BuilderPendingPayment, fieldparams.BuilderPendingPaymentsLength)
	for i := range payments {
		payments[i] = emptyPendingPayment()
	}
	return payments
}

// Copy returns a deep copy of the state. State transitions operate on the
// copy so that a failed transition leaves the original untouched.
func (b *BeaconState) Copy() *BeaconState {
	b.lock.RLock()
	defer b.lock.RUnlock()

	dst := &BeaconState{
		genesisTime:           b.genesisTime,
		genesisValidatorsRoot: b.genesisValidatorsRoot,
		slot:                  b.slot,
		fork: &gloas.Fork{
			PreviousVersion: bytesutil.SafeCopyBytes(b.fork.PreviousVersion),
			CurrentVersion:  bytesutil.SafeCopyBytes(b.fork.CurrentVersion),
			Epoch:           b.fork.Epoch,
		},
		latestBlockHeader: copyBlockHeader(b.latestBlockHeader),
		randaoMix:         b.randaoMix,

		validators: make([]*gloas.Validator, len(b.validators)),
		balances:   append([]uint64{}, b.balances...),
		builders:   make([]*gloas.Builder, len(b.builders)),

		executionPayloadAvailability: bytesutil.SafeCopyBytes(b.executionPayloadAvailability),
		builderPendingPayments:       make([]*gloas.BuilderPendingPayment, len(b.builderPendingPayments)),
		builderPendingWithdrawals:    make([]*gloas.BuilderPendingWithdrawal, len(b.builderPendingWithdrawals)),
		nextWithdrawalIndex:          b.nextWithdrawalIndex,

		latestExecutionPayloadBid: copyBid(b.latestExecutionPayloadBid),
		latestBlockHash:           b.latestBlockHash,
		latestFullSlot:            b.latestFullSlot,

		finalizedCheckpoint: &gloas.Checkpoint{
			Epoch: b.finalizedCheckpoint.Epoch,
			Root:  bytesutil.SafeCopyBytes(b.finalizedCheckpoint.Root),
		},
	}
	for i, v := range b.validators {
		dst.validators[i] = copyValidator(v)
	}
	for i, bldr := range b.builders {
		dst.builders[i] = copyBuilder(bldr)
	}
	for i, p := range b.builderPendingPayments {
		dst.builderPendingPayments[i] = copyPendingPayment(p)
	}
	for i, w := range b.builderPendingWithdrawals {
		dst.builderPendingWithdrawals[i] = copyPendingWithdrawal(w)
	}
	return dst
}

func copyBlockHeader(h *gloas.BeaconBlockHeader) *gloas.BeaconBlockHeader {
	return &gloas.BeaconBlockHeader{
		Slot:          h.Slot,
		ProposerIndex: h.ProposerIndex,
		ParentRoot:    bytesutil.SafeCopyBytes(h.ParentRoot),
		StateRoot:     bytesutil.SafeCopyBytes(h.StateRoot),
		BodyRoot:      bytesutil.SafeCopyBytes(h.BodyRoot),
	}
}

func copyValidator(v *gloas.Validator) *gloas.Validator {
	return &gloas.Validator{
		PublicKey:             bytesutil.SafeCopyBytes(v.PublicKey),
		WithdrawalCredentials: bytesutil.SafeCopyBytes(v.WithdrawalCredentials),
		EffectiveBalance:      v.EffectiveBalance,
		Slashed:               v.Slashed,
		ActivationEpoch:       v.ActivationEpoch,
		ExitEpoch:             v.ExitEpoch,
		WithdrawableEpoch:     v.WithdrawableEpoch,
	}
}

func copyBuilder(b *gloas.Builder) *gloas.Builder {
	return &gloas.Builder{
		PublicKey:         bytesutil.SafeCopyBytes(b.PublicKey),
		ExecutionAddress:  bytesutil.SafeCopyBytes(b.ExecutionAddress),
		Balance:           b.Balance,
		DepositEpoch:      b.DepositEpoch,
		WithdrawableEpoch: b.WithdrawableEpoch,
	}
}

func copyBid(bid *gloas.ExecutionPayloadBid) *gloas.ExecutionPayloadBid {
	var commitments [][]byte
	if bid.BlobKzgCommitments != nil {
		commitments = make([][]byte, len(bid.BlobKzgCommitments))
		for i, c := range bid.BlobKzgCommitments {
			commitments[i] = bytesutil.SafeCopyBytes(c)
		}
	}
	return &gloas.ExecutionPayloadBid{
		ParentBlockHash:    bytesutil.SafeCopyBytes(bid.ParentBlockHash),
		ParentBlockRoot:    bytesutil.SafeCopyBytes(bid.ParentBlockRoot),
		BlockHash:          bytesutil.SafeCopyBytes(bid.BlockHash),
		PrevRandao:         bytesutil.SafeCopyBytes(bid.PrevRandao),
		FeeRecipient:       bytesutil.SafeCopyBytes(bid.FeeRecipient),
		GasLimit:           bid.GasLimit,
		BuilderIndex:       bid.BuilderIndex,
		Slot:               bid.Slot,
		Value:              bid.Value,
		ExecutionPayment:   bid.ExecutionPayment,
		BlobKzgCommitments: commitments,
	}
}

func copyPendingWithdrawal(w *gloas.BuilderPendingWithdrawal) *gloas.BuilderPendingWithdrawal {
	return &gloas.BuilderPendingWithdrawal{
		FeeRecipient: bytesutil.SafeCopyBytes(w.FeeRecipient),
		Amount:       w.Amount,
		BuilderIndex: w.BuilderIndex,
	}
}

func copyPendingPayment(p *gloas.BuilderPendingPayment) *gloas.BuilderPendingPayment {
	return &gloas.BuilderPendingPayment{
		Weight:     p.Weight,
		Withdrawal: copyPendingWithdrawal(p.Withdrawal),
	}
}
