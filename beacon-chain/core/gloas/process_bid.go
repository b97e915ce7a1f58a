// Package gloas implements the Gloas fork state transition: bid commitment,
// envelope processing, payload attestation processing and builder payment
// settlement.
package gloas

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/config/params"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls/common"
	"github.com/dapplion/gloas/time/slots"
)

// ProcessExecutionPayloadBid commits the block's bid into the state. It
// validates the bid against the state, records it as the slot's committed
// bid, and queues the builder's payment into the next-epoch half of the
// pending payment window. Self-build bids skip the builder checks and queue
// no payment.
func ProcessExecutionPayloadBid(st *state.BeaconState, signed *gloastypes.SignedExecutionPayloadBid, proposerIndex primitives.ValidatorIndex) error {
	if st == nil {
		return state.ErrNilState
	}
	if signed == nil || signed.Message == nil {
		return ErrNilBid
	}
	bid := signed.Message

	if bid.Slot != st.Slot() {
		return ErrBidSlotMismatch
	}
	latestBlockHash := st.LatestBlockHash()
	if !bytes.Equal(bid.ParentBlockHash, latestBlockHash[:]) {
		return ErrBidParentHashMismatch
	}
	headerRoot, err := st.LatestBlockHeader().HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash latest block header")
	}
	if !bytes.Equal(bid.ParentBlockRoot, headerRoot[:]) {
		return ErrBidParentRootMismatch
	}
	if bid.ExecutionPayment != 0 {
		return ErrNonZeroReservedPayment
	}

	if bid.BuilderIndex == primitives.SelfBuilderIndex {
		if bid.Value != 0 {
			return ErrSelfBuildNonZeroValue
		}
		if !bytes.Equal(signed.Signature, common.InfiniteSignature[:]) {
			return ErrSelfBuildSignature
		}
		st.SetLatestExecutionPayloadBid(bid)
		return nil
	}

	builder, err := st.BuilderAtIndex(bid.BuilderIndex)
	if err != nil {
		return ErrUnknownBuilder
	}
	active, err := st.IsActiveBuilder(bid.BuilderIndex)
	if err != nil {
		return err
	}
	if !active {
		return ErrBuilderInactive
	}
	// Ordered so the sum of value and obligations cannot wrap uint64.
	if bid.Value > builder.Balance {
		return ErrInsufficientBuilderBalance
	}
	if st.PendingBuilderObligations(bid.BuilderIndex) > builder.Balance-bid.Value {
		return ErrInsufficientBuilderBalance
	}

	if err := verifyBidSignature(st, signed, builder.PublicKey); err != nil {
		return err
	}

	st.SetLatestExecutionPayloadBid(bid)

	proposer, err := st.ValidatorAtIndex(proposerIndex)
	if err != nil {
		return err
	}
	payment := &gloastypes.BuilderPendingPayment{
		Withdrawal: &gloastypes.BuilderPendingWithdrawal{
			FeeRecipient: executionAddress(proposer.WithdrawalCredentials),
			Amount:       bid.Value,
			BuilderIndex: bid.BuilderIndex,
		},
	}
	windowIdx := uint64(fieldparams.SlotsPerEpoch) + uint64(bid.Slot%params.BeaconConfig().SlotsPerEpoch)
	if err := st.SetBuilderPendingPayment(windowIdx, payment); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"slot":         bid.Slot,
		"builderIndex": bid.BuilderIndex,
		"value":        bid.Value,
	}).Debug("Committed execution payload bid")
	return nil
}

// verifyBidSignature checks the builder's signature over the bid with the
// builder domain at the bid's epoch.
func verifyBidSignature(st *state.BeaconState, signed *gloastypes.SignedExecutionPayloadBid, pubkey []byte) error {
	gvr := st.GenesisValidatorsRoot()
	domain, err := signing.Domain(st.Fork(), slots.ToEpoch(signed.Message.Slot), params.BeaconConfig().DomainBeaconBuilder, gvr[:])
	if err != nil {
		return err
	}
	return signing.VerifySigningRoot(signed.Message, pubkey, signed.Signature, domain)
}

// executionAddress extracts the execution-layer address from withdrawal
// credentials. Credentials without an address-bearing prefix yield the zero
// address.
func executionAddress(credentials []byte) []byte {
	if len(credentials) != 32 {
		return make([]byte, fieldparams.FeeRecipientLength)
	}
	switch credentials[0] {
	case params.BeaconConfig().ETH1AddressWithdrawalPrefixByte, params.BeaconConfig().BuilderWithdrawalPrefixByte:
		return bytes.Clone(credentials[12:])
	default:
		return make([]byte, fieldparams.FeeRecipientLength)
	}
}
