package gloas

import (
	"bytes"

	ssz "github.com/ferranbt/fastssz"
	log "github.com/sirupsen/logrus"

	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/config/params"
	gloastypes "github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
	"github.com/dapplion/gloas/time/slots"
)

// processExecutionRequests applies the execution-layer requests revealed
// with the payload. In this fork they are processed at envelope time, since
// the payload and its requests are unknown until the builder reveal.
func processExecutionRequests(st *state.BeaconState, requests *gloastypes.ExecutionRequests) error {
	for _, dep := range requests.Deposits {
		if err := applyDepositRequest(st, dep); err != nil {
			return err
		}
	}
	for _, w := range requests.Withdrawals {
		applyWithdrawalRequest(st, w)
	}
	// Consolidation requests carry no balance effect for builders; they are
	// validated structurally and otherwise ignored in this fork.
	return nil
}

// applyDepositRequest routes a deposit by its withdrawal credential prefix:
// the builder prefix funds the builder registry, the validator prefixes
// fund the validator registry. A deposit with an invalid signature is
// skipped without failing the envelope, matching deposit semantics in
// earlier forks.
func applyDepositRequest(st *state.BeaconState, dep *gloastypes.DepositRequest) error {
	if len(dep.WithdrawalCredentials) != 32 {
		return ErrDepositPrefix
	}
	if err := verifyDepositSignature(dep); err != nil {
		log.WithError(err).Debug("Skipping deposit with invalid signature")
		return nil
	}
	if dep.WithdrawalCredentials[0] == params.BeaconConfig().BuilderWithdrawalPrefixByte {
		applyBuilderDeposit(st, dep)
		return nil
	}
	applyValidatorDeposit(st, dep)
	return nil
}

// applyBuilderDeposit tops up an existing builder with the same pubkey or
// registers a new one. A withdrawn, zero-balance registry slot is reused
// before the registry grows.
func applyBuilderDeposit(st *state.BeaconState, dep *gloastypes.DepositRequest) {
	if idx, ok := st.BuilderPubkeyIndex(dep.Pubkey); ok {
		// Top-up only; the lookup succeeded so the index is in range.
		_ = st.IncreaseBuilderBalance(idx, primitives.Gwei(dep.Amount))
		return
	}
	nextEpoch := slots.ToEpoch(st.Slot()) + 1
	idx := st.AppendBuilder(&gloastypes.Builder{
		PublicKey:         bytes.Clone(dep.Pubkey),
		ExecutionAddress:  bytes.Clone(dep.WithdrawalCredentials[12:]),
		Balance:           primitives.Gwei(dep.Amount),
		DepositEpoch:      nextEpoch,
		WithdrawableEpoch: params.BeaconConfig().FarFutureEpoch,
	}, slots.ToEpoch(st.Slot()))
	log.WithFields(log.Fields{
		"builderIndex": idx,
		"depositEpoch": nextEpoch,
	}).Debug("Registered builder")
}

func applyValidatorDeposit(st *state.BeaconState, dep *gloastypes.DepositRequest) {
	for i := 0; i < st.NumValidators(); i++ {
		v, err := st.ValidatorAtIndex(primitives.ValidatorIndex(i))
		if err != nil {
			return
		}
		if bytes.Equal(v.PublicKey, dep.Pubkey) {
			_ = st.IncreaseBalance(primitives.ValidatorIndex(i), dep.Amount)
			return
		}
	}
	effective := dep.Amount - dep.Amount%params.BeaconConfig().EffectiveBalanceIncrement
	if effective > params.BeaconConfig().MaxEffectiveBalance {
		effective = params.BeaconConfig().MaxEffectiveBalance
	}
	st.AppendValidator(&gloastypes.Validator{
		PublicKey:             bytes.Clone(dep.Pubkey),
		WithdrawalCredentials: bytes.Clone(dep.WithdrawalCredentials),
		EffectiveBalance:      effective,
		ActivationEpoch:       slots.ToEpoch(st.Slot()) + 1,
		ExitEpoch:             params.BeaconConfig().FarFutureEpoch,
		WithdrawableEpoch:     params.BeaconConfig().FarFutureEpoch,
	}, dep.Amount)
}

// applyWithdrawalRequest initiates a builder exit when the request comes
// from the builder's registered execution address. Requests that do not
// resolve to a builder are not errors at this layer; they belong to the
// validator withdrawal path outside this sub-protocol.
func applyWithdrawalRequest(st *state.BeaconState, req *gloastypes.WithdrawalRequest) {
	idx, ok := st.BuilderPubkeyIndex(req.ValidatorPubkey)
	if !ok {
		return
	}
	builder, err := st.BuilderAtIndex(idx)
	if err != nil {
		return
	}
	if !bytes.Equal(req.SourceAddress, builder.ExecutionAddress) {
		return
	}
	if builder.WithdrawableEpoch != params.BeaconConfig().FarFutureEpoch {
		return
	}
	exitEpoch := slots.ToEpoch(st.Slot()) + 1
	_ = st.SetBuilderWithdrawableEpoch(idx, exitEpoch)
	// Queue the remaining balance, net of outstanding obligations, for
	// release to the builder's execution address.
	remaining := builder.Balance
	obligations := st.PendingBuilderObligations(idx)
	if obligations >= remaining {
		return
	}
	st.AppendBuilderPendingWithdrawal(&gloastypes.BuilderPendingWithdrawal{
		FeeRecipient: bytes.Clone(builder.ExecutionAddress),
		Amount:       remaining - obligations,
		BuilderIndex: idx,
	})
}

// verifyDepositSignature checks the proof of possession over the deposit
// message {pubkey, withdrawal_credentials, amount} with the deposit domain.
// Deposit signatures bind to the genesis fork version and a zero
// genesis validators root, as for ordinary validator deposits.
func verifyDepositSignature(dep *gloastypes.DepositRequest) error {
	domain, err := signing.ComputeDomain(params.BeaconConfig().DomainDeposit, params.BeaconConfig().GenesisForkVersion, nil)
	if err != nil {
		return err
	}
	root, err := depositMessageRoot(dep)
	if err != nil {
		return err
	}
	signingRoot, err := signing.ComputeSigningRootForRoot(root, domain)
	if err != nil {
		return err
	}
	return verifyBLS(dep.Pubkey, dep.Signature, signingRoot)
}

func verifyBLS(pub, sig []byte, msg [32]byte) error {
	publicKey, err := bls.PublicKeyFromBytes(pub)
	if err != nil {
		return err
	}
	signature, err := bls.SignatureFromBytes(sig)
	if err != nil {
		return err
	}
	if !signature.Verify(publicKey, msg[:]) {
		return ErrDepositSignature
	}
	return nil
}

// depositMessageRoot hashes the DepositMessage container.
func depositMessageRoot(dep *gloastypes.DepositRequest) ([32]byte, error) {
	hh := ssz.DefaultHasherPool.Get()
	defer ssz.DefaultHasherPool.Put(hh)
	indx := hh.Index()
	if len(dep.Pubkey) != 48 {
		return [32]byte{}, ssz.ErrBytesLength
	}
	hh.PutBytes(dep.Pubkey)
	if len(dep.WithdrawalCredentials) != 32 {
		return [32]byte{}, ssz.ErrBytesLength
	}
	hh.PutBytes(dep.WithdrawalCredentials)
	hh.PutUint64(dep.Amount)
	hh.Merkleize(indx)
	return hh.HashRoot()
}
