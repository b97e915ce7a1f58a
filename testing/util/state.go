// Package util provides deterministic fixtures for tests: genesis states
// with funded validators and builders, and signing helpers for the payload
// market message types.
package util

import (
	"encoding/binary"
	"testing"

	"github.com/dapplion/gloas/beacon-chain/state"
	fieldparams "github.com/dapplion/gloas/config/fieldparams"
	"github.com/dapplion/gloas/config/params"
	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
	"github.com/dapplion/gloas/crypto/hash"
	"github.com/dapplion/gloas/encoding/bytesutil"
	"github.com/dapplion/gloas/testing/require"
)

// DeterministicKeys returns n BLS secret keys derived from small fixed
// scalars, so fixtures are reproducible across runs.
func DeterministicKeys(t testing.TB, n uint64) []bls.SecretKey {
	keys := make([]bls.SecretKey, n)
	for i := uint64(0); i < n; i++ {
		scalar := make([]byte, 32)
		binary.BigEndian.PutUint64(scalar[24:], i+1)
		key, err := bls.SecretKeyFromBytes(scalar)
		require.NoError(t, err)
		keys[i] = key
	}
	return keys
}

// DeterministicGenesisState returns a genesis state with numValidators
// active, maximally effective validators and the secret keys backing them.
// The finalized checkpoint is advanced to epoch 1 so builders with a
// genesis deposit count as active.
func DeterministicGenesisState(t testing.TB, numValidators uint64) (*state.BeaconState, []bls.SecretKey) {
	keys := DeterministicKeys(t, numValidators)
	st := state.New(0, bytesutil.ToBytes32([]byte("genesisvalidatorsroot")))
	cfg := params.BeaconConfig()
	for _, key := range keys {
		pub := key.PublicKey().Marshal()
		creds := make([]byte, fieldparams.RootLength)
		creds[0] = cfg.ETH1AddressWithdrawalPrefixByte
		addr := hash.Hash(pub)
		copy(creds[12:], addr[12:])
		st.AppendValidator(&gloas.Validator{
			PublicKey:             pub,
			WithdrawalCredentials: creds,
			EffectiveBalance:      cfg.MaxEffectiveBalance,
			ExitEpoch:             cfg.FarFutureEpoch,
			WithdrawableEpoch:     cfg.FarFutureEpoch,
		}, cfg.MaxEffectiveBalance)
	}
	st.SetRandaoMix(bytesutil.ToBytes32([]byte("randaomix")))
	finalizedRoot := bytesutil.ToBytes32([]byte("finalized"))
	st.SetFinalizedCheckpoint(&gloas.Checkpoint{Epoch: 1, Root: finalizedRoot[:]})
	return st, keys
}

// RegisterBuilder appends an active builder funded with the given balance
// and returns its registry index.
func RegisterBuilder(t testing.TB, st *state.BeaconState, key bls.SecretKey, balance primitives.Gwei) primitives.BuilderIndex {
	pub := key.PublicKey().Marshal()
	addr := hash.Hash(pub)
	return st.AppendBuilder(&gloas.Builder{
		PublicKey:         pub,
		ExecutionAddress:  bytesutil.SafeCopyBytes(addr[12:]),
		Balance:           balance,
		DepositEpoch:      0,
		WithdrawableEpoch: params.BeaconConfig().FarFutureEpoch,
	}, 0)
}
