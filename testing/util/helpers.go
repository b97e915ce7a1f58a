package util

import (
	"testing"

	ssz "github.com/ferranbt/fastssz"

	"github.com/dapplion/gloas/beacon-chain/core/signing"
	"github.com/dapplion/gloas/beacon-chain/state"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
	"github.com/dapplion/gloas/testing/require"
)

// ComputeDomainAndSign computes the domain and signing root and signs the
// object with the given key.
func ComputeDomainAndSign(t testing.TB, st *state.BeaconState, epoch primitives.Epoch, obj ssz.HashRoot, domainType [4]byte, key bls.SecretKey) []byte {
	gvr := st.GenesisValidatorsRoot()
	domain, err := signing.Domain(st.Fork(), epoch, domainType, gvr[:])
	require.NoError(t, err)
	root, err := signing.ComputeSigningRoot(obj, domain)
	require.NoError(t, err)
	return key.Sign(root[:]).Marshal()
}
