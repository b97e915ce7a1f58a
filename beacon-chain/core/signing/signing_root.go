// Package signing provides the domain separation and signing root helpers
// used to produce and verify consensus signatures.
package signing

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/pkg/errors"

	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/crypto/bls"
)

// ErrSigFailedToVerify returns when a signature of a block object(ie attestation, slashing, exit... etc)
// failed to verify.
var ErrSigFailedToVerify = errors.New("signature did not verify")

// ErrNilFork is returned when a nil fork is passed to a domain computation.
var ErrNilFork = errors.New("nil fork")

// DomainByteLength length of domain byte array.
const DomainByteLength = 4

// ForkVersionByteLength length of fork version byte array.
const ForkVersionByteLength = 4

// ComputeSigningRoot computes the root of the object by calculating the hash
// tree root of the signing data with the given domain.
//
// Spec pseudocode definition:
//
//	def compute_signing_root(ssz_object: SSZObject, domain: Domain) -> Root:
//	  """
//	  Return the signing root for the corresponding signing data.
//	  """
//	  return hash_tree_root(SigningData(
//	      object_root=hash_tree_root(ssz_object),
//	      domain=domain,
//	  ))
func ComputeSigningRoot(object ssz.HashRoot, domain []byte) ([32]byte, error) {
	objRoot, err := object.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	return signingData(objRoot, domain)
}

// ComputeSigningRootForRoot computes the signing root for an object whose
// hash tree root is already known.
func ComputeSigningRootForRoot(objRoot [32]byte, domain []byte) ([32]byte, error) {
	return signingData(objRoot, domain)
}

// signingData hashes the SigningData container {object_root, domain}.
func signingData(objRoot [32]byte, domain []byte) ([32]byte, error) {
	if len(domain) != 32 {
		return [32]byte{}, errors.New("domain must be 32 bytes")
	}
	hh := ssz.DefaultHasherPool.Get()
	defer ssz.DefaultHasherPool.Put(hh)
	indx := hh.Index()
	hh.PutBytes(objRoot[:])
	hh.PutBytes(domain)
	hh.Merkleize(indx)
	return hh.HashRoot()
}

// computeForkDataRoot hashes the ForkData container
// {current_version, genesis_validators_root}.
func computeForkDataRoot(version, root []byte) ([32]byte, error) {
	if len(version) != ForkVersionByteLength {
		return [32]byte{}, errors.New("fork version must be 4 bytes")
	}
	hh := ssz.DefaultHasherPool.Get()
	defer ssz.DefaultHasherPool.Put(hh)
	indx := hh.Index()
	hh.PutBytes(version)
	hh.PutBytes(root)
	hh.Merkleize(indx)
	return hh.HashRoot()
}

// ComputeDomain returns the domain version for BLS private key to sign and verify with a zeroed 4-byte
// array as the fork version.
//
// def compute_domain(domain_type: DomainType, fork_version: Version=None, genesis_validators_root: Root=None) -> Domain:
//
//	"""
//	Return the domain for the ``domain_type`` and ``fork_version``.
//	"""
//	if fork_version is None:
//	    fork_version = GENESIS_FORK_VERSION
//	if genesis_validators_root is None:
//	    genesis_validators_root = Root()  # all bytes zero by default
//	fork_data_root = compute_fork_data_root(fork_version, genesis_validators_root)
//	return Domain(domain_type + fork_data_root[:28])
func ComputeDomain(domainType [DomainByteLength]byte, forkVersion, genesisValidatorsRoot []byte) ([]byte, error) {
	if forkVersion == nil {
		forkVersion = make([]byte, ForkVersionByteLength)
	}
	if genesisValidatorsRoot == nil {
		genesisValidatorsRoot = make([]byte, 32)
	}
	forkDataRoot, err := computeForkDataRoot(forkVersion, genesisValidatorsRoot)
	if err != nil {
		return nil, err
	}
	domain := make([]byte, 32)
	copy(domain, domainType[:])
	copy(domain[DomainByteLength:], forkDataRoot[:28])
	return domain, nil
}

// Domain returns the domain version for BLS private key to sign and verify.
func Domain(f *gloas.Fork, epoch primitives.Epoch, domainType [DomainByteLength]byte, genesisRoot []byte) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFork
	}
	var forkVersion []byte
	if epoch < f.Epoch {
		forkVersion = f.PreviousVersion
	} else {
		forkVersion = f.CurrentVersion
	}
	if len(forkVersion) != ForkVersionByteLength {
		return nil, errors.New("fork version length is not 4 byte")
	}
	return ComputeDomain(domainType, forkVersion, genesisRoot)
}

// VerifySigningRoot verifies the signing root of an object given its public key, signature and domain.
func VerifySigningRoot(obj ssz.HashRoot, pub, signature, domain []byte) error {
	publicKey, err := bls.PublicKeyFromBytes(pub)
	if err != nil {
		return errors.Wrap(err, "could not convert bytes to public key")
	}
	sig, err := bls.SignatureFromBytes(signature)
	if err != nil {
		return errors.Wrap(err, "could not convert bytes to signature")
	}
	root, err := ComputeSigningRoot(obj, domain)
	if err != nil {
		return errors.Wrap(err, "could not compute signing root")
	}
	if !sig.Verify(publicKey, root[:]) {
		return ErrSigFailedToVerify
	}
	return nil
}
