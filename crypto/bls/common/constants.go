package common

// BLSSecretKeyLength is the expected length of serialized secret keys.
const BLSSecretKeyLength = 32

// BLSPubkeyLength is the expected length of serialized public keys.
const BLSPubkeyLength = 48

// BLSSignatureLength is the expected length of serialized signatures.
const BLSSignatureLength = 96

// ZeroSecretKey represents a zero secret key.
var ZeroSecretKey = [BLSSecretKeyLength]byte{}

// InfinitePublicKey represents an infinite public key (G1 point at infinity).
var InfinitePublicKey = [BLSPubkeyLength]byte{0xC0}

// InfiniteSignature represents an infinite signature (G2 point at infinity).
var InfiniteSignature = [BLSSignatureLength]byte{0xC0}
