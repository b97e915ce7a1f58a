package blst

import blst "github.com/supranational/blst/bindings/go"

// Internal types for blst. The eth2 ciphersuite uses the "minimal pubkey
// size" variant, with public keys in G1 and signatures in G2.
type blstPublicKey = blst.P1Affine
type blstSignature = blst.P2Affine
type blstAggregateSignature = blst.P2Aggregate
type blstAggregatePublicKey = blst.P1Aggregate
