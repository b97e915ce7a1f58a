package primitives

// Gwei is a denomination of 1e9 wei, the unit all consensus balances and
// builder payments are expressed in.
type Gwei uint64
