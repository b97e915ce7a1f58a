package field_params

const (
	Preset                             = "mainnet"
	RootLength                         = 32            // RootLength defines the byte length of a Merkle root.
	BLSSignatureLength                 = 96            // BLSSignatureLength defines the byte length of a BLS signature.
	BLSPubkeyLength                    = 48            // BLSPubkeyLength defines the byte length of a BLS public key.
	FeeRecipientLength                 = 20            // FeeRecipientLength defines the byte length of an execution address.
	LogsBloomLength                    = 256           // LogsBloomLength defines the byte length of a logs bloom.
	VersionLength                      = 4             // VersionLength defines the byte length of a fork version number.
	SlotsPerEpoch                      = 32            // SlotsPerEpoch defines the number of slots per epoch.
	SlotsPerHistoricalRoot             = 8192          // SlotsPerHistoricalRoot defines the historical slot window kept in state vectors.
	ValidatorRegistryLimit             = 1099511627776 // ValidatorRegistryLimit defines the upper bound of the validator list.
	BuilderRegistryLimit               = 1099511627776 // BuilderRegistryLimit defines the upper bound of the builder list.
	PTCSize                            = 512           // PTCSize defines the number of members of the payload timeliness committee.
	MaxTxsPerPayloadLength             = 1048576       // MaxTxsPerPayloadLength defines the maximum number of transactions in a payload.
	MaxBytesPerTxLength                = 1073741824    // MaxBytesPerTxLength defines the maximum number of bytes in a transaction.
	MaxWithdrawalsPerPayload           = 16            // MaxWithdrawalsPerPayload defines the maximum number of withdrawals in a payload.
	MaxBlobCommitmentsPerBlock         = 4096          // MaxBlobCommitmentsPerBlock defines the theoretical limit of blobs in a block.
	ExecutionPayloadAvailabilityLength = 8192          // ExecutionPayloadAvailabilityLength defines the per-slot availability bitvector length.
	BuilderPendingPaymentsLength       = 64            // BuilderPendingPaymentsLength is 2 * SlotsPerEpoch, the rotating payment window.
	BuilderPendingWithdrawalsLimit     = 1048576       // BuilderPendingWithdrawalsLimit bounds the pending builder withdrawal queue.
	MaxDepositRequestsPerPayload       = 8192          // MaxDepositRequestsPerPayload bounds deposit requests in an envelope.
	MaxWithdrawalRequestsPerPayload    = 16            // MaxWithdrawalRequestsPerPayload bounds withdrawal requests in an envelope.
	MaxConsolidationRequestsPerPayload = 2             // MaxConsolidationRequestsPerPayload bounds consolidation requests in an envelope.
)
