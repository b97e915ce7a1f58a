// Package params defines the protocol constants the consensus processing
// code depends on.
package params

import (
	"time"

	"github.com/dapplion/gloas/consensus-types/primitives"
)

// BeaconChainConfig contains constant configs for the node to participate in the beacon chain.
type BeaconChainConfig struct {
	// Misc constants.
	PresetBase             string           `yaml:"PRESET_BASE" spec:"true"`
	ConfigName             string           `yaml:"CONFIG_NAME" spec:"true"`
	GenesisSlot            primitives.Slot  `yaml:"GENESIS_SLOT"`
	GenesisEpoch           primitives.Epoch `yaml:"GENESIS_EPOCH"`
	FarFutureEpoch         primitives.Epoch `yaml:"FAR_FUTURE_EPOCH"`
	SecondsPerSlot         uint64           `yaml:"SECONDS_PER_SLOT" spec:"true"`
	SlotsPerEpoch          primitives.Slot  `yaml:"SLOTS_PER_EPOCH" spec:"true"`
	SlotsPerHistoricalRoot primitives.Slot  `yaml:"SLOTS_PER_HISTORICAL_ROOT" spec:"true"`
	IntervalsPerSlot       uint64           `yaml:"INTERVALS_PER_SLOT" spec:"true"`
	IntervalsPerSlotGloas  uint64           `yaml:"INTERVALS_PER_SLOT_GLOAS" spec:"true"`

	// Validator and balance constants.
	MaxEffectiveBalance       uint64 `yaml:"MAX_EFFECTIVE_BALANCE" spec:"true"`
	EffectiveBalanceIncrement uint64 `yaml:"EFFECTIVE_BALANCE_INCREMENT" spec:"true"`
	MinDepositAmount          uint64 `yaml:"MIN_DEPOSIT_AMOUNT" spec:"true"`

	// Builder constants.
	PTCSize                            uint64          `yaml:"PTC_SIZE" spec:"true"`
	PayloadTimelyThresholdNumerator    uint64          `yaml:"PAYLOAD_TIMELY_THRESHOLD_NUMERATOR" spec:"true"`
	PayloadTimelyThresholdDenominator  uint64          `yaml:"PAYLOAD_TIMELY_THRESHOLD_DENOMINATOR" spec:"true"`
	BuilderPaymentThresholdNumerator   uint64          `yaml:"BUILDER_PAYMENT_THRESHOLD_NUMERATOR" spec:"true"`
	BuilderPaymentThresholdDenominator uint64          `yaml:"BUILDER_PAYMENT_THRESHOLD_DENOMINATOR" spec:"true"`
	ExecutionPayloadBidRetentionSlots  primitives.Slot // Slots a pooled bid stays eligible for block production.

	// Withdrawal credential prefixes.
	BLSWithdrawalPrefixByte         byte `yaml:"BLS_WITHDRAWAL_PREFIX" spec:"true"`
	ETH1AddressWithdrawalPrefixByte byte `yaml:"ETH1_ADDRESS_WITHDRAWAL_PREFIX" spec:"true"`
	BuilderWithdrawalPrefixByte     byte `yaml:"BUILDER_WITHDRAWAL_PREFIX" spec:"true"`

	// Signature domains.
	DomainBeaconProposer [4]byte `yaml:"DOMAIN_BEACON_PROPOSER" spec:"true"`
	DomainBeaconAttester [4]byte `yaml:"DOMAIN_BEACON_ATTESTER" spec:"true"`
	DomainDeposit        [4]byte `yaml:"DOMAIN_DEPOSIT" spec:"true"`
	DomainRandao         [4]byte `yaml:"DOMAIN_RANDAO" spec:"true"`
	DomainBeaconBuilder  [4]byte `yaml:"DOMAIN_BEACON_BUILDER" spec:"true"`
	DomainPTCAttester    [4]byte `yaml:"DOMAIN_PTC_ATTESTER" spec:"true"`

	// Fork schedule.
	GenesisForkVersion []byte           `yaml:"GENESIS_FORK_VERSION" spec:"true"`
	GloasForkVersion   []byte           `yaml:"GLOAS_FORK_VERSION" spec:"true"`
	GloasForkEpoch     primitives.Epoch `yaml:"GLOAS_FORK_EPOCH" spec:"true"`
}

// MaximumGossipClockDisparity returns the tolerated wall-clock disparity for
// gossip timing checks. It is a fixed fraction of the slot duration derived
// from the number of intra-slot intervals, so the window tightens when the
// slot is divided into four intervals instead of three.
func (b *BeaconChainConfig) MaximumGossipClockDisparity() time.Duration {
	intervals := b.IntervalsPerSlotGloas
	if intervals == 0 {
		intervals = b.IntervalsPerSlot
	}
	return time.Duration(b.SecondsPerSlot) * time.Second / time.Duration(6*intervals)
}

var beaconConfig = MainnetConfig()

// BeaconConfig retrieves the beacon chain config.
func BeaconConfig() *BeaconChainConfig {
	return beaconConfig
}

// OverrideBeaconConfig by replacing the config. The preferred pattern is to
// call BeaconConfig(), change the specific parameters, and then call
// OverrideBeaconConfig(c). Any subsequent calls to params.BeaconConfig()
// will return this new configuration.
func OverrideBeaconConfig(c *BeaconChainConfig) {
	beaconConfig = c
}

// Copy returns a copy of the config object.
func (b *BeaconChainConfig) Copy() *BeaconChainConfig {
	config := *b
	config.GenesisForkVersion = append([]byte{}, b.GenesisForkVersion...)
	config.GloasForkVersion = append([]byte{}, b.GloasForkVersion...)
	return &config
}
