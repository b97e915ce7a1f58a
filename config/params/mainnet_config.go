package params

import (
	"math"

	"github.com/dapplion/gloas/consensus-types/primitives"
)

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig.Copy()
}

var mainnetBeaconConfig = &BeaconChainConfig{
	PresetBase: "mainnet",
	ConfigName: "mainnet",

	GenesisSlot:            0,
	GenesisEpoch:           0,
	FarFutureEpoch:         primitives.Epoch(math.MaxUint64),
	SecondsPerSlot:         12,
	SlotsPerEpoch:          32,
	SlotsPerHistoricalRoot: 8192,
	IntervalsPerSlot:       3,
	IntervalsPerSlotGloas:  4,

	MaxEffectiveBalance:       32 * 1e9,
	EffectiveBalanceIncrement: 1 * 1e9,
	MinDepositAmount:          1 * 1e9,

	PTCSize:                            512,
	PayloadTimelyThresholdNumerator:    60,
	PayloadTimelyThresholdDenominator:  100,
	BuilderPaymentThresholdNumerator:   60,
	BuilderPaymentThresholdDenominator: 100,
	ExecutionPayloadBidRetentionSlots:  4,

	BLSWithdrawalPrefixByte:         byte(0),
	ETH1AddressWithdrawalPrefixByte: byte(1),
	BuilderWithdrawalPrefixByte:     byte(0x0b),

	DomainBeaconProposer: [4]byte{0x00, 0x00, 0x00, 0x00},
	DomainBeaconAttester: [4]byte{0x01, 0x00, 0x00, 0x00},
	DomainDeposit:        [4]byte{0x03, 0x00, 0x00, 0x00},
	DomainRandao:         [4]byte{0x02, 0x00, 0x00, 0x00},
	DomainPTCAttester:    [4]byte{0x0c, 0x00, 0x00, 0x00},
	DomainBeaconBuilder:  [4]byte{0x1b, 0x00, 0x00, 0x00},

	GenesisForkVersion: []byte{0, 0, 0, 0},
	GloasForkVersion:   []byte{8, 0, 0, 0},
	GloasForkEpoch:     0,
}

type testingTB interface {
	Cleanup(func())
}

// SetupTestConfigCleanup registers a cleanup that restores the active config
// after the test mutates it through OverrideBeaconConfig.
func SetupTestConfigCleanup(t testingTB) {
	prev := beaconConfig
	t.Cleanup(func() {
		beaconConfig = prev
	})
}
