package config

import (
	"fmt"
	"math/big"
	"time"
)

// Environment variable names for bridge configuration
const (
	EnvBridgeChain          = "BRIDGE_CHAIN"
	EnvBridgeGasPrice       = "BRIDGE_GAS_PRICE"
	EnvBridgeMinTransferFee = "BRIDGE_MIN_TRANSFER_FEE"
	EnvBridgeMinInvokeFee   = "BRIDGE_MIN_INVOKE_FEE"
	EnvBridgeVerbose        = "BRIDGE_VERBOSE"
)

// ChainName identifies a deployment of the ledger.
type ChainName string

const (
	ChainName_Mainnet ChainName = "mainnet"
	ChainName_Testnet ChainName = "testnet"
	ChainName_Devnet  ChainName = "devnet"
)

// Chain discriminant bytes embedded in native addresses.
const (
	ChainByte_Mainnet byte = 'C'
	ChainByte_Testnet byte = 'T'
	ChainByte_Devnet  byte = 'D'
)

// EIP-155 chain IDs advertised to foreign-side signers. Each native chain
// byte maps 1:1 to a foreign chain ID; the signature discriminant and the
// address discriminant must agree.
const (
	ForeignChainId_Mainnet uint64 = 2030
	ForeignChainId_Testnet uint64 = 2031
	ForeignChainId_Devnet  uint64 = 2032
)

var chainByteToForeignId = map[byte]uint64{
	ChainByte_Mainnet: ForeignChainId_Mainnet,
	ChainByte_Testnet: ForeignChainId_Testnet,
	ChainByte_Devnet:  ForeignChainId_Devnet,
}

var chainNameToByte = map[ChainName]byte{
	ChainName_Mainnet: ChainByte_Mainnet,
	ChainName_Testnet: ChainByte_Testnet,
	ChainName_Devnet:  ChainByte_Devnet,
}

// ForeignChainId returns the EIP-155 chain ID for a native chain byte.
func ForeignChainId(chainByte byte) (uint64, error) {
	id, ok := chainByteToForeignId[chainByte]
	if !ok {
		return 0, fmt.Errorf("unknown chain discriminant %q", chainByte)
	}
	return id, nil
}

// ChainByteForName resolves a chain name to its discriminant byte.
func ChainByteForName(name ChainName) (byte, error) {
	b, ok := chainNameToByte[name]
	if !ok {
		return 0, fmt.Errorf("unknown chain name %q", name)
	}
	return b, nil
}

// FeatureBridge is the ledger feature flag gating the whole bridge. Until
// it activates, every foreign transaction is rejected.
const FeatureBridge int16 = 17

// ContractStandardVersion versions the contract calling convention; the
// attached-payment maximum depends on it.
type ContractStandardVersion uint8

const (
	ContractStandardV1 ContractStandardVersion = 1
	ContractStandardV2 ContractStandardVersion = 2
)

const (
	MaxPaymentsV1 = 2
	MaxPaymentsV2 = 10
)

// MaxPayments returns the attached-payment maximum for a standard version.
func MaxPayments(v ContractStandardVersion) (int, error) {
	switch v {
	case ContractStandardV1:
		return MaxPaymentsV1, nil
	case ContractStandardV2:
		return MaxPaymentsV2, nil
	default:
		return 0, fmt.Errorf("unsupported contract standard version: %d", v)
	}
}

// WeiPerNativeUnit is the scale between the foreign 18-decimal value unit
// and the native 8-decimal unit. Foreign values must be exact multiples.
var WeiPerNativeUnit = big.NewInt(10_000_000_000)

// Parameters are the consensus-relevant bridge constants. They are fixed
// per protocol version but exposed as configuration rather than literals;
// there is no reload mechanism.
type Parameters struct {
	// ChainByte is the native chain discriminant.
	ChainByte byte

	// GasPrice is the single gas price the bridge accepts, in wei.
	GasPrice *big.Int

	// MinTransferFee and MinInvokeFee are the fee floors in native units.
	MinTransferFee int64
	MinInvokeFee   int64

	// MaxFutureDrift and MaxPastDrift bound the transaction timestamp
	// relative to the validating node's clock.
	MaxFutureDrift time.Duration
	MaxPastDrift   time.Duration

	// BridgeFeature is the activation flag consulted before anything else.
	BridgeFeature int16
}

// DefaultParameters returns the current protocol constants for a chain.
func DefaultParameters(chainByte byte) *Parameters {
	return &Parameters{
		ChainByte:      chainByte,
		GasPrice:       big.NewInt(10_000_000_000), // 10 Gwei
		MinTransferFee: 100_000,
		MinInvokeFee:   500_000,
		MaxFutureDrift: 90 * time.Minute,
		MaxPastDrift:   120 * time.Minute,
		BridgeFeature:  FeatureBridge,
	}
}

// Validate checks internal consistency of the parameters.
func (p *Parameters) Validate() error {
	if _, err := ForeignChainId(p.ChainByte); err != nil {
		return err
	}
	if p.GasPrice == nil || p.GasPrice.Sign() <= 0 {
		return fmt.Errorf("gas price must be positive")
	}
	if p.MinTransferFee <= 0 || p.MinInvokeFee <= 0 {
		return fmt.Errorf("fee minimums must be positive")
	}
	if p.MinInvokeFee < p.MinTransferFee {
		return fmt.Errorf("invoke fee minimum %d below transfer fee minimum %d", p.MinInvokeFee, p.MinTransferFee)
	}
	if p.MaxFutureDrift <= 0 || p.MaxPastDrift <= 0 {
		return fmt.Errorf("timestamp drift bounds must be positive")
	}
	return nil
}
