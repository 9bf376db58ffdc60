// Package testutil provides deterministic fixtures for bridge tests: a
// pinned-clock ledger snapshot, fixed signing keys and signed-transaction
// builders.
package testutil

import (
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crestchain/evm-bridge-go/pkg/bridge"
	"github.com/crestchain/evm-bridge-go/pkg/codec"
	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/ledger/memory"
	"github.com/crestchain/evm-bridge-go/pkg/registry"
	"github.com/crestchain/evm-bridge-go/pkg/translator"
	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

// FixedTime is the pinned snapshot clock all fixtures validate against.
var FixedTime = time.UnixMilli(1_700_000_000_000)

// Env bundles the collaborators of one bridge under test.
type Env struct {
	Params   *config.Parameters
	State    *memory.Snapshot
	Registry *registry.InMemoryRegistry
	Executor *vm.StubExecutor
	Bridge   *bridge.Bridge
}

// NewEnv builds a devnet environment with the bridge feature activated
// and the clock pinned to FixedTime.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	params := config.DefaultParameters(config.ChainByte_Devnet)
	state := memory.NewSnapshot()
	state.SetTime(FixedTime)
	state.SetHeight(1000)
	state.ActivateFeature(params.BridgeFeature)
	reg := registry.NewInMemoryRegistry()
	executor := vm.NewStubExecutor()

	b, err := bridge.NewBridge(params, state, reg, executor, zap.NewNop())
	require.NoError(t, err)
	return &Env{Params: params, State: state, Registry: reg, Executor: executor, Bridge: b}
}

// TestKey derives a deterministic secp256k1 key from a seed byte.
func TestKey(t *testing.T, seed byte) *ecdsa.PrivateKey {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = seed
	}
	raw[31] = seed + 1
	key, err := crypto.ToECDSA(raw)
	require.NoError(t, err)
	return key
}

// SenderAddress is the native address the bridge will recover for key.
func SenderAddress(key *ecdsa.PrivateKey, chainByte byte) types.Address {
	foreign := crypto.PubkeyToAddress(key.PublicKey)
	return translator.NativeAddress(foreign, chainByte)
}

// TxSpec describes an unsigned fixture transaction; zero fields get
// sensible defaults in BuildTx.
type TxSpec struct {
	TimestampMs int64
	GasPrice    *big.Int
	Gas         uint64
	To          common.Address
	Value       *big.Int
	Data        []byte
}

// BuildTx signs a fixture transaction for the environment's chain.
func (e *Env) BuildTx(t *testing.T, key *ecdsa.PrivateKey, spec TxSpec) *codec.SignedTx {
	t.Helper()
	if spec.TimestampMs == 0 {
		spec.TimestampMs = FixedTime.UnixMilli()
	}
	if spec.GasPrice == nil {
		spec.GasPrice = new(big.Int).Set(e.Params.GasPrice)
	}
	if spec.Gas == 0 {
		spec.Gas = uint64(e.Params.MinInvokeFee)
	}
	if spec.Value == nil {
		spec.Value = big.NewInt(0)
	}
	to := spec.To
	tx := &codec.SignedTx{
		Nonce:    big.NewInt(spec.TimestampMs),
		GasPrice: spec.GasPrice,
		Gas:      spec.Gas,
		To:       &to,
		Value:    spec.Value,
		Data:     spec.Data,
	}
	chainID, err := config.ForeignChainId(e.Params.ChainByte)
	require.NoError(t, err)
	require.NoError(t, codec.Sign(tx, chainID, key))
	return tx
}

// BuildRawTx signs and encodes a fixture transaction.
func (e *Env) BuildRawTx(t *testing.T, key *ecdsa.PrivateKey, spec TxSpec) []byte {
	t.Helper()
	raw, err := codec.Encode(e.BuildTx(t, key, spec))
	require.NoError(t, err)
	return raw
}

// NativeTransferValue converts a native amount into the foreign value
// unit for fixture transfers.
func NativeTransferValue(amount int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), config.WeiPerNativeUnit)
}

// TestAsset builds a registered asset whose identifier starts with the
// given seed bytes.
func TestAsset(seed byte) types.AssetID {
	var asset types.AssetID
	for i := range asset {
		asset[i] = seed
	}
	return asset
}
