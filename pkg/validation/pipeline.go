// Package validation runs the ordered semantic checks between
// classification and diff computation. Check order is fixed; the first
// failure terminates the pipeline with a stable reason. Every check is a
// pure function of transaction content, configured parameters and the
// frozen state snapshot, so all validators reject with byte-identical
// reasons.
package validation

import (
	"go.uber.org/zap"

	"github.com/crestchain/evm-bridge-go/pkg/codec"
	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/ledger"
	"github.com/crestchain/evm-bridge-go/pkg/registry"
	"github.com/crestchain/evm-bridge-go/pkg/translator"
	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

// Resolution is what an accepted transaction carries into diff
// computation: the fee in native units and the registry-resolved assets.
type Resolution struct {
	Fee           int64
	TransferAsset types.AssetID
	Payments      []types.Payment
}

// Pipeline holds the collaborators the checks read from.
type Pipeline struct {
	params   *config.Parameters
	state    ledger.IStateReader
	registry registry.IAssetRegistry
	executor vm.IExecutor
	logger   *zap.Logger
}

func NewPipeline(params *config.Parameters, state ledger.IStateReader, reg registry.IAssetRegistry, executor vm.IExecutor, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		params:   params,
		state:    state,
		registry: reg,
		executor: executor,
		logger:   logger,
	}
}

type check func(tx *codec.SignedTx, payload types.Payload, res *Resolution) error

// Run evaluates all checks in order and returns the resolution on
// acceptance. Later checks never execute once an earlier one rejects.
func (p *Pipeline) Run(tx *codec.SignedTx, payload types.Payload) (*Resolution, error) {
	res := &Resolution{TransferAsset: types.AssetCrest}
	checks := []check{
		p.checkFeatureActivation,
		p.checkChainIdentity,
		p.checkMinimumFee,
		p.checkTimestampWindow,
		p.checkAmounts,
		p.checkPaymentCount,
		p.checkAssetResolution,
	}
	for _, c := range checks {
		if err := c(tx, payload, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// 1. The bridge is inert until its feature flag activates.
func (p *Pipeline) checkFeatureActivation(tx *codec.SignedTx, payload types.Payload, res *Resolution) error {
	active, err := p.state.IsFeatureActivated(p.params.BridgeFeature)
	if err != nil {
		return err
	}
	if !active {
		return types.Rejectf(types.CodeFeatureInactive, "foreign transactions are not accepted: feature %d is not activated on the blockchain", p.params.BridgeFeature)
	}
	return nil
}

// 2. The signature discriminant and every translated address must belong
// to the configured network.
func (p *Pipeline) checkChainIdentity(tx *codec.SignedTx, payload types.Payload, res *Resolution) error {
	expected, err := config.ForeignChainId(p.params.ChainByte)
	if err != nil {
		return err
	}
	chainID, _, err := tx.ForeignChainID()
	if err != nil {
		return err
	}
	if chainID != expected {
		return types.NetworkMismatchf("transaction is signed for another network: chain ID %d, want %d", chainID, expected)
	}
	switch pl := payload.(type) {
	case *types.Transfer:
		return translator.CheckChain(pl.Recipient, p.params.ChainByte)
	case *types.Invocation:
		return translator.CheckChain(pl.Contract, p.params.ChainByte)
	}
	return nil
}

// 3. Declared fee (gas limit x fixed gas price) must meet the floor for
// the payload kind. The rejection states both the supplied and required
// values and the shortfall.
func (p *Pipeline) checkMinimumFee(tx *codec.SignedTx, payload types.Payload, res *Resolution) error {
	if tx.GasPrice == nil || tx.GasPrice.Cmp(p.params.GasPrice) != 0 {
		return types.Rejectf(types.CodeBadGasPrice, "gas price must be exactly %s wei", p.params.GasPrice)
	}
	fee, err := codec.NativeFee(tx.Gas, tx.GasPrice)
	if err != nil {
		return err
	}
	minimum := p.params.MinTransferFee
	kind := "transfer"
	if _, ok := payload.(*types.Invocation); ok {
		minimum = p.params.MinInvokeFee
		kind = "invocation"
	}
	if fee < minimum {
		return types.Rejectf(types.CodeFeeTooLow, "fee %d is below the minimum of %d required for a %s: short by %d", fee, minimum, kind, minimum-fee)
	}
	res.Fee = fee
	return nil
}

// 4. The timestamp carried in the nonce field must lie inside the
// configured window around the validating node's clock.
func (p *Pipeline) checkTimestampWindow(tx *codec.SignedTx, payload types.Payload, res *Resolution) error {
	ts, err := tx.Timestamp()
	if err != nil {
		return err
	}
	now := p.state.CurrentTime().UnixMilli()
	future := p.params.MaxFutureDrift.Milliseconds()
	past := p.params.MaxPastDrift.Milliseconds()
	if ts > now+future {
		return types.Rejectf(types.CodeTimestampOutside, "transaction timestamp %d is more than %d ms ahead of node time %d", ts, future, now)
	}
	if ts < now-past {
		return types.Rejectf(types.CodeTimestampOutside, "transaction timestamp %d is more than %d ms behind node time %d", ts, past, now)
	}
	return nil
}

// 5. Amounts must be positive. The foreign ecosystem's zero-value
// "cancellation" convention is not honored here.
func (p *Pipeline) checkAmounts(tx *codec.SignedTx, payload types.Payload, res *Resolution) error {
	switch pl := payload.(type) {
	case *types.Transfer:
		if pl.Amount == 0 && pl.AssetRef == nil {
			return types.Rejectf(types.CodeNonPositive, "zero-value transfer is a cancellation pattern and is not supported")
		}
		if pl.Amount <= 0 {
			return types.Rejectf(types.CodeNonPositive, "non-positive transfer amount %d", pl.Amount)
		}
	case *types.Invocation:
		for i, payment := range pl.Payments {
			if payment.Amount <= 0 {
				return types.Rejectf(types.CodeNonPositive, "non-positive amount %d in payment %d", payment.Amount, i)
			}
		}
	}
	return nil
}

// 6. Attached payments must not exceed the contract-standard maximum.
func (p *Pipeline) checkPaymentCount(tx *codec.SignedTx, payload types.Payload, res *Resolution) error {
	inv, ok := payload.(*types.Invocation)
	if !ok {
		return nil
	}
	meta, err := p.executor.ContractMeta(inv.Contract)
	if err != nil {
		return err
	}
	if meta == nil {
		return types.Rejectf(types.CodeNoContract, "account %s holds no callable contract", inv.Contract)
	}
	max, err := config.MaxPayments(meta.Version)
	if err != nil {
		return err
	}
	if len(inv.Payments) > max {
		return types.Rejectf(types.CodeTooManyPayments, "invocation carries %d payments, contract standard v%d allows at most %d", len(inv.Payments), meta.Version, max)
	}
	return nil
}

// 7. Every referenced asset must resolve in the registry; only the absent
// marker selects the native asset.
func (p *Pipeline) checkAssetResolution(tx *codec.SignedTx, payload types.Payload, res *Resolution) error {
	switch pl := payload.(type) {
	case *types.Transfer:
		if pl.AssetRef == nil {
			res.TransferAsset = types.AssetCrest
			return nil
		}
		asset, err := translator.ResolveAsset(p.registry, *pl.AssetRef)
		if err != nil {
			return err
		}
		res.TransferAsset = asset
	case *types.Invocation:
		res.Payments = make([]types.Payment, 0, len(pl.Payments))
		for _, payment := range pl.Payments {
			asset := types.AssetCrest
			if payment.AssetRef != nil {
				resolved, err := translator.ResolveAsset(p.registry, *payment.AssetRef)
				if err != nil {
					return err
				}
				asset = resolved
			}
			res.Payments = append(res.Payments, types.Payment{Asset: asset, Amount: payment.Amount})
		}
	}
	return nil
}
