// Package differ turns an accepted payload into the deterministic balance
// diff. For transfers this is pure arithmetic; for invocations it drives
// the contract VM and folds the reported effects verbatim. VM semantics
// are never reinterpreted here, only plumbed.
package differ

import (
	"errors"

	"go.uber.org/zap"

	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/validation"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

type Differ struct {
	executor vm.IExecutor
	logger   *zap.Logger
}

func New(executor vm.IExecutor, logger *zap.Logger) *Differ {
	return &Differ{executor: executor, logger: logger}
}

// Apply computes the diff of one accepted transaction. Balance overflow
// anywhere is a fatal invariant violation: the error aborts processing of
// the transaction and no diff is returned.
func (d *Differ) Apply(sender types.Address, payload types.Payload, res *validation.Resolution) (*types.Diff, error) {
	switch pl := payload.(type) {
	case *types.Transfer:
		return d.applyTransfer(sender, pl, res)
	case *types.Invocation:
		return d.applyInvocation(sender, pl, res)
	default:
		return nil, types.Fatalf("unknown payload variant %T", payload)
	}
}

func (d *Differ) applyTransfer(sender types.Address, t *types.Transfer, res *validation.Resolution) (*types.Diff, error) {
	diff := types.NewDiff()
	if err := diff.AddBalance(sender, res.TransferAsset, -t.Amount); err != nil {
		return nil, err
	}
	if err := diff.AddBalance(sender, types.AssetCrest, -res.Fee); err != nil {
		return nil, err
	}
	if err := diff.AddBalance(t.Recipient, res.TransferAsset, t.Amount); err != nil {
		return nil, err
	}
	return diff, nil
}

func (d *Differ) applyInvocation(sender types.Address, inv *types.Invocation, res *validation.Resolution) (*types.Diff, error) {
	diff := types.NewDiff()
	if err := diff.AddBalance(sender, types.AssetCrest, -res.Fee); err != nil {
		return nil, err
	}
	for _, payment := range res.Payments {
		if err := diff.AddBalance(sender, payment.Asset, -payment.Amount); err != nil {
			return nil, err
		}
		if err := diff.AddBalance(inv.Contract, payment.Asset, payment.Amount); err != nil {
			return nil, err
		}
	}

	result, err := d.executor.Invoke(sender, inv.Contract, inv.Function, inv.Args, res.Payments)
	if err != nil {
		var scriptErr *types.ScriptFailureError
		if errors.As(err, &scriptErr) {
			return nil, err
		}
		return nil, &types.ScriptFailureError{Detail: err.Error()}
	}
	d.logger.Debug("script run completed",
		zap.String("contract", inv.Contract.String()),
		zap.String("function", inv.Function),
		zap.Int("transfers", len(result.Transfers)),
		zap.Int("dataEntries", len(result.DataEntries)))

	if err := foldScriptResult(diff, inv.Contract, result); err != nil {
		return nil, err
	}
	diff.Script = result
	// one accounting unit per invocation, effects or not
	diff.ScriptRuns = 1
	return diff, nil
}

// foldScriptResult folds VM-reported effects into balance deltas,
// recursing through nested invocations.
func foldScriptResult(diff *types.Diff, contract types.Address, result *types.ScriptResult) error {
	for _, t := range result.Transfers {
		if err := diff.AddBalance(t.Sender, t.Asset, -t.Amount); err != nil {
			return err
		}
		if err := diff.AddBalance(t.Recipient, t.Asset, t.Amount); err != nil {
			return err
		}
	}
	for _, issue := range result.Issues {
		if err := diff.AddBalance(contract, issue.Asset, issue.Quantity); err != nil {
			return err
		}
	}
	for _, reissue := range result.Reissues {
		if err := diff.AddBalance(contract, reissue.Asset, reissue.Quantity); err != nil {
			return err
		}
	}
	for _, burn := range result.Burns {
		if err := diff.AddBalance(contract, burn.Asset, -burn.Quantity); err != nil {
			return err
		}
	}
	for _, nested := range result.Invokes {
		if nested.Result != nil {
			if err := foldScriptResult(diff, nested.Contract, nested.Result); err != nil {
				return err
			}
		}
	}
	return nil
}
