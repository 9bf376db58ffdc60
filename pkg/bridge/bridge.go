// Package bridge wires the full foreign-transaction path: wire decoding,
// sender recovery, classification, the validation pipeline and diff
// production. A Bridge holds no mutable state and performs no blocking
// I/O; transactions are processed independently and may be handled
// concurrently as long as the caller fixes the diff-application order.
package bridge

import (
	"errors"

	"go.uber.org/zap"

	"github.com/crestchain/evm-bridge-go/pkg/classifier"
	"github.com/crestchain/evm-bridge-go/pkg/codec"
	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/differ"
	"github.com/crestchain/evm-bridge-go/pkg/ledger"
	"github.com/crestchain/evm-bridge-go/pkg/registry"
	"github.com/crestchain/evm-bridge-go/pkg/translator"
	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/validation"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

type Bridge struct {
	params   *config.Parameters
	executor vm.IExecutor
	pipeline *validation.Pipeline
	differ   *differ.Differ
	logger   *zap.Logger
}

// NewBridge validates the parameters and assembles the processing chain.
func NewBridge(
	params *config.Parameters,
	state ledger.IStateReader,
	reg registry.IAssetRegistry,
	executor vm.IExecutor,
	logger *zap.Logger,
) (*Bridge, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Bridge{
		params:   params,
		executor: executor,
		pipeline: validation.NewPipeline(params, state, reg, executor, logger),
		differ:   differ.New(executor, logger),
		logger:   logger,
	}, nil
}

// Result is the terminal product for one transaction: exactly one of Diff
// (accepted) or a rejection outcome. Sender and payload are exposed for
// logging and API surfaces once they are known.
type Result struct {
	Outcome *types.ValidationOutcome
	Diff    *types.Diff
	Sender  types.Address
	Payload types.Payload
}

// ProcessTransaction consumes one raw foreign transaction and produces
// its diff or rejection. The returned error is non-nil only for fatal
// invariant violations, which must abort processing of the transaction
// entirely; every ordinary rejection is reported through the outcome.
func (b *Bridge) ProcessTransaction(raw []byte) (*Result, error) {
	tx, err := codec.Decode(raw)
	if err != nil {
		return rejected(err)
	}

	pub, err := codec.RecoverSender(tx)
	if err != nil {
		return rejected(err)
	}
	sender, err := translator.NativeAddressFromPublicKey(pub, b.params.ChainByte)
	if err != nil {
		return rejected(err)
	}

	payload, err := classifier.Classify(tx, b.params.ChainByte, b.executor)
	if err != nil {
		return rejected(err)
	}

	res, err := b.pipeline.Run(tx, payload)
	if err != nil {
		return rejectedWith(err, sender, payload)
	}

	diff, err := b.differ.Apply(sender, payload, res)
	if err != nil {
		if isFatal(err) {
			b.logger.Error("aborting transaction on invariant violation", zap.Error(err))
			return nil, err
		}
		result, rerr := rejectedWith(err, sender, payload)
		if rerr == nil {
			// a failed script still charges its fee
			result.Outcome.FeeCharged = res.Fee
		}
		return result, rerr
	}

	b.logger.Debug("transaction accepted",
		zap.String("sender", sender.String()),
		zap.Int("scriptRuns", diff.ScriptRuns))
	outcome := types.Accept()
	outcome.FeeCharged = res.Fee
	return &Result{Outcome: outcome, Diff: diff, Sender: sender, Payload: payload}, nil
}

func isFatal(err error) bool {
	var fatal *types.FatalInvariantError
	return errors.As(err, &fatal)
}

func rejected(err error) (*Result, error) {
	if isFatal(err) {
		return nil, err
	}
	return &Result{Outcome: types.OutcomeFromError(err)}, nil
}

func rejectedWith(err error, sender types.Address, payload types.Payload) (*Result, error) {
	result, rerr := rejected(err)
	if rerr != nil {
		return nil, rerr
	}
	result.Sender = sender
	result.Payload = payload
	return result, nil
}
