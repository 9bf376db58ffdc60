// Package vm defines the contract-execution collaborator. The bridge
// never interprets contract code; it looks up the declared interface of a
// contract account and hands invocations to the executor, folding the
// reported effects into a diff verbatim.
package vm

import (
	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/types"
)

// FunctionMeta declares one callable function of a contract.
type FunctionMeta struct {
	Name string
	Args []types.ArgType
}

// ContractMeta is the declared interface of a contract account: its
// callable functions, the contract-standard version (which bounds the
// attached-payment count), and whether it accepts selector-less calls via
// a zero-argument default function.
type ContractMeta struct {
	Version    config.ContractStandardVersion
	Functions  []FunctionMeta
	HasDefault bool
}

// Function returns the declared function with the given name, or nil.
func (m *ContractMeta) Function(name string) *FunctionMeta {
	for i := range m.Functions {
		if m.Functions[i].Name == name {
			return &m.Functions[i]
		}
	}
	return nil
}

// IExecutor is the contract VM behind a narrow interface.
type IExecutor interface {
	// ContractMeta returns the declared interface of the contract at
	// addr, or nil when the account holds no callable contract.
	ContractMeta(addr types.Address) (*ContractMeta, error)

	// Invoke runs one script execution. An execution error means the
	// whole invocation failed: the fee is still charged, every other
	// effect is discarded by the caller.
	Invoke(caller, contract types.Address, function string, args []types.Argument, payments []types.Payment) (*types.ScriptResult, error)
}
