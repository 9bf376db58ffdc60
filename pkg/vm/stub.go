package vm

import (
	"sync"

	"github.com/crestchain/evm-bridge-go/pkg/types"
)

// InvokeFunc is the pluggable behavior of a stub contract.
type InvokeFunc func(caller types.Address, function string, args []types.Argument, payments []types.Payment) (*types.ScriptResult, error)

type stubContract struct {
	meta   *ContractMeta
	invoke InvokeFunc
}

// StubExecutor is a map-backed IExecutor for tests and tooling.
type StubExecutor struct {
	mu        sync.RWMutex
	contracts map[types.Address]stubContract
}

func NewStubExecutor() *StubExecutor {
	return &StubExecutor{contracts: make(map[types.Address]stubContract)}
}

// Deploy registers a contract interface at addr. A nil invoke function
// yields an empty ScriptResult for every call.
func (e *StubExecutor) Deploy(addr types.Address, meta *ContractMeta, invoke InvokeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.contracts[addr] = stubContract{meta: meta, invoke: invoke}
}

func (e *StubExecutor) ContractMeta(addr types.Address) (*ContractMeta, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.contracts[addr]
	if !ok {
		return nil, nil
	}
	return c.meta, nil
}

func (e *StubExecutor) Invoke(caller, contract types.Address, function string, args []types.Argument, payments []types.Payment) (*types.ScriptResult, error) {
	e.mu.RLock()
	c, ok := e.contracts[contract]
	e.mu.RUnlock()
	if !ok {
		return nil, &types.ScriptFailureError{Detail: "no contract at " + contract.String()}
	}
	if c.invoke == nil {
		return &types.ScriptResult{}, nil
	}
	return c.invoke(caller, function, args, payments)
}
