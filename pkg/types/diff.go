package types

// Diff is the complete effect of one accepted transaction: signed balance
// deltas per (account, asset), plus the verbatim script-execution result
// for invocations. Deltas are folded with overflow checks; a Diff never
// contains a wrapped or clamped value.
type Diff struct {
	Balances   map[Address]map[AssetID]int64
	Script     *ScriptResult
	ScriptRuns int
}

func NewDiff() *Diff {
	return &Diff{Balances: make(map[Address]map[AssetID]int64)}
}

// AddBalance folds delta into the (account, asset) cell. Overflow of the
// accumulated delta is a fatal invariant violation.
func (d *Diff) AddBalance(account Address, asset AssetID, delta int64) error {
	assets, ok := d.Balances[account]
	if !ok {
		assets = make(map[AssetID]int64)
		d.Balances[account] = assets
	}
	sum, err := addInt64(assets[asset], delta)
	if err != nil {
		return err
	}
	assets[asset] = sum
	return nil
}

// Delta returns the accumulated delta for (account, asset), zero if unset.
func (d *Diff) Delta(account Address, asset AssetID) int64 {
	return d.Balances[account][asset]
}

func addInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, Fatalf("balance delta overflow: %d + %d", a, b)
	}
	return sum, nil
}

// ScriptResult is the contract VM's reported effect set, folded into the
// diff without reinterpretation.
type ScriptResult struct {
	Transfers   []ScriptTransfer
	DataEntries []DataEntry
	Invokes     []ScriptInvoke
	Issues      []ScriptIssue
	Reissues    []ScriptReissue
	Burns       []ScriptBurn
}

// ScriptTransfer is a balance movement initiated by the contract.
type ScriptTransfer struct {
	Sender    Address
	Recipient Address
	Asset     AssetID
	Amount    int64
}

// DataEntry is one contract storage write. Value reuses the argument
// algebra; only the scalar kinds appear in practice.
type DataEntry struct {
	Key   string
	Value Argument
}

// ScriptInvoke records a nested contract call made during execution.
type ScriptInvoke struct {
	Contract Address
	Function string
	Args     []Argument
	Payments []Payment
	Result   *ScriptResult
}

// ScriptIssue creates a new asset from contract code.
type ScriptIssue struct {
	Asset    AssetID
	Name     string
	Quantity int64
}

// ScriptReissue increases the quantity of an existing asset.
type ScriptReissue struct {
	Asset    AssetID
	Quantity int64
}

// ScriptBurn destroys part of the contract account's asset balance.
type ScriptBurn struct {
	Asset    AssetID
	Quantity int64
}
