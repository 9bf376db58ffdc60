// Package ledger defines the read-only state collaborator the bridge
// validates against. The bridge treats every call as answered from a
// consistent, frozen snapshot; serialization of diff application is the
// caller's responsibility.
package ledger

import (
	"time"

	"github.com/crestchain/evm-bridge-go/pkg/types"
)

// IStateReader supplies current balances, feature activations, height and
// the validating node's clock. Read-only to the bridge.
type IStateReader interface {
	// BalanceOf returns the confirmed balance of (account, asset).
	// Unknown accounts have zero balances; that is not an error.
	BalanceOf(account types.Address, asset types.AssetID) (int64, error)

	// IsFeatureActivated reports whether a ledger feature flag is active
	// at the snapshot height.
	IsFeatureActivated(feature int16) (bool, error)

	// Height returns the snapshot height.
	Height() (uint64, error)

	// CurrentTime returns the validating node's clock at snapshot time.
	// Timestamp-window checks are evaluated against this value.
	CurrentTime() time.Time
}
