// Package registry defines the asset-registry collaborator: the lookup
// from a foreign 20-byte asset reference to a native asset identifier.
package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crestchain/evm-bridge-go/pkg/types"
)

// IAssetRegistry resolves foreign asset references. Implementations are
// read-only from the bridge's point of view and must answer from a
// consistent state snapshot.
type IAssetRegistry interface {
	// ResolveERC20 returns the native asset whose identifier starts with
	// the given 20-byte prefix. The second result is false when no such
	// asset is registered; that is not an error.
	ResolveERC20(ref common.Address) (types.AssetID, bool, error)
}

// InMemoryRegistry is a map-backed IAssetRegistry for tests and tooling.
type InMemoryRegistry struct {
	mu     sync.RWMutex
	assets map[common.Address]types.AssetID
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{assets: make(map[common.Address]types.AssetID)}
}

// Register indexes an asset under its 20-byte prefix.
func (r *InMemoryRegistry) Register(asset types.AssetID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[asset.ERC20Prefix()] = asset
}

func (r *InMemoryRegistry) ResolveERC20(ref common.Address) (types.AssetID, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.assets[ref]
	return asset, ok, nil
}
