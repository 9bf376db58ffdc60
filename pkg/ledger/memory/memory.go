// Package memory provides a map-backed ledger snapshot for tests and
// tooling. All data lives in memory; the snapshot is frozen by
// convention: the bridge only reads, fixtures write during setup.
package memory

import (
	"sync"
	"time"

	"github.com/crestchain/evm-bridge-go/pkg/types"
)

// Snapshot is an in-memory implementation of ledger.IStateReader.
// Thread-safe using sync.RWMutex for concurrent access.
type Snapshot struct {
	mu sync.RWMutex

	// balances: account -> asset -> confirmed balance
	balances map[types.Address]map[types.AssetID]int64

	// activated feature flags
	features map[int16]bool

	height uint64
	now    time.Time
}

// NewSnapshot creates an empty snapshot with the clock set to now.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		balances: make(map[types.Address]map[types.AssetID]int64),
		features: make(map[int16]bool),
		now:      time.Now(),
	}
}

// SetBalance sets the confirmed balance of (account, asset).
func (s *Snapshot) SetBalance(account types.Address, asset types.AssetID, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assets, ok := s.balances[account]
	if !ok {
		assets = make(map[types.AssetID]int64)
		s.balances[account] = assets
	}
	assets[asset] = balance
}

// ActivateFeature marks a feature flag active.
func (s *Snapshot) ActivateFeature(feature int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[feature] = true
}

// SetHeight sets the snapshot height.
func (s *Snapshot) SetHeight(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.height = height
}

// SetTime pins the snapshot clock, keeping timestamp checks
// reproducible in tests.
func (s *Snapshot) SetTime(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Snapshot) BalanceOf(account types.Address, asset types.AssetID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[account][asset], nil
}

func (s *Snapshot) IsFeatureActivated(feature int16) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features[feature], nil
}

func (s *Snapshot) Height() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height, nil
}

func (s *Snapshot) CurrentTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}
