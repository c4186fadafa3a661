package trading

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/types"
)

// MemoryInventory is the reference AssetInventory: per-account stock counts
// per physical signature, kept in memory.
type MemoryInventory struct {
	mu    sync.Mutex
	stock map[uuid.UUID]map[types.AssetSignature]int64
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{
		stock: make(map[uuid.UUID]map[types.AssetSignature]int64),
	}
}

// Grant seeds stock for an account, outside any settlement flow.
func (m *MemoryInventory) Grant(accountID uuid.UUID, sig types.AssetSignature, quantity int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(accountID, sig, quantity)
}

// Stock reports an account's holding of a signature.
func (m *MemoryInventory) Stock(accountID uuid.UUID, sig types.AssetSignature) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[accountID][sig]
}

func (m *MemoryInventory) RemoveAsset(accountID uuid.UUID, sig types.AssetSignature, quantity int64) bool {
	if quantity <= 0 || !sig.Physical {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	held := m.stock[accountID][sig]
	if held < quantity {
		return false
	}
	m.stock[accountID][sig] = held - quantity
	return true
}

func (m *MemoryInventory) AddAsset(accountID uuid.UUID, sig types.AssetSignature, quantity int64) bool {
	if quantity <= 0 || !sig.Physical {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(accountID, sig, quantity)
	return true
}

// add assumes m.mu is held.
func (m *MemoryInventory) add(accountID uuid.UUID, sig types.AssetSignature, quantity int64) {
	bySig, ok := m.stock[accountID]
	if !ok {
		bySig = make(map[types.AssetSignature]int64)
		m.stock[accountID] = bySig
	}
	bySig[sig] += quantity
}
