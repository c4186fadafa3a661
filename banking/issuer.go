package banking

import (
	"github.com/pandory-network/RealEconomy/types"
)

// The order-id registry is the authorization boundary for cancel: the
// matching engine must check HasOrderID before honoring a cancel request.
// Ids are unique per (account, order type).

// AddOrderID records an issued order id. It returns false when the id is
// already present rather than silently duplicating.
func (a *Account) AddOrderID(t types.OrderType, id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.orders[t] == nil {
		a.orders[t] = make(map[int64]struct{})
	}
	if _, ok := a.orders[t][id]; ok {
		return false
	}
	a.orders[t][id] = struct{}{}
	return true
}

// HasOrderID is a pure membership check.
func (a *Account) HasOrderID(t types.OrderType, id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.orders[t][id]
	return ok
}

// RemoveOrderID drops an order id, reporting false when it was not present.
func (a *Account) RemoveOrderID(t types.OrderType, id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.orders[t][id]; !ok {
		return false
	}
	delete(a.orders[t], id)
	return true
}

// OrderIDs returns a snapshot of the ids issued for a type. Mutating the
// returned slice does not affect internal state.
func (a *Account) OrderIDs(t types.OrderType) []int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int64, 0, len(a.orders[t]))
	for id := range a.orders[t] {
		out = append(out, id)
	}
	return out
}
