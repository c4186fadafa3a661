package banking

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/types"
)

// CurrencyRegistry resolves a currency id to a borrowed currency reference.
// A failed lookup must surface as types.ErrCurrencyNotFound by the caller.
type CurrencyRegistry interface {
	Lookup(id uuid.UUID) (*types.Currency, bool)
}

// Owner is the identity-and-display contract for whoever owns a bank or an
// account. No balance data crosses this boundary.
type Owner interface {
	ID() uuid.UUID
	Name() string
}

// OwnerProvider resolves owner ids for diagnostic output.
type OwnerProvider interface {
	ResolveOwner(id uuid.UUID) (Owner, bool)
}

// BalanceStore durably persists single balance entries. A failing store is
// fatal to the mutation that triggered the write; the mutation is reverted
// before the error is returned.
type BalanceStore interface {
	SaveBalance(accountID, currencyID uuid.UUID, balance num.Decimal) error
}

// Registry is the in-memory currency registry.
type Registry struct {
	mu         sync.RWMutex
	currencies map[uuid.UUID]*types.Currency
}

func NewRegistry() *Registry {
	return &Registry{
		currencies: make(map[uuid.UUID]*types.Currency),
	}
}

// Register adds a currency under its id, replacing metadata on re-register.
func (r *Registry) Register(c types.Currency) *types.Currency {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := c
	r.currencies[c.ID] = &cpy
	return &cpy
}

func (r *Registry) Lookup(id uuid.UUID) (*types.Currency, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.currencies[id]
	return c, ok
}
