package banking

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

// CentralIssuer is the policy that turns an ordinary bank into a central
// bank for one base currency: base-currency operations bypass the
// transaction handler, the tracked balance reads as MaxCapital, and the
// signed liquidity total records currency printed into or collected out of
// circulation.
type CentralIssuer struct {
	Base       uuid.UUID
	MinCapital num.Decimal
	MaxCapital num.Decimal
	// PaperLimit bounds cumulative printed base currency; zero means
	// unlimited.
	PaperLimit num.Decimal
}

// Bank services currencies for its accounts. All balance changes go through
// the bank's transaction handler, except the base currency of a central
// issuer which is always serviceable.
type Bank struct {
	log      *logging.Logger
	id       uuid.UUID
	owner    uuid.UUID
	registry CurrencyRegistry
	handler  TransactionHandler
	central  *CentralIssuer
	store    BalanceStore

	mu        sync.Mutex
	vault     Balances
	liquidity num.Decimal
	accounts  map[uuid.UUID]*Account
}

// Properties is a pure diagnostic read of the bank's state.
type Properties struct {
	Owner        uuid.UUID
	BaseCurrency uuid.UUID
	NumAccounts  int
	Liquidity    num.Decimal
}

// NewBank creates an ordinary bank: every currency it services goes through
// the handler under normal balance rules.
func NewBank(log *logging.Logger, id, owner uuid.UUID, registry CurrencyRegistry, handler TransactionHandler) *Bank {
	return &Bank{
		log:      log.Named(namedLogger),
		id:       id,
		owner:    owner,
		registry: registry,
		handler:  handler,
		vault:    make(Balances),
		accounts: make(map[uuid.UUID]*Account),
	}
}

// NewCentralBank creates a bank whose base currency is an unlimited
// reservoir under the given issuer policy. For any other currency it behaves
// exactly like an ordinary bank.
func NewCentralBank(log *logging.Logger, id, owner uuid.UUID, registry CurrencyRegistry, handler TransactionHandler, issuer CentralIssuer) *Bank {
	b := NewBank(log, id, owner, registry, handler)
	b.central = &issuer
	return b
}

func (b *Bank) ID() uuid.UUID    { return b.id }
func (b *Bank) Owner() uuid.UUID { return b.owner }

// UseStore attaches a balance store; the bank's vault and accounts opened
// afterwards persist their mutations through it.
func (b *Bank) UseStore(store BalanceStore) {
	b.store = store
}

// OpenAccount creates an account for an owner. The account inherits the
// bank's transaction handler and currency registry.
func (b *Bank) OpenAccount(owner uuid.UUID, kind AccountKind) *Account {
	a := &Account{
		id:       uuid.New(),
		owner:    owner,
		bank:     b.id,
		kind:     kind,
		balances: make(Balances),
		handler:  b.handler,
		registry: b.registry,
		store:    b.store,
	}
	b.mu.Lock()
	b.accounts[a.id] = a
	b.mu.Unlock()
	return a
}

// Account looks up an account held at this bank.
func (b *Bank) Account(id uuid.UUID) (*Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[id]
	return a, ok
}

// Deposit places amount of a currency into the bank's vault. For the base
// currency of a central issuer the deposit absorbs currency out of
// circulation: liquidity decreases, the handler is never consulted, and the
// call always succeeds within the min-capital bound.
func (b *Bank) Deposit(amount num.Decimal, currencyID uuid.UUID) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	cur, ok := b.registry.Lookup(currencyID)
	if !ok {
		return types.ErrCurrencyNotFound
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.central != nil && cur.ID == b.central.Base {
		updated := b.liquidity.Sub(amount)
		if updated.LessThan(b.central.MinCapital) {
			return types.ErrCapacityExceeded
		}
		b.liquidity = updated
		if b.log.GetLevel() <= logging.DebugLevel {
			b.log.Debug("base currency collected",
				logging.UUID("bank", b.id),
				logging.Decimal("amount", amount),
				logging.Decimal("liquidity", b.liquidity))
		}
		return nil
	}
	if !b.handler.Deposit(b.vault, amount, cur) {
		return types.ErrCapacityExceeded
	}
	return b.persistVault(cur, amount.Neg())
}

// Withdraw takes amount of a currency from the bank's vault. For the base
// currency new money is printed into circulation: liquidity increases,
// bounded only by the paper limit and max capital.
func (b *Bank) Withdraw(amount num.Decimal, currencyID uuid.UUID) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	cur, ok := b.registry.Lookup(currencyID)
	if !ok {
		return types.ErrCurrencyNotFound
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.central != nil && cur.ID == b.central.Base {
		updated := b.liquidity.Add(amount)
		if b.central.PaperLimit.IsPositive() && updated.GreaterThan(b.central.PaperLimit) {
			return types.ErrCapacityExceeded
		}
		if updated.GreaterThan(b.central.MaxCapital) {
			return types.ErrCapacityExceeded
		}
		b.liquidity = updated
		if b.log.GetLevel() <= logging.DebugLevel {
			b.log.Debug("base currency printed",
				logging.UUID("bank", b.id),
				logging.Decimal("amount", amount),
				logging.Decimal("liquidity", b.liquidity))
		}
		return nil
	}
	if !b.handler.Withdraw(b.vault, amount, cur, false) {
		return types.ErrInsufficientFunds
	}
	return b.persistVault(cur, amount)
}

// persistVault writes the mutated vault entry through the balance store
// under the bank's own id, reverting the in-memory change by delta when the
// store fails. Callers hold b.mu. Central-issuer base operations mutate only
// liquidity and never reach here.
func (b *Bank) persistVault(cur *types.Currency, delta num.Decimal) error {
	if b.store == nil {
		return nil
	}
	if err := b.store.SaveBalance(b.id, cur.ID, b.vault[cur.ID]); err != nil {
		b.vault[cur.ID] = b.vault[cur.ID].Add(delta)
		return errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
	}
	return nil
}

// Balance reads the vault balance for a currency. The base currency of a
// central issuer always reads as MaxCapital: it represents an unbounded
// printing press, not a tracked reserve.
func (b *Bank) Balance(currencyID uuid.UUID) num.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.central != nil && currencyID == b.central.Base {
		return b.central.MaxCapital
	}
	return b.vault[currencyID]
}

// Liquidity returns the signed base-currency circulation total:
// withdrawals (printed) minus deposits (collected).
func (b *Bank) Liquidity() num.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.liquidity
}

// BaseCurrency reports the issuer's base currency, uuid.Nil for an ordinary
// bank.
func (b *Bank) BaseCurrency() uuid.UUID {
	if b.central == nil {
		return uuid.Nil
	}
	return b.central.Base
}

// Properties exposes owner, base currency, account count and liquidity for
// diagnostic consumption.
func (b *Bank) Properties() Properties {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := Properties{
		Owner:       b.owner,
		NumAccounts: len(b.accounts),
		Liquidity:   b.liquidity,
	}
	if b.central != nil {
		p.BaseCurrency = b.central.Base
	}
	return p
}
