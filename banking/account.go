package banking

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/types"
)

// AccountKind separates everyday funds from funds committed to trading.
type AccountKind int

const (
	KindChecking AccountKind = iota
	KindTrading
)

func (k AccountKind) String() string {
	if k == KindTrading {
		return "TRADING"
	}
	return "CHECKING"
}

// Account is a per-owner, per-bank balance mapping. Balances change only
// through Deposit/Withdraw; the order-id registry for the account lives here
// too so cancel authorization and balances share one lock.
type Account struct {
	id    uuid.UUID
	owner uuid.UUID
	bank  uuid.UUID
	kind  AccountKind

	mu       sync.Mutex
	balances Balances
	orders   [types.NumOrderTypes]map[int64]struct{}

	handler  TransactionHandler
	registry CurrencyRegistry
	store    BalanceStore
}

func (a *Account) ID() uuid.UUID     { return a.id }
func (a *Account) Owner() uuid.UUID  { return a.owner }
func (a *Account) Bank() uuid.UUID   { return a.bank }
func (a *Account) Kind() AccountKind { return a.kind }

// Deposit credits amount of the given currency. It fails with
// ErrCapacityExceeded when the bank's transaction handler refuses on a
// configured ceiling.
func (a *Account) Deposit(amount num.Decimal, currencyID uuid.UUID) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	cur, ok := a.registry.Lookup(currencyID)
	if !ok {
		return types.ErrCurrencyNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.handler.Deposit(a.balances, amount, cur) {
		return types.ErrCapacityExceeded
	}
	return a.persist(cur, amount.Neg())
}

// Withdraw debits amount of the given currency, never overdrawing.
func (a *Account) Withdraw(amount num.Decimal, currencyID uuid.UUID) error {
	return a.withdraw(amount, currencyID, false)
}

// WithdrawAllowingNegative permits the balance to go negative. The
// capability is granted per call by privileged flows (settlement
// compensation), never as a standing policy.
func (a *Account) WithdrawAllowingNegative(amount num.Decimal, currencyID uuid.UUID) error {
	return a.withdraw(amount, currencyID, true)
}

// withdraw is the overdraft-capable variant, used by privileged flows such
// as settlement compensation.
func (a *Account) withdraw(amount num.Decimal, currencyID uuid.UUID, allowNegative bool) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	cur, ok := a.registry.Lookup(currencyID)
	if !ok {
		return types.ErrCurrencyNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.handler.Withdraw(a.balances, amount, cur, allowNegative) {
		return types.ErrInsufficientFunds
	}
	return a.persist(cur, amount)
}

// persist writes the mutated entry through the balance store, reverting the
// in-memory change by delta when the store fails. Callers hold a.mu.
func (a *Account) persist(cur *types.Currency, delta num.Decimal) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.SaveBalance(a.id, cur.ID, a.balances[cur.ID]); err != nil {
		a.balances[cur.ID] = a.balances[cur.ID].Add(delta)
		return errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
	}
	return nil
}

// Balance reads the tracked balance for a currency, zero when absent.
func (a *Account) Balance(currencyID uuid.UUID) num.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balances[currencyID]
}
