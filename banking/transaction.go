package banking

import (
	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/types"
)

// Balances maps currency id to a decimal amount. Entries are addressed only
// through a TransactionHandler so every change is attributable to a
// transaction.
type Balances map[uuid.UUID]num.Decimal

// TransactionHandler performs the raw mutation of a balance mapping and
// reports success as a boolean so callers can layer business-specific
// fallback on top (the central-issuer branch being the main one).
type TransactionHandler interface {
	Deposit(balances Balances, amount num.Decimal, currency *types.Currency) bool
	// Withdraw refuses to take a balance negative unless allowNegative is
	// set. The flag is a per-call capability, never a standing policy.
	Withdraw(balances Balances, amount num.Decimal, currency *types.Currency, allowNegative bool) bool
}

type handler struct {
	// maximum balance per currency entry, zero means unbounded
	maximum num.Decimal
}

// NewTransactionHandler returns the default handler. A positive maximum acts
// as a per-currency balance ceiling.
func NewTransactionHandler(maximum num.Decimal) TransactionHandler {
	return &handler{maximum: maximum}
}

func (h *handler) Deposit(balances Balances, amount num.Decimal, currency *types.Currency) bool {
	if !amount.IsPositive() {
		return false
	}
	updated := balances[currency.ID].Add(amount)
	if h.maximum.IsPositive() && updated.GreaterThan(h.maximum) {
		return false
	}
	balances[currency.ID] = updated
	return true
}

func (h *handler) Withdraw(balances Balances, amount num.Decimal, currency *types.Currency, allowNegative bool) bool {
	if !amount.IsPositive() {
		return false
	}
	updated := balances[currency.ID].Sub(amount)
	if updated.IsNegative() && !allowNegative {
		return false
	}
	balances[currency.ID] = updated
	return true
}
