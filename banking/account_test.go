package banking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

type failingBalanceStore struct{}

func (failingBalanceStore) SaveBalance(accountID, currencyID uuid.UUID, balance num.Decimal) error {
	return errors.New("store offline")
}

func testAccount(t *testing.T) (*Account, *types.Currency) {
	t.Helper()
	registry := NewRegistry()
	cur := registry.Register(types.Currency{ID: uuid.New(), Code: "CUR"})
	bank := NewBank(logging.NewTestLogger(), uuid.New(), uuid.New(), registry, NewTransactionHandler(num.DecimalZero()))
	return bank.OpenAccount(uuid.New(), KindTrading), cur
}

func TestAccountDepositWithdrawRoundTrip(t *testing.T) {
	acct, cur := testAccount(t)
	amount := num.MustDecimalFromString("12.50")

	require.NoError(t, acct.Deposit(amount, cur.ID))
	assert.True(t, acct.Balance(cur.ID).Equal(amount))

	require.NoError(t, acct.Withdraw(amount, cur.ID))
	assert.True(t, acct.Balance(cur.ID).IsZero())
}

func TestAccountWithdrawInsufficientFunds(t *testing.T) {
	acct, cur := testAccount(t)
	require.NoError(t, acct.Deposit(num.DecimalFromInt64(5), cur.ID))

	err := acct.Withdraw(num.DecimalFromInt64(6), cur.ID)
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
	assert.True(t, acct.Balance(cur.ID).Equal(num.DecimalFromInt64(5)))
}

func TestAccountWithdrawAllowingNegative(t *testing.T) {
	acct, cur := testAccount(t)

	require.NoError(t, acct.WithdrawAllowingNegative(num.DecimalFromInt64(6), cur.ID))
	assert.True(t, acct.Balance(cur.ID).Equal(num.DecimalFromInt64(-6)))
}

func TestAccountRejectsNonPositiveAmounts(t *testing.T) {
	acct, cur := testAccount(t)

	assert.ErrorIs(t, acct.Deposit(num.DecimalZero(), cur.ID), types.ErrInvalidAmount)
	assert.ErrorIs(t, acct.Withdraw(num.DecimalFromInt64(-1), cur.ID), types.ErrInvalidAmount)
}

func TestAccountUnknownCurrency(t *testing.T) {
	acct, _ := testAccount(t)

	assert.ErrorIs(t, acct.Deposit(num.DecimalFromInt64(1), uuid.New()), types.ErrCurrencyNotFound)
}

func TestAccountPersistenceFailureRevertsMutation(t *testing.T) {
	registry := NewRegistry()
	cur := registry.Register(types.Currency{ID: uuid.New(), Code: "CUR"})
	bank := NewBank(logging.NewTestLogger(), uuid.New(), uuid.New(), registry, NewTransactionHandler(num.DecimalZero()))
	bank.UseStore(failingBalanceStore{})
	acct := bank.OpenAccount(uuid.New(), KindTrading)

	err := acct.Deposit(num.DecimalFromInt64(10), cur.ID)
	assert.ErrorIs(t, err, types.ErrPersistenceUnavailable)
	// the operation is treated as if it never started
	assert.True(t, acct.Balance(cur.ID).IsZero())
}
