package banking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

// recordingHandler counts delegations so tests can assert the central-issuer
// branch never consults the handler for the base currency.
type recordingHandler struct {
	TransactionHandler
	deposits  int
	withdraws int
}

func (h *recordingHandler) Deposit(b Balances, amount num.Decimal, c *types.Currency) bool {
	h.deposits++
	return h.TransactionHandler.Deposit(b, amount, c)
}

func (h *recordingHandler) Withdraw(b Balances, amount num.Decimal, c *types.Currency, allowNegative bool) bool {
	h.withdraws++
	return h.TransactionHandler.Withdraw(b, amount, c, allowNegative)
}

func testCentralBank(t *testing.T, handler TransactionHandler) (*Bank, *types.Currency, *Registry) {
	t.Helper()
	registry := NewRegistry()
	base := registry.Register(types.Currency{ID: uuid.New(), Code: "GLD"})
	maxCapital := num.MustDecimalFromString("100000000000")
	bank := NewCentralBank(
		logging.NewTestLogger(), uuid.New(), uuid.New(), registry, handler,
		CentralIssuer{
			Base:       base.ID,
			MinCapital: maxCapital.Neg(),
			MaxCapital: maxCapital,
		})
	return bank, base, registry
}

func TestCentralBankDepositBase(t *testing.T) {
	handler := &recordingHandler{TransactionHandler: NewTransactionHandler(num.DecimalZero())}
	bank, base, _ := testCentralBank(t, handler)

	require.NoError(t, bank.Deposit(num.MustDecimalFromString("20304.33"), base.ID))

	// liquidity decreases as currency is collected
	assert.True(t, bank.Liquidity().Equal(num.MustDecimalFromString("-20304.33")))
	// always max for base currency
	assert.True(t, bank.Balance(base.ID).Equal(num.MustDecimalFromString("100000000000")))
	// the handler is never consulted for the base currency
	assert.Equal(t, 0, handler.deposits)
}

func TestCentralBankWithdrawBase(t *testing.T) {
	handler := &recordingHandler{TransactionHandler: NewTransactionHandler(num.DecimalZero())}
	bank, base, _ := testCentralBank(t, handler)

	require.NoError(t, bank.Deposit(num.MustDecimalFromString("20304.33"), base.ID))
	require.NoError(t, bank.Withdraw(num.MustDecimalFromString("30567.22"), base.ID))

	// liquidity increases as currency is printed
	assert.True(t, bank.Liquidity().Equal(num.MustDecimalFromString("10262.89")))
	assert.True(t, bank.Balance(base.ID).Equal(num.MustDecimalFromString("100000000000")))
	assert.Equal(t, 0, handler.withdraws)
}

func TestCentralBankNonBaseDelegatesToHandler(t *testing.T) {
	handler := &recordingHandler{TransactionHandler: NewTransactionHandler(num.DecimalZero())}
	bank, _, registry := testCentralBank(t, handler)
	foreign := registry.Register(types.Currency{ID: uuid.New(), Code: "SLV"})

	amount := num.MustDecimalFromString("20304.33")
	require.NoError(t, bank.Deposit(amount, foreign.ID))
	assert.Equal(t, 1, handler.deposits)
	// non-base operations never touch liquidity
	assert.True(t, bank.Liquidity().IsZero())
	assert.True(t, bank.Balance(foreign.ID).Equal(amount))

	require.NoError(t, bank.Withdraw(amount, foreign.ID))
	assert.Equal(t, 1, handler.withdraws)
	assert.True(t, bank.Liquidity().IsZero())
	// round trip leaves the balance where it started
	assert.True(t, bank.Balance(foreign.ID).IsZero())
}

func TestBankWithdrawInsufficientFunds(t *testing.T) {
	registry := NewRegistry()
	cur := registry.Register(types.Currency{ID: uuid.New(), Code: "CUR"})
	bank := NewBank(logging.NewTestLogger(), uuid.New(), uuid.New(), registry, NewTransactionHandler(num.DecimalZero()))

	err := bank.Withdraw(num.DecimalFromInt64(1), cur.ID)
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestBankDepositCeiling(t *testing.T) {
	registry := NewRegistry()
	cur := registry.Register(types.Currency{ID: uuid.New(), Code: "CUR"})
	bank := NewBank(logging.NewTestLogger(), uuid.New(), uuid.New(), registry, NewTransactionHandler(num.DecimalFromInt64(100)))

	require.NoError(t, bank.Deposit(num.DecimalFromInt64(90), cur.ID))
	err := bank.Deposit(num.DecimalFromInt64(20), cur.ID)
	assert.ErrorIs(t, err, types.ErrCapacityExceeded)
	assert.True(t, bank.Balance(cur.ID).Equal(num.DecimalFromInt64(90)))
}

func TestBankUnknownCurrency(t *testing.T) {
	bank := NewBank(logging.NewTestLogger(), uuid.New(), uuid.New(), NewRegistry(), NewTransactionHandler(num.DecimalZero()))

	assert.ErrorIs(t, bank.Deposit(num.DecimalFromInt64(1), uuid.New()), types.ErrCurrencyNotFound)
	assert.ErrorIs(t, bank.Withdraw(num.DecimalFromInt64(1), uuid.New()), types.ErrCurrencyNotFound)
}

func TestCentralBankPaperLimit(t *testing.T) {
	registry := NewRegistry()
	base := registry.Register(types.Currency{ID: uuid.New(), Code: "GLD"})
	maxCapital := num.MustDecimalFromString("100000000000")
	bank := NewCentralBank(
		logging.NewTestLogger(), uuid.New(), uuid.New(), registry, NewTransactionHandler(num.DecimalZero()),
		CentralIssuer{
			Base:       base.ID,
			MinCapital: maxCapital.Neg(),
			MaxCapital: maxCapital,
			PaperLimit: num.DecimalFromInt64(100),
		})

	require.NoError(t, bank.Withdraw(num.DecimalFromInt64(60), base.ID))
	assert.ErrorIs(t, bank.Withdraw(num.DecimalFromInt64(50), base.ID), types.ErrCapacityExceeded)
	assert.True(t, bank.Liquidity().Equal(num.DecimalFromInt64(60)))
}

func TestBankVaultPersistenceFailureRevertsMutation(t *testing.T) {
	registry := NewRegistry()
	cur := registry.Register(types.Currency{ID: uuid.New(), Code: "CUR"})
	bank := NewBank(logging.NewTestLogger(), uuid.New(), uuid.New(), registry, NewTransactionHandler(num.DecimalZero()))
	bank.UseStore(failingBalanceStore{})

	err := bank.Deposit(num.DecimalFromInt64(10), cur.ID)
	assert.ErrorIs(t, err, types.ErrPersistenceUnavailable)
	// the vault is treated as if the deposit never started
	assert.True(t, bank.Balance(cur.ID).IsZero())
}

func TestBankVaultPersistsThroughStore(t *testing.T) {
	registry := NewRegistry()
	cur := registry.Register(types.Currency{ID: uuid.New(), Code: "CUR"})
	bank := NewBank(logging.NewTestLogger(), uuid.New(), uuid.New(), registry, NewTransactionHandler(num.DecimalZero()))
	store := &capturingBalanceStore{balances: make(map[uuid.UUID]num.Decimal)}
	bank.UseStore(store)

	require.NoError(t, bank.Deposit(num.DecimalFromInt64(10), cur.ID))
	require.NoError(t, bank.Withdraw(num.DecimalFromInt64(4), cur.ID))

	assert.Equal(t, bank.ID(), store.lastAccount)
	assert.True(t, store.balances[cur.ID].Equal(num.DecimalFromInt64(6)))
}

type capturingBalanceStore struct {
	lastAccount uuid.UUID
	balances    map[uuid.UUID]num.Decimal
}

func (s *capturingBalanceStore) SaveBalance(accountID, currencyID uuid.UUID, balance num.Decimal) error {
	s.lastAccount = accountID
	s.balances[currencyID] = balance
	return nil
}

func TestBankProperties(t *testing.T) {
	bank, base, _ := testCentralBank(t, NewTransactionHandler(num.DecimalZero()))
	owner := bank.Owner()
	bank.OpenAccount(uuid.New(), KindChecking)
	bank.OpenAccount(uuid.New(), KindTrading)

	props := bank.Properties()
	assert.Equal(t, owner, props.Owner)
	assert.Equal(t, base.ID, props.BaseCurrency)
	assert.Equal(t, 2, props.NumAccounts)
	assert.True(t, props.Liquidity.IsZero())
}
