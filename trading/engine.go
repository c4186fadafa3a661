package trading

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pandory-network/RealEconomy/banking"
	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/matching"
	"github.com/pandory-network/RealEconomy/types"
)

// AccountProvider resolves the account behind an order during settlement.
type AccountProvider interface {
	Account(id uuid.UUID) (*banking.Account, bool)
}

// AssetInventory is the collaborator holding physical asset stock. Both
// operations report success as a boolean, mirroring the transaction
// handler's discipline.
type AssetInventory interface {
	RemoveAsset(accountID uuid.UUID, sig types.AssetSignature, quantity int64) bool
	AddAsset(accountID uuid.UUID, sig types.AssetSignature, quantity int64) bool
}

// Notifier is the messaging collaborator. Enqueue must never block; the
// engine guarantees exactly one record per participant per outcome.
type Notifier interface {
	Enqueue(recipient uuid.UUID, n types.Notification)
}

// OrderStore durably stores the open order book. May be nil.
type OrderStore interface {
	SaveOrder(o *types.Order) error
	DeleteOrder(id int64) error
}

// Engine is the matching and settlement scheduler. It serializes match and
// settlement per book, and per account during the four-step transfer, while
// unrelated books and accounts proceed in parallel.
type Engine struct {
	log       *logging.Logger
	cfg       Config
	books     *matching.Engine
	accounts  AccountProvider
	inventory AssetInventory
	notifier  Notifier
	store     OrderStore

	lastOrderID int64

	mu      sync.Mutex
	orders  map[int64]*types.Order
	bookMu  map[matching.BookID]*sync.Mutex
	acctMu  map[uuid.UUID]*sync.Mutex
}

func New(
	log *logging.Logger,
	cfg Config,
	books *matching.Engine,
	accounts AccountProvider,
	inventory AssetInventory,
	notifier Notifier,
	store OrderStore,
) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{
		log:       log,
		cfg:       cfg,
		books:     books,
		accounts:  accounts,
		inventory: inventory,
		notifier:  notifier,
		store:     store,
		orders:    make(map[int64]*types.Order),
		bookMu:    make(map[matching.BookID]*sync.Mutex),
		acctMu:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// SubmitOrder validates, records and rests a new order, then runs matching
// against the opposite side of its book. Settlement outcomes are reported
// through the notifier only, never to the submitter of the triggering order.
func (e *Engine) SubmitOrder(
	acct *banking.Account,
	t types.OrderType,
	sig types.AssetSignature,
	currencyID uuid.UUID,
	price num.Decimal,
	quantity int64,
) (*types.Order, error) {
	o := &types.Order{
		ID:         atomic.AddInt64(&e.lastOrderID, 1),
		Type:       t,
		Signature:  sig,
		CurrencyID: currencyID,
		Price:      price,
		Quantity:   quantity,
		Remaining:  quantity,
		Status:     types.OrderStatusOpen,
		AccountID:  acct.ID(),
		CreatedAt:  time.Now(),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !acct.AddOrderID(t, o.ID) {
		return nil, types.ErrInvalidOrder
	}
	if e.store != nil {
		if err := e.store.SaveOrder(o); err != nil {
			acct.RemoveOrderID(t, o.ID)
			e.log.Error("order not persisted", logging.OrderID(o.ID), logging.Error(err))
			return nil, errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
		}
	}
	bookID := matching.BookID{Signature: sig, Currency: currencyID}
	lock := e.lockForBook(bookID)
	lock.Lock()
	defer lock.Unlock()
	if err := e.books.Submit(o); err != nil {
		acct.RemoveOrderID(t, o.ID)
		e.deleteStored(o.ID)
		return nil, err
	}
	e.mu.Lock()
	e.orders[o.ID] = o
	e.mu.Unlock()

	e.uncross(o, bookID)
	return o, nil
}

// CancelOrder removes an order from the book and the issuer record. Only
// the issuing account may cancel, and only while the order is open; an
// order inside an active settlement attempt is unreachable here because the
// book lock is held for the duration of a settlement.
func (e *Engine) CancelOrder(acct *banking.Account, t types.OrderType, id int64) error {
	e.mu.Lock()
	o, ok := e.orders[id]
	e.mu.Unlock()
	if !ok {
		return types.ErrOrderNotFound
	}
	if o.AccountID != acct.ID() || !acct.HasOrderID(t, id) {
		return types.ErrNotOrderOwner
	}
	bookID := matching.BookID{Signature: o.Signature, Currency: o.CurrencyID}
	lock := e.lockForBook(bookID)
	lock.Lock()
	defer lock.Unlock()
	if o.Status != types.OrderStatusOpen {
		return types.ErrOrderNotFound
	}
	if err := e.books.Remove(o); err != nil {
		return err
	}
	o.Status = types.OrderStatusCancelled
	e.forget(o)
	e.notifier.Enqueue(o.AccountID, types.Notification{
		Timestamp: time.Now(),
		OrderID:   o.ID,
		Signature: o.Signature,
		Price:     o.Price,
		Quantity:  o.Remaining,
		Outcome:   types.OutcomeCancelled,
	})
	return nil
}

// GetOrder resolves a live order by id.
func (e *Engine) GetOrder(id int64) (*types.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.orders[id]
	return o, ok
}

// Recover re-admits persisted orders after a restart. Orders interrupted
// mid-settlement come back as open; the id counter advances past every
// recovered id so new submissions never collide.
func (e *Engine) Recover(orders []*types.Order) {
	for _, o := range orders {
		o.Status = types.OrderStatusOpen
		bookID := matching.BookID{Signature: o.Signature, Currency: o.CurrencyID}
		lock := e.lockForBook(bookID)
		lock.Lock()
		err := e.books.Submit(o)
		lock.Unlock()
		if err != nil {
			e.log.Warn("stored order not recoverable", logging.OrderID(o.ID), logging.Error(err))
			continue
		}
		e.mu.Lock()
		e.orders[o.ID] = o
		e.mu.Unlock()
		// the issuer record is the cancel-authorization boundary, rebuild
		// it alongside the book
		if acct, ok := e.accounts.Account(o.AccountID); ok {
			acct.AddOrderID(o.Type, o.ID)
		}
		if o.ID > atomic.LoadInt64(&e.lastOrderID) {
			atomic.StoreInt64(&e.lastOrderID, o.ID)
		}
	}
}

// uncross repeatedly pairs the order with the best compatible counter order
// and settles each pair. Callers hold the book lock.
func (e *Engine) uncross(o *types.Order, bookID matching.BookID) {
	book := e.books.Book(bookID)
	for o.Remaining > 0 && o.Status == types.OrderStatusOpen {
		counter := book.FindMatch(o)
		if counter == nil {
			return
		}
		e.settlePair(book, o, counter)
	}
}

// settlePair runs one settlement attempt between an order and its matched
// counter order. Whatever the outcome, exactly one notification per
// participant is enqueued.
func (e *Engine) settlePair(book *matching.OrderBook, o, counter *types.Order) {
	quantity := o.Remaining
	if counter.Remaining < quantity {
		quantity = counter.Remaining
	}
	// trade at the resting order's price
	price := counter.Price

	buy, sell := o, counter
	if o.Type == types.OrderTypeSell {
		buy, sell = counter, o
	}
	o.Status = types.OrderStatusMatching
	counter.Status = types.OrderStatusMatching

	outcome := e.settle(buy, sell, price, quantity)

	now := time.Now()
	for _, ord := range []*types.Order{buy, sell} {
		e.notifier.Enqueue(ord.AccountID, types.Notification{
			Timestamp: now,
			OrderID:   ord.ID,
			Signature: ord.Signature,
			Price:     price,
			Quantity:  quantity,
			Outcome:   outcome,
		})
	}

	if outcome == types.OutcomeSettled {
		book.ApplyFill(o, counter, quantity)
		for _, ord := range []*types.Order{o, counter} {
			if ord.Remaining <= 0 {
				e.forget(ord)
			} else {
				ord.Status = types.OrderStatusOpen
				// keep the stored record in step with the reduced
				// remainder so recovery re-admits only unsettled units
				e.saveStored(ord)
			}
		}
		return
	}

	// a failed attempt removes the order at fault; the innocent order
	// returns to the book untouched
	faulty := buy
	if outcome == types.OutcomeDepositFailAsSeller || outcome == types.OutcomeInsufficientAssetsSeller {
		faulty = sell
	}
	innocent := sell
	if faulty == sell {
		innocent = buy
	}
	if err := book.RemoveOrder(faulty); err != nil {
		e.log.Error("failed order not on book", logging.OrderID(faulty.ID), logging.Error(err))
	}
	faulty.Status = types.OrderStatusFailed
	e.forget(faulty)
	innocent.Status = types.OrderStatusOpen
}

// settle executes the four-step transfer for a matched pair, compensating
// already-applied steps when a later one fails. Both accounts are locked in
// id order for the whole sequence; nothing can interrupt a settlement
// between its first step and full success or full rollback.
func (e *Engine) settle(buy, sell *types.Order, price num.Decimal, quantity int64) types.OutcomeKind {
	buyer, ok := e.accounts.Account(buy.AccountID)
	if !ok {
		return types.OutcomeWithdrawFailAsBuyer
	}
	seller, ok := e.accounts.Account(sell.AccountID)
	if !ok {
		return types.OutcomeDepositFailAsSeller
	}
	unlock := e.lockAccounts(buy.AccountID, sell.AccountID)
	defer unlock()

	total := price.Mul(num.DecimalFromInt64(quantity))
	currency := buy.CurrencyID
	sig := buy.Signature

	// step 1: currency out of the buyer
	if err := buyer.Withdraw(total, currency); err != nil {
		e.logSettlementErr("buyer withdraw failed", buy.ID, err)
		return types.OutcomeWithdrawFailAsBuyer
	}
	// step 2: currency to the seller
	if err := seller.Deposit(total, currency); err != nil {
		e.logSettlementErr("seller deposit failed", sell.ID, err)
		e.refund(buyer, total, currency, buy.ID)
		return types.OutcomeDepositFailAsSeller
	}
	// step 3: asset out of the seller
	if !e.inventory.RemoveAsset(seller.ID(), sig, quantity) {
		e.reverseDeposit(seller, total, currency, sell.ID)
		e.refund(buyer, total, currency, buy.ID)
		return types.OutcomeInsufficientAssetsSeller
	}
	// step 4: asset to the buyer; not expected to fail under normal
	// operation, compensated all the same
	if !e.inventory.AddAsset(buyer.ID(), sig, quantity) {
		if !e.inventory.AddAsset(seller.ID(), sig, quantity) {
			e.log.Error("asset stock lost during compensation",
				logging.OrderID(sell.ID),
				logging.UUID("seller", seller.ID()))
		}
		e.reverseDeposit(seller, total, currency, sell.ID)
		e.refund(buyer, total, currency, buy.ID)
		return types.OutcomeInsufficientAssetsBuyer
	}
	return types.OutcomeSettled
}

// refund returns already-withdrawn funds to the buyer.
func (e *Engine) refund(buyer *banking.Account, total num.Decimal, currency uuid.UUID, orderID int64) {
	if err := buyer.Deposit(total, currency); err != nil {
		e.log.Error("buyer refund failed, ledger needs attention",
			logging.OrderID(orderID),
			logging.UUID("account", buyer.ID()),
			logging.Decimal("amount", total),
			logging.Error(err))
	}
}

// reverseDeposit claws back a seller credit. Overdraft is permitted so the
// reversal is always total.
func (e *Engine) reverseDeposit(seller *banking.Account, total num.Decimal, currency uuid.UUID, orderID int64) {
	if err := seller.WithdrawAllowingNegative(total, currency); err != nil {
		e.log.Error("seller reversal failed, ledger needs attention",
			logging.OrderID(orderID),
			logging.UUID("account", seller.ID()),
			logging.Decimal("amount", total),
			logging.Error(err))
	}
}

func (e *Engine) logSettlementErr(msg string, orderID int64, err error) {
	if errors.Is(err, types.ErrPersistenceUnavailable) {
		e.log.Error(msg, logging.OrderID(orderID), logging.Error(err))
		return
	}
	if e.log.GetLevel() <= logging.DebugLevel {
		e.log.Debug(msg, logging.OrderID(orderID), logging.Error(err))
	}
}

// forget drops an order from the engine's records, the issuer registry, and
// the store.
func (e *Engine) forget(o *types.Order) {
	e.mu.Lock()
	delete(e.orders, o.ID)
	e.mu.Unlock()
	if acct, ok := e.accounts.Account(o.AccountID); ok {
		acct.RemoveOrderID(o.Type, o.ID)
	}
	e.deleteStored(o.ID)
}

func (e *Engine) saveStored(o *types.Order) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveOrder(o); err != nil {
		e.log.Error("order not re-persisted", logging.OrderID(o.ID), logging.Error(err))
	}
}

func (e *Engine) deleteStored(id int64) {
	if e.store == nil {
		return
	}
	if err := e.store.DeleteOrder(id); err != nil {
		e.log.Error("order not removed from store", logging.OrderID(id), logging.Error(err))
	}
}

func (e *Engine) lockForBook(id matching.BookID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.bookMu[id]
	if !ok {
		lock = &sync.Mutex{}
		e.bookMu[id] = lock
	}
	return lock
}

// lockAccounts acquires both account locks in id order to prevent deadlock
// when settlements touch overlapping account pairs.
func (e *Engine) lockAccounts(a, b uuid.UUID) func() {
	e.mu.Lock()
	la, lb := e.acctLock(a), e.acctLock(b)
	e.mu.Unlock()
	if a.String() > b.String() {
		la, lb = lb, la
	}
	la.Lock()
	if la != lb {
		lb.Lock()
	}
	return func() {
		if la != lb {
			lb.Unlock()
		}
		la.Unlock()
	}
}

// acctLock returns the per-account mutex, callers hold e.mu.
func (e *Engine) acctLock(id uuid.UUID) *sync.Mutex {
	lock, ok := e.acctMu[id]
	if !ok {
		lock = &sync.Mutex{}
		e.acctMu[id] = lock
	}
	return lock
}
