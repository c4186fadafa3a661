package storage

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

// Store durably holds account balances and the open order book. It
// implements banking.BalanceStore and trading.OrderStore. Retry policy on
// persistence failures belongs here, not to the engines; the current
// implementation does not retry.
type Store struct {
	Config

	log    *logging.Logger
	badger *badgerStore
}

// New opens a badger-backed store under cfg.Dir.
func New(log *logging.Logger, cfg Config) (*Store, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	bs, err := newBadgerStore(log, cfg.Dir)
	if err != nil {
		return nil, err
	}
	return &Store{
		Config: cfg,
		log:    log,
		badger: bs,
	}, nil
}

func orderKey(id int64) []byte {
	return []byte(fmt.Sprintf("orders/%d", id))
}

func balanceKey(accountID, currencyID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("balances/%s/%s", accountID, currencyID))
}

// SaveOrder upserts one order record.
func (s *Store) SaveOrder(o *types.Order) error {
	return s.badger.writeJSON(orderKey(o.ID), o)
}

// DeleteOrder drops an order record; deleting an absent id is not an error.
func (s *Store) DeleteOrder(id int64) error {
	return s.badger.delete(orderKey(id))
}

// ListOrders returns every stored open order, for recovery at startup.
func (s *Store) ListOrders() ([]*types.Order, error) {
	out := []*types.Order{}
	err := s.badger.iteratePrefix([]byte("orders/"), func(val []byte) error {
		o := &types.Order{}
		if err := json.Unmarshal(val, o); err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type balanceRecord struct {
	Account  uuid.UUID   `json:"account"`
	Currency uuid.UUID   `json:"currency"`
	Balance  num.Decimal `json:"balance"`
}

// SaveBalance upserts one balance entry.
func (s *Store) SaveBalance(accountID, currencyID uuid.UUID, balance num.Decimal) error {
	rec := balanceRecord{
		Account:  accountID,
		Currency: currencyID,
		Balance:  balance,
	}
	return s.badger.writeJSON(balanceKey(accountID, currencyID), rec)
}

// Balance reads one persisted balance entry.
func (s *Store) Balance(accountID, currencyID uuid.UUID) (num.Decimal, error) {
	rec := balanceRecord{}
	if err := s.badger.readJSON(balanceKey(accountID, currencyID), &rec); err != nil {
		return num.DecimalZero(), err
	}
	return rec.Balance, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.badger.Close()
}
