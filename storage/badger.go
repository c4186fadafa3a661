package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"

	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

// badgerStore wraps the badger k-v database. Every failure surfaces as
// types.ErrPersistenceUnavailable so callers treat the operation as never
// started.
type badgerStore struct {
	db *badger.DB
}

func newBadgerStore(log *logging.Logger, dir string) (*badgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = log
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open badger store")
	}
	return &badgerStore{db: db}, nil
}

func (b *badgerStore) writeJSON(key []byte, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
	if err != nil {
		return errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
	}
	return nil
}

func (b *badgerStore) readJSON(key []byte, v interface{}) error {
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
	}
	return nil
}

func (b *badgerStore) delete(key []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
	}
	return nil
}

func (b *badgerStore) iteratePrefix(prefix []byte, fn func(val []byte) error) error {
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				return fn(val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(types.ErrPersistenceUnavailable, err.Error())
	}
	return nil
}

func (b *badgerStore) Close() error {
	return b.db.Close()
}
