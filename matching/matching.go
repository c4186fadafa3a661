package matching

import (
	"sync"

	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

// Engine routes orders to per-book-id order books, creating books lazily.
type Engine struct {
	log *logging.Logger
	cfg Config

	mu    sync.RWMutex
	books map[BookID]*OrderBook
}

func New(log *logging.Logger, cfg Config) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{
		log:   log,
		cfg:   cfg,
		books: make(map[BookID]*OrderBook),
	}
}

// Book returns the order book for an id, creating it on first use.
func (e *Engine) Book(id BookID) *OrderBook {
	e.mu.RLock()
	book, ok := e.books[id]
	e.mu.RUnlock()
	if ok {
		return book
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if book, ok = e.books[id]; ok {
		return book
	}
	book = NewBook(id, e.log)
	e.books[id] = book
	return book
}

// Submit rests an order on its book.
func (e *Engine) Submit(o *types.Order) error {
	return e.Book(BookID{Signature: o.Signature, Currency: o.CurrencyID}).AddOrder(o)
}

// Remove takes an order off its book.
func (e *Engine) Remove(o *types.Order) error {
	return e.Book(BookID{Signature: o.Signature, Currency: o.CurrencyID}).RemoveOrder(o)
}
