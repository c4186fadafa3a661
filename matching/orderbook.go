package matching

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

// BookID identifies one order book: a tradeable signature priced in one
// currency. Orders only ever match within a single book.
type BookID struct {
	Signature types.AssetSignature
	Currency  uuid.UUID
}

// OrderBook tracks resting buy and sell orders for one book id.
type OrderBook struct {
	id  BookID
	log *logging.Logger

	mu         sync.RWMutex
	buy        *OrderBookSide
	sell       *OrderBookSide
	ordersByID map[int64]*types.Order
}

func NewBook(id BookID, log *logging.Logger) *OrderBook {
	return &OrderBook{
		id:         id,
		log:        log,
		buy:        newSide(types.OrderTypeBuy),
		sell:       newSide(types.OrderTypeSell),
		ordersByID: make(map[int64]*types.Order),
	}
}

func (b *OrderBook) sideFor(t types.OrderType) *OrderBookSide {
	if t == types.OrderTypeBuy {
		return b.buy
	}
	return b.sell
}

// AddOrder rests a validated order on its side of the book.
func (b *OrderBook) AddOrder(o *types.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Signature != b.id.Signature || o.CurrencyID != b.id.Currency {
		return types.ErrInvalidOrder
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.ordersByID[o.ID]; ok {
		return types.ErrInvalidOrder
	}
	b.ordersByID[o.ID] = o
	b.sideFor(o.Type).addOrder(o)
	return nil
}

// RemoveOrder takes an order off the book, whatever its remaining quantity.
func (b *OrderBook) RemoveOrder(o *types.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.ordersByID[o.ID]; !ok {
		return types.ErrOrderNotFound
	}
	if !b.sideFor(o.Type).removeOrder(o) {
		return types.ErrOrderNotFound
	}
	delete(b.ordersByID, o.ID)
	return nil
}

// GetOrder resolves an order id resting on this book.
func (b *OrderBook) GetOrder(id int64) (*types.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.ordersByID[id]
	return o, ok
}

// FindMatch returns the best-priced, earliest counter order compatible with
// the given order, or nil when the opposite side has nothing crossing.
// Orders from the same account never match each other.
func (b *OrderBook) FindMatch(o *types.Order) *types.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sideFor(o.Type.Opposite()).bestMatch(o)
}

// ApplyFill decrements both orders by the settled quantity and removes
// fully-filled orders from the book.
func (b *OrderBook) ApplyFill(o, counter *types.Order, quantity int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ord := range []*types.Order{o, counter} {
		side := b.sideFor(ord.Type)
		// take the filled units out of the level volume before mutating
		// Remaining; removeOrder subtracts only what is left
		if item := side.levels.Get(&PriceLevel{price: ord.Price}); item != nil {
			item.(*PriceLevel).reduceVolume(quantity)
		}
		ord.Remaining -= quantity
		if ord.Remaining <= 0 {
			ord.Status = types.OrderStatusSettled
			side.removeOrder(ord)
			delete(b.ordersByID, ord.ID)
		}
	}
}

// BestBidPriceAndVolume reports the top of the buy side.
func (b *OrderBook) BestBidPriceAndVolume() (num.Decimal, int64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.buy.bestPriceAndVolume()
}

// BestOfferPriceAndVolume reports the top of the sell side.
func (b *OrderBook) BestOfferPriceAndVolume() (num.Decimal, int64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sell.bestPriceAndVolume()
}

func (b *OrderBook) getNumberOfBuyLevels() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.buy.numLevels()
}

func (b *OrderBook) getNumberOfSellLevels() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sell.numLevels()
}
