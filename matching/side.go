package matching

import (
	"github.com/google/btree"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/types"
)

// OrderBookSide represents a side of the book, either buy or sell. Levels
// are kept in a btree ordered by price; buy scans descend (best bid first),
// sell scans ascend (best offer first).
type OrderBookSide struct {
	side   types.OrderType
	levels *btree.BTree
}

func newSide(side types.OrderType) *OrderBookSide {
	return &OrderBookSide{
		side:   side,
		levels: btree.New(2),
	}
}

func (s *OrderBookSide) getPriceLevel(price num.Decimal) *PriceLevel {
	if item := s.levels.Get(&PriceLevel{price: price}); item != nil {
		return item.(*PriceLevel)
	}
	level := NewPriceLevel(price)
	s.levels.ReplaceOrInsert(level)
	return level
}

func (s *OrderBookSide) addOrder(o *types.Order) {
	s.getPriceLevel(o.Price).addOrder(o)
}

func (s *OrderBookSide) removeOrder(o *types.Order) bool {
	item := s.levels.Get(&PriceLevel{price: o.Price})
	if item == nil {
		return false
	}
	level := item.(*PriceLevel)
	if !level.removeOrder(o.ID) {
		return false
	}
	if level.empty() {
		s.levels.Delete(level)
	}
	return true
}

// bestMatch finds the earliest resting order at the best compatible price
// for an incoming order from the opposite side, or nil. Compatibility is
// buyPrice >= sellPrice; price priority first, time priority within a level.
func (s *OrderBookSide) bestMatch(incoming *types.Order) *types.Order {
	var match *types.Order
	visit := func(item btree.Item) bool {
		level := item.(*PriceLevel)
		if s.side == types.OrderTypeSell && level.price.GreaterThan(incoming.Price) {
			return false
		}
		if s.side == types.OrderTypeBuy && level.price.LessThan(incoming.Price) {
			return false
		}
		if o := level.firstOpen(incoming.AccountID); o != nil {
			match = o
			return false
		}
		return true
	}
	if s.side == types.OrderTypeSell {
		s.levels.Ascend(visit)
	} else {
		s.levels.Descend(visit)
	}
	return match
}

// bestPriceAndVolume reports the top of this side, zero values when empty.
func (s *OrderBookSide) bestPriceAndVolume() (num.Decimal, int64) {
	var (
		price  num.Decimal
		volume int64
	)
	visit := func(item btree.Item) bool {
		level := item.(*PriceLevel)
		price = level.price
		volume = level.volume
		return false
	}
	if s.side == types.OrderTypeSell {
		s.levels.Ascend(visit)
	} else {
		s.levels.Descend(visit)
	}
	return price, volume
}

func (s *OrderBookSide) numLevels() int {
	return s.levels.Len()
}
