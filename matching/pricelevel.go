package matching

import (
	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/types"
)

// PriceLevel holds the orders resting at one price, in arrival order.
// l.orders is always sorted by submission time, so iteration from the front
// yields time priority within the level.
type PriceLevel struct {
	price  num.Decimal
	orders []*types.Order
	volume int64
}

func NewPriceLevel(price num.Decimal) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: make([]*types.Order, 0, 4),
	}
}

func (l *PriceLevel) Less(other btree.Item) bool {
	return l.price.LessThan(other.(*PriceLevel).price)
}

func (l *PriceLevel) addOrder(o *types.Order) {
	l.orders = append(l.orders, o)
	l.volume += o.Remaining
}

func (l *PriceLevel) removeOrder(id int64) bool {
	for i := range l.orders {
		if l.orders[i].ID == id {
			l.volume -= l.orders[i].Remaining
			copy(l.orders[i:], l.orders[i+1:])
			l.orders = l.orders[:len(l.orders)-1]
			return true
		}
	}
	return false
}

// firstOpen returns the earliest resting order still open for matching,
// skipping orders reserved by an in-flight settlement and orders issued by
// the given account (no self-trading).
func (l *PriceLevel) firstOpen(exclude uuid.UUID) *types.Order {
	for _, o := range l.orders {
		if o.Status == types.OrderStatusOpen && o.Remaining > 0 && o.AccountID != exclude {
			return o
		}
	}
	return nil
}

func (l *PriceLevel) reduceVolume(by int64) {
	l.volume -= by
}

func (l *PriceLevel) empty() bool {
	return len(l.orders) == 0
}
