package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/libs/num"
)

// OrderType is the side of the book an order rests on.
type OrderType int

const (
	OrderTypeBuy OrderType = iota
	OrderTypeSell

	// NumOrderTypes sizes fixed per-type tables.
	NumOrderTypes = 2
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeBuy:
		return "BUY"
	case OrderTypeSell:
		return "SELL"
	}
	return "UNKNOWN"
}

// Opposite returns the counter side used when searching for matches.
func (t OrderType) Opposite() OrderType {
	if t == OrderTypeBuy {
		return OrderTypeSell
	}
	return OrderTypeBuy
}

// OrderStatus tracks the order lifecycle: Open -> {Matching -> Settled | Cancelled | Failed}.
type OrderStatus int

const (
	OrderStatusOpen OrderStatus = iota
	OrderStatusMatching
	OrderStatusSettled
	OrderStatusCancelled
	OrderStatusFailed
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusOpen:
		return "OPEN"
	case OrderStatusMatching:
		return "MATCHING"
	case OrderStatusSettled:
		return "SETTLED"
	case OrderStatusCancelled:
		return "CANCELLED"
	case OrderStatusFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Order is a standing offer to buy or sell a quantity of an asset signature
// at a unit price denominated in a currency. It is owned by the issuing
// account's order-id registry; the book and engine hold references only.
type Order struct {
	ID         int64
	Type       OrderType
	Signature  AssetSignature
	CurrencyID uuid.UUID
	Price      num.Decimal
	Quantity   int64
	Remaining  int64
	Status     OrderStatus
	AccountID  uuid.UUID
	CreatedAt  time.Time
}

func (o *Order) String() string {
	return fmt.Sprintf("[order/%d] %s %d %s at %s", o.ID, o.Type, o.Remaining, o.Signature, o.Price)
}

// Validate rejects the values ErrInvalidOrder covers: non-positive price or
// quantity, or an empty signature.
func (o *Order) Validate() error {
	if !o.Price.IsPositive() {
		return ErrInvalidOrder
	}
	if o.Quantity <= 0 || o.Remaining <= 0 || o.Remaining > o.Quantity {
		return ErrInvalidOrder
	}
	if o.Signature.Name == "" {
		return ErrInvalidOrder
	}
	return nil
}
