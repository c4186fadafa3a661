package logging

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pandory-network/RealEconomy/libs/num"
)

// Field aliases so packages only import logging for structured fields.
var (
	Bool     = zap.Bool
	Int      = zap.Int
	Int64    = zap.Int64
	String   = zap.String
	Error    = zap.Error
	Duration = zap.Duration
)

// Decimal constructs a field holding a decimal amount.
func Decimal(key string, d num.Decimal) zap.Field {
	return zap.String(key, d.String())
}

// UUID constructs a field holding an entity identifier.
func UUID(key string, id uuid.UUID) zap.Field {
	return zap.String(key, id.String())
}

// OrderID constructs a field holding an order identifier.
func OrderID(id int64) zap.Field {
	return zap.Int64("order-id", id)
}

// Timestamp constructs a field holding a time in RFC3339.
func Timestamp(key string, t time.Time) zap.Field {
	return zap.String(key, t.Format(time.RFC3339Nano))
}
