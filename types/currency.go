package types

import "github.com/google/uuid"

// Currency identity is immutable; code and owning bank are metadata.
type Currency struct {
	ID         uuid.UUID
	Code       string
	OwningBank uuid.UUID // uuid.Nil when no bank owns the currency
}

func (c Currency) String() string {
	return c.Code
}
