package types

import "github.com/pkg/errors"

var (
	// ErrInsufficientFunds signals a withdrawal larger than the tracked balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrCapacityExceeded signals a deposit refused by the bank's configured ceiling
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrCurrencyNotFound signals a currency id that did not resolve through the registry
	ErrCurrencyNotFound = errors.New("currency not found")
	// ErrNotOrderOwner signals a cancel attempt by an account that did not issue the order
	ErrNotOrderOwner = errors.New("not order owner")
	// ErrInvalidOrder signals a non-positive price or quantity
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInvalidAmount signals a non-positive deposit or withdrawal amount
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrPersistenceUnavailable signals a failing persistence collaborator,
	// always fatal to the in-progress operation
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrOrderNotFound signals an order id unknown to the book
	ErrOrderNotFound = errors.New("order not found")
)
