package types

import (
	"time"

	"github.com/pandory-network/RealEconomy/libs/num"
)

// OutcomeKind names the result of a settlement attempt or cancel as it is
// reported back to a participant.
type OutcomeKind int

const (
	OutcomeSettled OutcomeKind = iota
	OutcomeWithdrawFailAsBuyer
	OutcomeDepositFailAsSeller
	OutcomeInsufficientAssetsSeller
	OutcomeInsufficientAssetsBuyer
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSettled:
		return "SETTLED"
	case OutcomeWithdrawFailAsBuyer:
		return "WITHDRAW_FAIL_AS_BUYER"
	case OutcomeDepositFailAsSeller:
		return "DEPOSIT_FAIL_AS_SELLER"
	case OutcomeInsufficientAssetsSeller:
		return "INSUFFICIENT_ASSETS_SELLER"
	case OutcomeInsufficientAssetsBuyer:
		return "INSUFFICIENT_ASSETS_BUYER"
	case OutcomeCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

// Failure reports whether the outcome aborted a settlement attempt.
func (k OutcomeKind) Failure() bool {
	return k != OutcomeSettled && k != OutcomeCancelled
}

// Notification is the structured outcome record enqueued for a participant.
// Delivery timing and formatting belong to the messaging collaborator.
type Notification struct {
	Timestamp time.Time
	OrderID   int64
	Signature AssetSignature
	Price     num.Decimal
	Quantity  int64
	Outcome   OutcomeKind
}
