package events

import (
	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/types"
)

// Settlement carries one settlement outcome for one participant.
type Settlement struct {
	*Base
	recipient    uuid.UUID
	notification types.Notification
}

func NewSettlementEvent(recipient uuid.UUID, n types.Notification) *Settlement {
	return &Settlement{
		Base:         newBase(SettlementEvent),
		recipient:    recipient,
		notification: n,
	}
}

func (s Settlement) Recipient() uuid.UUID {
	return s.recipient
}

func (s Settlement) Notification() types.Notification {
	return s.notification
}

// IsParticipant reports whether the event addresses the given account.
func (s Settlement) IsParticipant(accountID uuid.UUID) bool {
	return s.recipient == accountID
}
