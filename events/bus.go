package events

import (
	"sync/atomic"
	"time"
)

// Type of an event on the bus.
type Type int

const (
	SettlementEvent Type = iota
	OrderEvent
)

func (t Type) String() string {
	switch t {
	case SettlementEvent:
		return "SettlementEvent"
	case OrderEvent:
		return "OrderEvent"
	}
	return "UNKNOWN"
}

// Event is the base interface for anything sent through the broker.
type Event interface {
	Type() Type
	Timestamp() time.Time
	Sequence() uint64
}

var eventSeq uint64

// Base common denominator all events share.
type Base struct {
	t   Type
	ts  time.Time
	seq uint64
}

func newBase(t Type) *Base {
	return &Base{
		t:   t,
		ts:  time.Now(),
		seq: atomic.AddUint64(&eventSeq, 1),
	}
}

func (b Base) Type() Type {
	return b.t
}

func (b Base) Timestamp() time.Time {
	return b.ts
}

func (b Base) Sequence() uint64 {
	return b.seq
}
