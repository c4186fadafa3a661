package broker

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pandory-network/RealEconomy/events"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/types"
)

// Subscriber receives events pushed by the broker's delivery goroutine.
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
	SetID(id int)
	ID() int
}

// Broker fans events out to subscribers. Send never blocks: events land on
// an unbounded in-memory queue drained by a single delivery goroutine, so
// engine critical sections are never held up by slow consumers.
type Broker struct {
	log *logging.Logger

	mu     sync.Mutex
	subs   map[int]Subscriber
	lastID int

	qmu    sync.Mutex
	qcond  *sync.Cond
	queue  []events.Event
	closed bool
	done   chan struct{}
}

// New creates a broker and starts its delivery goroutine.
func New(log *logging.Logger, cfg Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	b := &Broker{
		log:  log,
		subs: make(map[int]Subscriber),
		done: make(chan struct{}),
	}
	b.qcond = sync.NewCond(&b.qmu)
	go b.deliver()
	return b
}

// Send enqueues an event for delivery. Fire and forget.
func (b *Broker) Send(e events.Event) {
	b.qmu.Lock()
	if b.closed {
		b.qmu.Unlock()
		return
	}
	b.queue = append(b.queue, e)
	b.qmu.Unlock()
	b.qcond.Signal()
}

// Enqueue implements the messaging collaborator contract consumed by the
// trading engine: one structured outcome record per participant.
func (b *Broker) Enqueue(recipient uuid.UUID, n types.Notification) {
	b.Send(events.NewSettlementEvent(recipient, n))
}

// Subscribe registers a subscriber and returns its id.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastID++
	s.SetID(b.lastID)
	b.subs[b.lastID] = s
	return b.lastID
}

// Unsubscribe removes a subscriber by id.
func (b *Broker) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Close stops delivery once the queue has drained.
func (b *Broker) Close() {
	b.qmu.Lock()
	if b.closed {
		b.qmu.Unlock()
		return
	}
	b.closed = true
	b.qmu.Unlock()
	b.qcond.Signal()
	<-b.done
}

func (b *Broker) deliver() {
	defer close(b.done)
	for {
		b.qmu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.qcond.Wait()
		}
		if len(b.queue) == 0 && b.closed {
			b.qmu.Unlock()
			return
		}
		batch := b.queue
		b.queue = nil
		b.qmu.Unlock()

		for _, e := range batch {
			b.push(e)
		}
	}
}

func (b *Broker) push(e events.Event) {
	b.mu.Lock()
	subs := make([]Subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		for _, t := range s.Types() {
			if t == e.Type() {
				subs = append(subs, s)
				break
			}
		}
	}
	b.mu.Unlock()
	for _, s := range subs {
		s.Push(e)
	}
}
