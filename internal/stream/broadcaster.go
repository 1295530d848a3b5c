package stream

import (
	"sync"
	"sync/atomic"

	"github.com/sustainai/hazard-risk/internal/models"
)

// subscriberBuffer is the number of snapshots a subscriber may lag behind
// before it starts missing commits.
const subscriberBuffer = 8

// Broadcaster fans committed snapshots out to live subscribers.
type Broadcaster struct {
	subscribers map[uint64]chan models.Snapshot
	nextID      atomic.Uint64
	closed      bool
	mu          sync.RWMutex
	onChange    func(n int)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan models.Snapshot),
	}
}

// OnSubscriberChange registers a callback invoked with the subscriber count
// whenever it changes. It must be set before the first Subscribe.
func (b *Broadcaster) OnSubscriberChange(fn func(n int)) {
	b.onChange = fn
}

// Subscribe registers a new subscriber. After Close the returned channel is
// already closed.
func (b *Broadcaster) Subscribe() (uint64, <-chan models.Snapshot) {
	id := b.nextID.Add(1)
	ch := make(chan models.Snapshot, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return id, ch
	}
	b.subscribers[id] = ch
	n := len(b.subscribers)
	b.mu.Unlock()

	b.notify(n)
	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		close(ch)
		delete(b.subscribers, id)
	}
	n := len(b.subscribers)
	b.mu.Unlock()

	if ok {
		b.notify(n)
	}
}

// Broadcast delivers snap to every subscriber with room in its buffer. Slow
// subscribers are skipped. Subscribers share the snapshot and must not
// modify it.
func (b *Broadcaster) Broadcast(snap models.Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.subscribers) == 0 {
		return
	}
	snap = snap.Clone()
	for _, ch := range b.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels so streams exit.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	b.notify(0)
}

func (b *Broadcaster) notify(n int) {
	if b.onChange != nil {
		b.onChange(n)
	}
}
