package home

import (
	"sync"
	"time"
)

const subscriberBuffer = 16

// Broker fans events out to any number of subscribers.
type Broker struct {
	subscribers   []chan Event
	subscribersMu sync.Mutex
	closed        bool
}

// NewBroker creates a broker with no subscribers.
func NewBroker() *Broker {
	return &Broker{}
}

// Subscribe returns a channel that receives every event published after the call.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.subscribersMu.Lock()
	defer b.subscribersMu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.subscribersMu.Lock()
	defer b.subscribersMu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish sends evt to all subscribers. A subscriber whose buffer is full
// misses the event.
func (b *Broker) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	b.subscribersMu.Lock()
	defer b.subscribersMu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Close closes every subscriber channel. Later subscriptions are closed immediately.
func (b *Broker) Close() {
	b.subscribersMu.Lock()
	defer b.subscribersMu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
