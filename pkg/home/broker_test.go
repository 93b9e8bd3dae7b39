package home

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_FansOutToEverySubscriber(t *testing.T) {
	b := NewBroker()
	first := b.Subscribe()
	second := b.Subscribe()

	b.Publish(Event{Type: EventHomeAdded, HomeID: "a"})
	b.Publish(Event{Type: EventHomeRemoved, HomeID: "a"})

	for _, ch := range []chan Event{first, second} {
		evt := receive(t, ch)
		assert.Equal(t, EventHomeAdded, evt.Type)
		assert.False(t, evt.Timestamp.IsZero())
		assert.Equal(t, EventHomeRemoved, receive(t, ch).Type)
	}
}

func TestBroker_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after the only subscriber left must not panic
	b.Publish(Event{Type: EventHomesChanged})
}

func TestBroker_FullSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	slow := b.Subscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		b.Publish(Event{Type: EventHomesChanged})
	}
	assert.Len(t, slow, subscriberBuffer)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()
	b.Close()

	_, ok := <-ch
	assert.False(t, ok)

	late := b.Subscribe()
	_, ok = <-late
	require.False(t, ok)
}
