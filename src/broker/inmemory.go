package broker

import (
	"context"
	"sync"
	"time"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 100

// InMemoryBroker delivers every published message to every live subscriber
// of the topic. Consumer groups are ignored.
type InMemoryBroker struct {
	mu      sync.RWMutex
	subs    map[string]map[*subscriber]struct{}
	offsets map[string]int64
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
}

type subscriber struct {
	ch   chan Message
	gone chan struct{} // closed when the subscriber's context ends
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subs:    make(map[string]map[*subscriber]struct{}),
		offsets: make(map[string]int64),
		done:    make(chan struct{}),
	}
}

// Publish fans the message out to current subscribers.
// It blocks while a subscriber's buffer is full, until ctx ends.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	offset := b.offsets[topic]
	b.offsets[topic]++
	b.mu.Unlock()

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     value,
		Offset:    offset,
		Timestamp: time.Now().UnixMilli(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[topic] {
		select {
		case sub.ch <- msg:
		case <-sub.gone:
		case <-b.done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a subscriber that lives until ctx ends or Close.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := &subscriber{
		ch:   make(chan Message, subscriberBuffer),
		gone: make(chan struct{}),
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*subscriber]struct{})
	}
	b.subs[topic][sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			close(sub.gone)
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[topic][sub]; ok {
			delete(b.subs[topic], sub)
			sub.close()
		}
	}()

	return sub.ch, nil
}

// Close closes every subscriber channel.
func (b *InMemoryBroker) Close() error {
	// Unblock publishers before taking the write lock.
	b.closeOnce.Do(func() { close(b.done) })

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for topic, subs := range b.subs {
		for sub := range subs {
			sub.close()
		}
		delete(b.subs, topic)
	}
	return nil
}
