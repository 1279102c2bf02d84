package broker

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestInMemoryBroker_PublishSubscribe(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	topic := "test-topic"
	key := "test-key"
	value := []byte("test message")

	// Subscribe before publishing
	msgChan, err := broker.Subscribe(ctx, topic, "test-group")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// Publish message
	if err := broker.Publish(ctx, topic, key, value); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Receive message
	select {
	case msg := <-msgChan:
		if msg.Topic != topic {
			t.Errorf("Expected topic %s, got %s", topic, msg.Topic)
		}
		if msg.Key != key {
			t.Errorf("Expected key %s, got %s", key, msg.Key)
		}
		if string(msg.Value) != string(value) {
			t.Errorf("Expected value %s, got %s", string(value), string(msg.Value))
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestInMemoryBroker_Offsets(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	ch, _ := broker.Subscribe(ctx, "t", "g")

	broker.Publish(ctx, "t", "", []byte("a"))
	broker.Publish(ctx, "t", "", []byte("b"))

	for want := int64(0); want < 2; want++ {
		msg := <-ch
		if msg.Offset != want {
			t.Errorf("Expected offset %d, got %d", want, msg.Offset)
		}
	}
}

func TestInMemoryBroker_TopicIsolation(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	chA, _ := broker.Subscribe(ctx, "topic-a", "g")
	chB, _ := broker.Subscribe(ctx, "topic-b", "g")

	if err := broker.Publish(ctx, "topic-a", "", []byte("for a")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case <-chA:
	case <-time.After(1 * time.Second):
		t.Fatal("topic-a subscriber did not receive message")
	}

	select {
	case msg := <-chB:
		t.Errorf("topic-b subscriber received unexpected message %q", msg.Value)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInMemoryBroker_MultipleSubscribers(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	topic := "test-topic"

	// Create two subscribers
	sub1, err := broker.Subscribe(ctx, topic, "group1")
	if err != nil {
		t.Fatalf("Subscribe 1 failed: %v", err)
	}

	sub2, err := broker.Subscribe(ctx, topic, "group2")
	if err != nil {
		t.Fatalf("Subscribe 2 failed: %v", err)
	}

	// Publish message
	value := []byte("broadcast message")
	if err := broker.Publish(ctx, topic, "key", value); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Both subscribers should receive the message
	for i, sub := range []<-chan Message{sub1, sub2} {
		select {
		case msg := <-sub:
			if string(msg.Value) != string(value) {
				t.Errorf("Subscriber %d: expected value %s, got %s", i+1, string(value), string(msg.Value))
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("Subscriber %d: timeout waiting for message", i+1)
		}
	}
}

func TestInMemoryBroker_UnsubscribeOnCancel(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := broker.Subscribe(ctx, "t", "g")
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Expected channel to be closed, got a message")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for channel close after cancel")
	}

	// Publishing with no subscribers left must not block
	if err := broker.Publish(context.Background(), "t", "", []byte("x")); err != nil {
		t.Errorf("Publish failed: %v", err)
	}
}

func TestInMemoryBroker_ConcurrentPublishSubscribe(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const numGoroutines = 50
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		if i%2 == 0 {
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pctx, pcancel := context.WithTimeout(ctx, 100*time.Millisecond)
					_ = broker.Publish(pctx, "concurrent-topic", "", []byte("msg"))
					pcancel()
				}
			}()
		} else {
			go func() {
				defer wg.Done()
				sctx, scancel := context.WithCancel(ctx)
				defer scancel()
				_, _ = broker.Subscribe(sctx, "concurrent-topic", "g")
			}()
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout - possible deadlock in concurrent access")
	}
}

func TestInMemoryBroker_CloseClosesSubscribers(t *testing.T) {
	broker := NewInMemoryBroker()

	ctx := context.Background()
	ch1, _ := broker.Subscribe(ctx, "topic-1", "g")
	ch2, _ := broker.Subscribe(ctx, "topic-2", "g")

	var wg sync.WaitGroup
	wg.Add(2)
	for _, ch := range []<-chan Message{ch1, ch2} {
		go func(ch <-chan Message) {
			defer wg.Done()
			for range ch {
			}
		}(ch)
	}

	if err := broker.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Closing twice is a no-op
	if err := broker.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout - goroutines did not exit, channels may not be closed")
	}
}

func TestInMemoryBroker_ClosedBroker(t *testing.T) {
	broker := NewInMemoryBroker()
	broker.Close()

	ctx := context.Background()

	// Publishing to closed broker should fail
	err := broker.Publish(ctx, "test", "key", []byte("value"))
	if err == nil {
		t.Error("Expected error when publishing to closed broker")
	}

	// Subscribing to closed broker should fail
	_, err = broker.Subscribe(ctx, "test", "group")
	if err == nil {
		t.Error("Expected error when subscribing to closed broker")
	}
}
