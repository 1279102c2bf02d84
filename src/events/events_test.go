package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findchannel/src/broker"
	"findchannel/src/contracts"
	"findchannel/src/logger"
	"findchannel/src/registry"
	"findchannel/src/store"
)

func TestConsumer_ApplyLifecycle(t *testing.T) {
	ms := store.NewMemoryStore()
	c := NewConsumer(nil, ms, "sw1", logger.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, contracts.ChannelEvent{
		Type:         contracts.EventCreate,
		UUID:         "uuid-1",
		CreatedEpoch: 100,
		Fields:       map[string]string{"direction": "inbound"},
		Variables:    map[string]string{"call_state": "Ready"},
	}))

	sess, err := ms.Locate(ctx, "uuid-1")
	require.NoError(t, err)
	v, _ := sess.Variable("call_state")
	assert.Equal(t, "Ready", v)

	require.NoError(t, c.Apply(ctx, contracts.ChannelEvent{
		Type:      contracts.EventSet,
		UUID:      "uuid-1",
		Variables: map[string]string{"call_state": "Busy", "queue": "sales"},
	}))
	sess, _ = ms.Locate(ctx, "uuid-1")
	v, _ = sess.Variable("call_state")
	assert.Equal(t, "Busy", v)

	require.NoError(t, c.Apply(ctx, contracts.ChannelEvent{
		Type:      contracts.EventUnset,
		UUID:      "uuid-1",
		Variables: map[string]string{"queue": ""},
	}))
	sess, _ = ms.Locate(ctx, "uuid-1")
	_, ok := sess.Variable("queue")
	assert.False(t, ok)

	// Created without a hostname lands on the consumer's switch
	h, _ := ms.Acquire(ctx)
	rows, _ := h.LocalRecords(ctx, "sw1")
	h.Release()
	assert.Len(t, rows, 1)

	require.NoError(t, c.Apply(ctx, contracts.ChannelEvent{Type: contracts.EventDestroy, UUID: "uuid-1"}))
	_, err = ms.Locate(ctx, "uuid-1")
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}

func TestConsumer_SetOnVanishedChannelDropped(t *testing.T) {
	c := NewConsumer(nil, store.NewMemoryStore(), "sw1", logger.NewSilentLogger())

	err := c.Apply(context.Background(), contracts.ChannelEvent{
		Type:      contracts.EventSet,
		UUID:      "gone",
		Variables: map[string]string{"a": "b"},
	})
	assert.NoError(t, err)
}

func TestConsumer_ForeignHostIgnored(t *testing.T) {
	ms := store.NewMemoryStore()
	c := NewConsumer(nil, ms, "sw1", logger.NewSilentLogger())

	require.NoError(t, c.Apply(context.Background(), contracts.ChannelEvent{
		Type: contracts.EventCreate, UUID: "x", Hostname: "sw2",
	}))
	assert.Equal(t, 0, ms.Len())
}

func TestConsumer_BadEvents(t *testing.T) {
	c := NewConsumer(nil, store.NewMemoryStore(), "sw1", logger.NewSilentLogger())

	assert.Error(t, c.Apply(context.Background(), contracts.ChannelEvent{Type: contracts.EventCreate}))
	assert.Error(t, c.Apply(context.Background(), contracts.ChannelEvent{Type: "answer", UUID: "x"}))
}

func TestConsumer_RunOverBroker(t *testing.T) {
	brk := broker.NewInMemoryBroker()
	defer brk.Close()

	ms := store.NewMemoryStore()
	c := NewConsumer(brk, ms, "sw1", logger.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, Publish(ctx, brk, contracts.ChannelEvent{
		Type: contracts.EventCreate, UUID: "uuid-9", Hostname: "sw1",
		Variables: map[string]string{"k": "v"},
	}))

	assert.Eventually(t, func() bool { return ms.Len() == 1 }, time.Second, 10*time.Millisecond)
}
