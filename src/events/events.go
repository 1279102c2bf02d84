// Package events keeps a store in step with channel lifecycle events
// published by the switch.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"findchannel/src/broker"
	"findchannel/src/contracts"
	"findchannel/src/logger"
	"findchannel/src/registry"
	"findchannel/src/store"
)

// Consumer applies channel events to a store.Writer.
type Consumer struct {
	broker   broker.Broker
	writer   store.Writer
	hostname string
	logger   logger.Logger
}

// NewConsumer creates a consumer for one switch instance.
// Events carrying another hostname are ignored.
func NewConsumer(brk broker.Broker, w store.Writer, hostname string, log logger.Logger) *Consumer {
	return &Consumer{broker: brk, writer: w, hostname: hostname, logger: log}
}

// Run subscribes to findchannel.channel.events until ctx ends.
func (c *Consumer) Run(ctx context.Context) error {
	msgChan, err := c.broker.Subscribe(ctx, contracts.TopicChannelEvents, "findchannel-events-"+c.hostname)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicChannelEvents, err)
	}

	c.logger.Info("[EventConsumer] Listening for channel events on '%s' topic...", contracts.TopicChannelEvents)

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				c.logger.Info("[EventConsumer] Message channel closed, shutting down")
				return nil
			}

			var ev contracts.ChannelEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				c.logger.Error("[EventConsumer] Failed to unmarshal event: %v", err)
				continue
			}
			if err := c.Apply(ctx, ev); err != nil {
				c.logger.Error("[EventConsumer] Failed to apply %s for %s: %v", ev.Type, ev.UUID, err)
			}

		case <-ctx.Done():
			c.logger.Info("[EventConsumer] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// Apply writes one event through to the store.
// A set/unset for a channel that already hung up is dropped silently.
func (c *Consumer) Apply(ctx context.Context, ev contracts.ChannelEvent) error {
	if ev.UUID == "" {
		return fmt.Errorf("event %q has no uuid", ev.Type)
	}
	if ev.Hostname != "" && c.hostname != "" && ev.Hostname != c.hostname {
		return nil
	}

	var err error
	switch ev.Type {
	case contracts.EventCreate:
		hostname := ev.Hostname
		if hostname == "" {
			hostname = c.hostname
		}
		err = c.writer.SaveChannel(ctx, contracts.ChannelRecord{
			ID:           ev.UUID,
			Hostname:     hostname,
			CreatedEpoch: ev.CreatedEpoch,
			Fields:       ev.Fields,
			Variables:    ev.Variables,
		})
	case contracts.EventSet:
		for name, value := range ev.Variables {
			if err = c.writer.SetVariable(ctx, ev.UUID, name, value); err != nil {
				break
			}
		}
	case contracts.EventUnset:
		for name := range ev.Variables {
			if err = c.writer.UnsetVariable(ctx, ev.UUID, name); err != nil {
				break
			}
		}
	case contracts.EventDestroy:
		err = c.writer.DeleteChannel(ctx, ev.UUID)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	if errors.Is(err, registry.ErrNotFound) {
		c.logger.Debug("[EventConsumer] Dropping %s for vanished channel %s", ev.Type, ev.UUID)
		return nil
	}
	return err
}

// Publish sends ev to the channel events topic keyed by uuid.
func Publish(ctx context.Context, brk broker.Broker, ev contracts.ChannelEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := brk.Publish(ctx, contracts.TopicChannelEvents, ev.UUID, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
