package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"findchannel/src/broker"
	"findchannel/src/contracts"
)

// Client submits commands to remote agents and gathers their responses.
type Client struct {
	broker broker.Broker
}

// NewClient creates a Client on brk.
func NewClient(brk broker.Broker) *Client {
	return &Client{broker: brk}
}

// NewRequestID creates a unique request identifier.
func NewRequestID() string {
	return "req-" + uuid.NewString()
}

// Call publishes req and collects responses until ctx ends or, when
// expect is positive, until that many responses arrived. A zero
// RequestID is filled in.
func (c *Client) Call(ctx context.Context, req contracts.CommandRequest, expect int) ([]contracts.CommandResponse, error) {
	if req.RequestID == "" {
		req.RequestID = NewRequestID()
	}
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe before publishing so a fast agent's answer is not missed.
	ch, err := c.broker.Subscribe(subCtx, contracts.TopicResponses, "findchannel-client-"+req.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicResponses, err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := c.broker.Publish(ctx, contracts.TopicCommands, req.RequestID, data); err != nil {
		return nil, fmt.Errorf("failed to publish request: %w", err)
	}

	var responses []contracts.CommandResponse
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return responses, nil
			}
			if msg.Key != req.RequestID {
				continue
			}
			var resp contracts.CommandResponse
			if err := json.Unmarshal(msg.Value, &resp); err != nil || resp.RequestID != req.RequestID {
				continue
			}
			responses = append(responses, resp)
			if expect > 0 && len(responses) >= expect {
				return responses, nil
			}

		case <-ctx.Done():
			if len(responses) > 0 {
				return responses, nil
			}
			return nil, fmt.Errorf("no response for %s: %w", req.RequestID, ctx.Err())
		}
	}
}
