// Package agent serves API commands received over the message broker.
// One agent runs per switch instance; requesters use Client.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"findchannel/src/broker"
	"findchannel/src/contracts"
	"findchannel/src/format"
	"findchannel/src/logger"
	"findchannel/src/module"
)

// Executor runs a full command line against a response stream.
// *module.Module satisfies it.
type Executor interface {
	Execute(ctx context.Context, cmdline string, stream *module.Stream) error
}

// Agent consumes command requests and publishes their output.
type Agent struct {
	broker   broker.Broker
	exec     Executor
	hostname string
	logger   logger.Logger
}

// NewAgent creates a command agent for the switch named hostname.
func NewAgent(brk broker.Broker, exec Executor, hostname string, log logger.Logger) *Agent {
	return &Agent{
		broker:   brk,
		exec:     exec,
		hostname: hostname,
		logger:   log,
	}
}

// GroupID is the consumer group for this switch. Each switch consumes
// every request so a fleet-wide lookup reaches all of them.
func (a *Agent) GroupID() string {
	return "findchannel-agent-" + a.hostname
}

// Run starts the agent's main loop.
// It subscribes to findchannel.commands and answers each request.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("[CommandAgent] Starting on %s...", a.hostname)

	msgChan, err := a.broker.Subscribe(ctx, contracts.TopicCommands, a.GroupID())
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicCommands, err)
	}

	a.logger.Info("[CommandAgent] Listening for commands on '%s' topic...", contracts.TopicCommands)

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				a.logger.Info("[CommandAgent] Message channel closed, shutting down")
				return nil
			}

			if err := a.processRequest(ctx, msg); err != nil {
				a.logger.Error("[CommandAgent] Error processing request: %v", err)
			}

		case <-ctx.Done():
			a.logger.Info("[CommandAgent] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processRequest runs one command and publishes the response.
func (a *Agent) processRequest(ctx context.Context, msg broker.Message) error {
	var request contracts.CommandRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		return fmt.Errorf("failed to unmarshal request: %w", err)
	}

	if request.Hostname != "" && request.Hostname != a.hostname {
		a.logger.Debug("[CommandAgent] Skipping request %s for %s", request.RequestID, request.Hostname)
		return nil
	}

	a.logger.Info("[CommandAgent] Processing request %s: %s", request.RequestID, request.Command)

	response := a.execute(ctx, request)

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err := a.broker.Publish(ctx, contracts.TopicResponses, request.RequestID, data); err != nil {
		return fmt.Errorf("failed to publish response: %w", err)
	}

	a.logger.Debug("[CommandAgent] Published response for %s (ok=%v, %d bytes)",
		request.RequestID, response.OK, len(response.Output))
	return nil
}

func (a *Agent) execute(ctx context.Context, request contracts.CommandRequest) contracts.CommandResponse {
	var out bytes.Buffer
	ok := true

	kind, err := format.ParseKind(request.Format)
	if err != nil {
		fmt.Fprintf(&out, "-ERR %v\n", err)
		ok = false
	} else if err := a.exec.Execute(ctx, request.Command, &module.Stream{
		Writer:  &out,
		Format:  kind,
		Verbose: request.Verbose,
	}); err != nil {
		ok = false
	}

	return contracts.CommandResponse{
		RequestID: request.RequestID,
		Hostname:  a.hostname,
		Output:    out.String(),
		OK:        ok,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
