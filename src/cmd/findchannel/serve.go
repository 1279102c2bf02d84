package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"findchannel/src/agent"
	"findchannel/src/broker"
	"findchannel/src/contracts"
	"findchannel/src/events"
	"findchannel/src/format"
	"findchannel/src/logger"
)

var (
	flagCallHost   string
	flagCallExpect int
	flagCallWait   time.Duration
)

// openBroker returns Redpanda when REDPANDA_BROKERS is set, otherwise an
// in-memory broker that only reaches this process.
func openBroker(log logger.Logger) (broker.Broker, error) {
	if appConfig.UseRedpanda() {
		log.Info("Redpanda brokers: %v", appConfig.Brokers)
		return broker.NewRedpandaBroker(appConfig.Brokers, log)
	}
	log.Info("REDPANDA_BROKERS not set, using in-memory broker")
	return broker.NewInMemoryBroker(), nil
}

func requireRedpanda(what string) error {
	if appConfig.UseRedpanda() {
		return nil
	}
	return fmt.Errorf("%s needs a shared broker; set REDPANDA_BROKERS (e.g. localhost:19092)", what)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer remote commands and apply channel events from the broker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		brk, err := openBroker(a.log)
		if err != nil {
			return fmt.Errorf("failed to create broker: %w", err)
		}
		defer brk.Close()

		a.log.Info("Starting findchannel on %s (%s store)", a.cfg.SwitchName, a.cfg.Driver)

		cmdAgent := agent.NewAgent(brk, a.module, a.cfg.SwitchName, a.log)
		consumer := events.NewConsumer(brk, a.backend, a.cfg.SwitchName, a.log)

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, run := range []func(context.Context) error{cmdAgent.Run, consumer.Run} {
			wg.Add(1)
			go func(run func(context.Context) error) {
				defer wg.Done()
				if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					errs <- err
					cancel()
				}
			}(run)
		}

		wg.Wait()
		close(errs)
		a.log.Info("Shutting down...")
		return <-errs
	},
}

var callCmd = &cobra.Command{
	Use:   "call <command line>",
	Short: "Run a command on every switch serving the broker and print the answers",
	Example: `  findchannel call find_channel call_center_queue sales
  findchannel call --host sw2 find_channel sip_from_user 1000`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRedpanda("call"); err != nil {
			return err
		}
		if _, err := format.ParseKind(flagFormat); err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		log := logger.NewStderrLogger(flagDebug)
		brk, err := openBroker(log)
		if err != nil {
			return fmt.Errorf("failed to create broker: %w", err)
		}
		defer brk.Close()

		callCtx, callCancel := context.WithTimeout(ctx, flagCallWait)
		defer callCancel()

		responses, err := agent.NewClient(brk).Call(callCtx, contracts.CommandRequest{
			Command:  strings.Join(args, " "),
			Format:   flagFormat,
			Verbose:  appConfig.Verbose,
			Hostname: flagCallHost,
		}, flagCallExpect)
		if err != nil {
			return err
		}

		failed := false
		for _, resp := range responses {
			if len(responses) > 1 || flagCallHost == "" {
				fmt.Printf("[%s]\n", resp.Hostname)
			}
			fmt.Print(resp.Output)
			failed = failed || !resp.OK
		}
		if failed {
			os.Exit(1)
		}
		return nil
	},
}

var eventCmd = &cobra.Command{
	Use:   "event <create|set|unset|destroy> <uuid> [name=value]...",
	Short: "Publish a channel event to the broker",
	Example: `  findchannel event create 5f1c... call_center_queue=sales
  findchannel event set 5f1c... agent_id=1001
  findchannel event destroy 5f1c...`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRedpanda("event"); err != nil {
			return err
		}

		ev, err := parseEvent(args, appConfig.SwitchName, time.Now())
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		log := logger.NewStderrLogger(flagDebug)
		brk, err := openBroker(log)
		if err != nil {
			return fmt.Errorf("failed to create broker: %w", err)
		}
		defer brk.Close()

		return events.Publish(ctx, brk, ev)
	},
}

// parseEvent builds a ChannelEvent from CLI arguments.
func parseEvent(args []string, hostname string, now time.Time) (contracts.ChannelEvent, error) {
	ev := contracts.ChannelEvent{
		Type:     args[0],
		UUID:     args[1],
		Hostname: hostname,
	}
	switch ev.Type {
	case contracts.EventCreate:
		ev.CreatedEpoch = now.Unix()
	case contracts.EventSet, contracts.EventUnset, contracts.EventDestroy:
	default:
		return ev, fmt.Errorf("unknown event type %q", args[0])
	}

	for _, kv := range args[2:] {
		name, value, ok := strings.Cut(kv, "=")
		if !ok && ev.Type != contracts.EventUnset {
			return ev, fmt.Errorf("expected name=value, got %q", kv)
		}
		if ev.Variables == nil {
			ev.Variables = make(map[string]string)
		}
		ev.Variables[name] = value
	}
	if (ev.Type == contracts.EventSet || ev.Type == contracts.EventUnset) && len(ev.Variables) == 0 {
		return ev, fmt.Errorf("%s needs at least one variable", ev.Type)
	}
	return ev, nil
}

func init() {
	callCmd.Flags().StringVar(&flagCallHost, "host", "", "only ask the switch with this hostname")
	callCmd.Flags().IntVar(&flagCallExpect, "expect", 0, "stop after this many answers (0 waits the full --wait)")
	callCmd.Flags().DurationVar(&flagCallWait, "wait", 3*time.Second, "how long to wait for answers")
}
