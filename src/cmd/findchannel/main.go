// Package main provides the findchannel CLI: one-shot lookups, an
// interactive console, a channel browser, an MCP server and the broker
// agent that answers fleet-wide lookups.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"findchannel/src/command"
	"findchannel/src/config"
	"findchannel/src/fixtures"
	"findchannel/src/format"
	"findchannel/src/logger"
	"findchannel/src/module"
	"findchannel/src/store"
)

var (
	// Application configuration, env first then flags
	appConfig *config.Config

	flagDriver     string
	flagDSN        string
	flagSwitchName string
	flagTimeout    time.Duration
	flagDelimiter  string
	flagFormat     string
	flagVerbose    bool
	flagDebug      bool
	flagFixtures   []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "findchannel",
	Short: "findchannel - find live channels by channel variable",
	Long: `findchannel answers

  find_channel <variable_name> <variable_value>

by printing every channel owned by this switch whose channel variable
compares case-insensitively equal to the value.

Configuration comes from FINDCHANNEL_* environment variables; flags
override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		appConfig = cfg
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDriver, "driver", "", "record store driver: sqlite, postgres or memory (env FINDCHANNEL_DB_DRIVER)")
	pf.StringVar(&flagDSN, "dsn", "", "data source name (env FINDCHANNEL_DSN)")
	pf.StringVar(&flagSwitchName, "switchname", "", "switch hostname to scope lookups to (env FINDCHANNEL_SWITCHNAME)")
	pf.DurationVar(&flagTimeout, "timeout", 0, "bound on acquiring the store and running the query (env FINDCHANNEL_QUERY_TIMEOUT)")
	pf.StringVar(&flagDelimiter, "delimiter", "", "field delimiter for text output (env FINDCHANNEL_DELIMITER)")
	pf.StringVarP(&flagFormat, "format", "f", "text", "output format: text, json or count")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "print a Compare: line for every channel carrying the variable (env FINDCHANNEL_VERBOSE)")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	pf.StringSliceVar(&flagFixtures, "fixtures", nil, "channel snapshot files (YAML or JSON) to load before running")

	rootCmd.AddCommand(findCmd, execCmd, consoleCmd, viewCmd, loadCmd, serveCmd, mcpCmd, callCmd, eventCmd)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = flagDriver
	}
	if flags.Changed("dsn") {
		cfg.DSN = flagDSN
	}
	if flags.Changed("switchname") {
		cfg.SwitchName = flagSwitchName
	}
	if flags.Changed("timeout") {
		cfg.QueryTimeout = flagTimeout
	}
	if flags.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
}

// app is the wired lookup stack for one process.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	backend store.Backend
	handler *command.Handler
	module  *module.Module
}

// newApp opens the store, loads fixtures and loads the module.
// quiet selects the silent logger for modes that own stdout.
func newApp(ctx context.Context, quiet bool) (*app, error) {
	var log logger.Logger = logger.NewStderrLogger(flagDebug)
	if quiet {
		log = logger.NewSilentLogger()
	}

	backend, err := store.Open(ctx, appConfig.Driver, appConfig.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", appConfig.Driver, err)
	}

	for _, path := range flagFixtures {
		n, err := fixtures.LoadFile(ctx, backend, path, appConfig.SwitchName)
		if err != nil {
			backend.Close()
			return nil, err
		}
		log.Info("Loaded %d channel(s) from %s", n, path)
	}

	settings := command.SettingsFromConfig(appConfig)
	handler := command.NewHandler(backend, backend, settings, log)
	mod := command.NewModule(handler, log)
	if err := mod.Load(); err != nil {
		backend.Close()
		return nil, err
	}
	log.Debug("Module %s loaded (%s)", mod.Name(), settings)

	return &app{
		cfg:     appConfig,
		log:     log,
		backend: backend,
		handler: handler,
		module:  mod,
	}, nil
}

func (a *app) Close() {
	a.module.Shutdown()
	if err := a.backend.Close(); err != nil {
		a.log.Error("failed to close store: %v", err)
	}
}

// stream builds the response stream for stdout from the output flags.
func (a *app) stream() (*module.Stream, error) {
	kind, err := format.ParseKind(flagFormat)
	if err != nil {
		return nil, err
	}
	return &module.Stream{Writer: os.Stdout, Format: kind, Verbose: a.cfg.Verbose}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var findCmd = &cobra.Command{
	Use:   "find <variable_name> <variable_value>",
	Short: "Find local channels whose variable equals a value",
	Example: `  findchannel find call_center_queue sales
  findchannel find sip_from_user 1000 --format json`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommandLine(command.Name + " " + strings.Join(args, " "))
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <command line>",
	Short: "Run a module API command line, e.g. \"find_channel queue sales\"",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommandLine(strings.Join(args, " "))
	},
}

// runCommandLine executes cmdline and exits non-zero after an error line.
func runCommandLine(cmdline string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	stream, err := a.stream()
	if err != nil {
		return err
	}
	if err := a.module.Execute(ctx, cmdline, stream); err != nil {
		a.log.Debug("%s: %v", cmdline, err)
		a.Close()
		os.Exit(1)
	}
	return nil
}

var loadCmd = &cobra.Command{
	Use:   "load <file>...",
	Short: "Load channel snapshots (YAML or JSON) into the record store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, path := range args {
			n, err := fixtures.LoadFile(ctx, a.backend, path, a.cfg.SwitchName)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d channel(s) from %s\n", n, path)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
