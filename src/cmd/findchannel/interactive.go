package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"findchannel/src/console"
	"findchannel/src/format"
	"findchannel/src/mcp"
	"findchannel/src/tui"
)

var flagHistory string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for module commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		kind, err := format.ParseKind(flagFormat)
		if err != nil {
			return err
		}
		return console.New(a.module, os.Stdout, kind, a.cfg.Verbose, a.log).Run(ctx, flagHistory)
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [<variable_name> <variable_value>]",
	Short: "Browse matching channels and their variables in a TUI",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		// The TUI owns the terminal
		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		return tui.Start(tui.Options{
			Hostname:  a.cfg.SwitchName,
			Query:     strings.Join(args, " "),
			Search:    tui.HandlerSearcher(a.handler),
			Variables: tui.RegistryVariables(a.backend),
		})
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve find_channel as an MCP tool over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		// stdout carries the protocol
		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		return mcp.NewServer(a.handler, a.backend, a.log).Run()
	},
}

func init() {
	consoleCmd.Flags().StringVar(&flagHistory, "history", "", "history file for the console")
}
