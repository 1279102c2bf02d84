// Package console is an interactive shell for running module commands
// against a local switch, in the manner of fs_cli.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/chzyer/readline"

	"findchannel/src/format"
	"findchannel/src/logger"
	"findchannel/src/module"
)

// Prompt is shown before every line.
const Prompt = "findchannel> "

type handler struct {
	Name        string
	Mnemonic    string
	Completer   readline.PrefixCompleterInterface
	Parser      *regexp.Regexp
	Description string
	Callback    func(c *Console, args []string) (quit bool, err error)
}

var builtins []handler

// The table is filled in init since HELP ranges over it.
func init() {
	builtins = []handler{
		{
			Name:        "HELP",
			Mnemonic:    "help",
			Completer:   readline.PcItem("help"),
			Parser:      regexp.MustCompile(`^(?i)(help|\?)$`),
			Description: "List console commands and module APIs.",
			Callback: func(c *Console, args []string) (bool, error) {
				c.printHelp()
				return false, nil
			},
		},
		{
			Name:        "FORMAT",
			Mnemonic:    "/format text|json|count",
			Completer:   readline.PcItem("/format", readline.PcItem("text"), readline.PcItem("json"), readline.PcItem("count")),
			Parser:      regexp.MustCompile(`^(?i)/format\s+(\S+)$`),
			Description: "Set the output format for following commands.",
			Callback: func(c *Console, args []string) (bool, error) {
				kind, err := format.ParseKind(args[0])
				if err != nil {
					return false, err
				}
				c.format = kind
				fmt.Fprintf(c.out, "+OK format %s\n", kind)
				return false, nil
			},
		},
		{
			Name:        "VERBOSE",
			Mnemonic:    "/verbose on|off",
			Completer:   readline.PcItem("/verbose", readline.PcItem("on"), readline.PcItem("off")),
			Parser:      regexp.MustCompile(`^(?i)/verbose\s+(on|off)$`),
			Description: "Toggle Compare: trace lines.",
			Callback: func(c *Console, args []string) (bool, error) {
				c.verbose = strings.EqualFold(args[0], "on")
				fmt.Fprintf(c.out, "+OK verbose %s\n", strings.ToLower(args[0]))
				return false, nil
			},
		},
		{
			Name:        "EXIT",
			Mnemonic:    "exit",
			Completer:   readline.PcItem("exit"),
			Parser:      regexp.MustCompile(`^(?i)(exit|quit|bye|\.\.\.)$`),
			Description: "Leave the console.",
			Callback: func(c *Console, args []string) (bool, error) {
				return true, nil
			},
		},
	}
}

// Console dispatches lines to builtins or to a module's API table.
type Console struct {
	mod     *module.Module
	out     io.Writer
	format  format.Kind
	verbose bool
	logger  logger.Logger
}

// New creates a console writing to out.
func New(mod *module.Module, out io.Writer, kind format.Kind, verbose bool, log logger.Logger) *Console {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Console{mod: mod, out: out, format: kind, verbose: verbose, logger: log}
}

// Dispatch runs one input line. It reports whether the console should exit.
func (c *Console) Dispatch(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	for _, h := range builtins {
		if m := h.Parser.FindStringSubmatch(line); m != nil {
			quit, err := h.Callback(c, m[1:])
			if err != nil {
				fmt.Fprintf(c.out, "-ERR %v\n", err)
			}
			return quit
		}
	}

	stream := &module.Stream{Writer: c.out, Format: c.format, Verbose: c.verbose}
	if err := c.mod.Execute(ctx, line, stream); err != nil {
		c.logger.Debug("[Console] %q: %v", line, err)
	}
	return false
}

// Run reads lines until exit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryFile:     historyFile,
		AutoComplete:    c.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start console: %w", err)
	}
	defer rl.Close()

	c.out = rl.Stdout()
	fmt.Fprintf(c.out, "Type 'help' for commands. Module %s is %s.\n", c.mod.Name(), c.mod.State())

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read line: %w", err)
		}

		if c.Dispatch(ctx, line) {
			return nil
		}
	}
}

func (c *Console) completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, h := range builtins {
		items = append(items, h.Completer)
	}
	for _, api := range c.mod.APIs() {
		items = append(items, readline.PcItem(api.Name))
	}
	return readline.NewPrefixCompleter(items...)
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Console commands:")
	for _, h := range builtins {
		fmt.Fprintf(c.out, "  %-26s %s\n", h.Mnemonic, h.Description)
	}

	apis := c.mod.APIs()
	if len(apis) == 0 {
		fmt.Fprintf(c.out, "Module %s has no commands (%s).\n", c.mod.Name(), c.mod.State())
		return
	}
	fmt.Fprintf(c.out, "Module %s:\n", c.mod.Name())
	for _, api := range apis {
		fmt.Fprintf(c.out, "  %-26s %s\n", api.Syntax, api.Description)
	}
}
