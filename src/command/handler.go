// Package command implements the find_channel administrative command.
package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"findchannel/src/config"
	"findchannel/src/contracts"
	"findchannel/src/finder"
	"findchannel/src/format"
	"findchannel/src/logger"
	"findchannel/src/module"
	"findchannel/src/registry"
	"findchannel/src/store"
)

const (
	Name        = "find_channel"
	Description = "Find channel uuid by variable API"
	Syntax      = "find_channel <variable_name> <variable_value>"

	// ModuleName is the name the command's module loads under.
	ModuleName = "mod_find_channel"
)

// Settings are the per-instance values a Handler needs.
type Settings struct {
	// Hostname restricts the query to channels owned by this switch.
	Hostname     string
	QueryTimeout time.Duration
	Delimiter    string
}

// SettingsFromConfig extracts handler settings from the app config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Hostname:     cfg.SwitchName,
		QueryTimeout: cfg.QueryTimeout,
		Delimiter:    cfg.Delimiter,
	}
}

// Handler runs find_channel against a record store and a session registry.
// It holds no per-invocation state and is safe for concurrent use.
type Handler struct {
	store    store.Store
	registry registry.Registry
	settings Settings
	log      logger.Logger
}

// NewHandler creates a Handler. Zero settings fall back to config defaults.
func NewHandler(st store.Store, reg registry.Registry, settings Settings, log logger.Logger) *Handler {
	if settings.QueryTimeout <= 0 {
		settings.QueryTimeout = config.DefaultQueryTimeout
	}
	if settings.Delimiter == "" {
		settings.Delimiter = config.DefaultDelimiter
	}
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Handler{store: st, registry: reg, settings: settings, log: log}
}

// Run executes one find_channel invocation with args (the command line
// without the command name) and writes the response to stream.
// A non-nil error is always a *CommandError whose line was already written.
func (h *Handler) Run(ctx context.Context, args string, stream *module.Stream) error {
	result, err := h.find(ctx, args, stream)
	if err != nil {
		io.WriteString(stream, err.Response())
		return err
	}

	out, ferr := format.Render(stream.Format, result, h.settings.Delimiter)
	if ferr != nil {
		cerr := &CommandError{Kind: ferr, Message: ferr.Error()}
		io.WriteString(stream, cerr.Response())
		return cerr
	}
	_, werr := io.WriteString(stream, out)
	return werr
}

// Handle runs the command and returns its full response text.
func (h *Handler) Handle(ctx context.Context, args string, kind format.Kind, verbose bool) (string, error) {
	var buf bytes.Buffer
	err := h.Run(ctx, args, &module.Stream{Writer: &buf, Format: kind, Verbose: verbose})
	return buf.String(), err
}

// Find runs the lookup and returns the structured result.
func (h *Handler) Find(ctx context.Context, query contracts.Query, trace io.Writer) (*contracts.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, h.settings.QueryTimeout)
	defer cancel()

	handle, err := h.store.Acquire(ctx)
	if err != nil {
		h.log.Error("[%s] failed to acquire data source: %v", Name, err)
		return nil, dataSourceError(err)
	}
	defer func() {
		if rerr := handle.Release(); rerr != nil {
			h.log.Error("[%s] failed to release data source: %v", Name, rerr)
		}
	}()

	rows, err := handle.LocalRecords(ctx, h.settings.Hostname)
	if err != nil {
		h.log.Error("[%s] local records query failed: %v", Name, err)
		return nil, queryError(err)
	}

	result, err := finder.Find(ctx, rows, h.registry, query, finder.Options{Trace: trace})
	if err != nil {
		h.log.Error("[%s] scan aborted after %d row(s): %v", Name, result.Scanned, err)
		return nil, queryError(err)
	}

	h.log.Debug("[%s] %s=%s scanned %d, matched %d",
		Name, query.VariableName, query.VariableValue, result.Scanned, len(result.Rows))
	return result, nil
}

func (h *Handler) find(ctx context.Context, args string, stream *module.Stream) (*contracts.Result, *CommandError) {
	if parsed := Tokenize(args); parsed.Truncated {
		h.log.Debug("[%s] ignoring arguments after the first %d: %q", Name, MaxArgs, args)
	}
	query, err := ParseQuery(args)
	if err != nil {
		return nil, err
	}

	// A JSON response must stay one document, so its trace goes inside it.
	var trace io.Writer
	var buffered *bytes.Buffer
	if stream.Verbose {
		trace = stream
		if stream.Format == format.KindJSON {
			buffered = &bytes.Buffer{}
			trace = buffered
		}
	}

	result, ferr := h.Find(ctx, query, trace)
	if ferr != nil {
		return nil, ferr.(*CommandError)
	}
	if buffered != nil {
		result.Trace = format.TraceLines(buffered.String())
	}
	return result, nil
}

// ParseQuery builds a Query from the argument string. The first token is
// the variable name and the second the value; a missing value means the
// empty string. No tokens at all is a usage error.
func ParseQuery(args string) (contracts.Query, *CommandError) {
	parsed := Tokenize(args)
	name, hasName := parsed.Get(0)
	value, hasValue := parsed.Get(1)
	if !hasName && !hasValue {
		return contracts.Query{}, usageError()
	}
	return contracts.Query{VariableName: name, VariableValue: value}, nil
}

// API describes the command for a module's API table.
func (h *Handler) API() module.API {
	return module.API{
		Name:        Name,
		Description: Description,
		Syntax:      Syntax,
		Func:        h.Run,
	}
}

// NewModule returns an unloaded module that registers find_channel on Load.
func NewModule(h *Handler, log logger.Logger) *module.Module {
	return module.New(ModuleName, func(m *module.Module) error {
		return m.AddAPI(h.API())
	}, log)
}

// Settings returns the handler's effective settings.
func (h *Handler) Settings() Settings {
	return h.settings
}

// String implements fmt.Stringer for log lines.
func (s Settings) String() string {
	return fmt.Sprintf("hostname=%s timeout=%s delimiter=%q", s.Hostname, s.QueryTimeout, s.Delimiter)
}
