// Package module provides the loadable-module lifecycle and the API table
// that administrative commands register into.
package module

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"findchannel/src/format"
	"findchannel/src/logger"
)

// State is the module lifecycle state.
type State int

const (
	Unloaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

var (
	ErrNotLoaded     = errors.New("module not loaded")
	ErrAlreadyLoaded = errors.New("module already loaded")
	ErrNoSuchCommand = errors.New("no such command")
)

// Stream is the response sink handed to an API function.
type Stream struct {
	io.Writer
	// Format selects the output style for row results.
	Format format.Kind
	// Verbose enables diagnostic trace lines.
	Verbose bool
}

// APIFunc runs one command. args is the command line without the command
// name. The function writes its response to stream; the returned error
// reports whether that response was an error line.
type APIFunc func(ctx context.Context, args string, stream *Stream) error

// API is a registered administrative command.
type API struct {
	Name        string
	Description string
	Syntax      string
	Func        APIFunc
}

// LoadFunc registers the module's commands.
type LoadFunc func(m *Module) error

// Module owns an API table and the Loaded/Unloaded state.
type Module struct {
	name string
	load LoadFunc
	log  logger.Logger

	// lifecycle serializes Load and Shutdown; mu guards state and apis.
	lifecycle sync.Mutex

	mu    sync.RWMutex
	state State
	apis  map[string]API
}

// New creates an unloaded module.
func New(name string, load LoadFunc, log logger.Logger) *Module {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Module{
		name: name,
		load: load,
		log:  log,
		apis: make(map[string]API),
	}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// State returns the current lifecycle state.
func (m *Module) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Load runs the load function and moves the module to Loaded.
// A failed load leaves the module Unloaded with an empty API table.
func (m *Module) Load() error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	if m.state == Loaded {
		m.mu.Unlock()
		return ErrAlreadyLoaded
	}
	m.mu.Unlock()

	if m.load != nil {
		if err := m.load(m); err != nil {
			m.mu.Lock()
			m.apis = make(map[string]API)
			m.mu.Unlock()
			return fmt.Errorf("failed to load %s: %w", m.name, err)
		}
	}

	m.mu.Lock()
	m.state = Loaded
	m.mu.Unlock()

	m.log.Info("[%s] loaded with %d command(s)", m.name, len(m.APIs()))
	return nil
}

// Shutdown moves the module to Unloaded and drops its commands.
// Calling it on an unloaded module is a no-op.
func (m *Module) Shutdown() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Unloaded {
		return
	}
	m.state = Unloaded
	m.apis = make(map[string]API)
	m.log.Info("[%s] shut down", m.name)
}

// AddAPI registers a command. Names are unique per module.
func (m *Module) AddAPI(api API) error {
	if api.Name == "" || api.Func == nil {
		return fmt.Errorf("api requires a name and a function")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apis[api.Name]; exists {
		return fmt.Errorf("api %s already registered", api.Name)
	}
	m.apis[api.Name] = api
	return nil
}

// APIs returns the registered commands sorted by name.
func (m *Module) APIs() []API {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]API, 0, len(m.apis))
	for _, api := range m.apis {
		out = append(out, api)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute splits cmdline into command name and arguments and runs the
// matching API. Lookup failures write an -ERR line to the stream.
func (m *Module) Execute(ctx context.Context, cmdline string, stream *Stream) error {
	name, args := SplitCommand(cmdline)

	m.mu.RLock()
	state := m.state
	api, ok := m.apis[name]
	m.mu.RUnlock()

	if state != Loaded {
		fmt.Fprintf(stream, "-ERR %s\n", ErrNotLoaded)
		return ErrNotLoaded
	}
	if !ok {
		fmt.Fprintf(stream, "-ERR %s '%s'\n", ErrNoSuchCommand, name)
		return fmt.Errorf("%w: %q", ErrNoSuchCommand, name)
	}

	return api.Func(ctx, args, stream)
}

// SplitCommand separates the command name from its argument string.
func SplitCommand(cmdline string) (name, args string) {
	cmdline = strings.TrimSpace(cmdline)
	if i := strings.IndexAny(cmdline, " \t"); i >= 0 {
		return cmdline[:i], strings.TrimSpace(cmdline[i+1:])
	}
	return cmdline, ""
}
