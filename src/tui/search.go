package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"findchannel/src/command"
	"findchannel/src/contracts"
	"findchannel/src/registry"
)

// Searcher runs one channel lookup.
type Searcher func(ctx context.Context, query contracts.Query) (*contracts.Result, error)

// VariableSource lists every variable on a channel.
type VariableSource func(ctx context.Context, id string) (map[string]string, error)

// HandlerSearcher adapts a command handler. No trace is collected.
func HandlerSearcher(h *command.Handler) Searcher {
	return func(ctx context.Context, query contracts.Query) (*contracts.Result, error) {
		return h.Find(ctx, query, nil)
	}
}

// RegistryVariables adapts a registry whose sessions can list variables.
func RegistryVariables(reg registry.Registry) VariableSource {
	return func(ctx context.Context, id string) (map[string]string, error) {
		sess, err := reg.Locate(ctx, id)
		if err != nil {
			return nil, err
		}
		in, ok := sess.(registry.Inspector)
		if !ok {
			return nil, fmt.Errorf("channel %s cannot list its variables", id)
		}
		return in.Variables(), nil
	}
}

type resultMsg struct {
	query  contracts.Query
	result *contracts.Result
	err    error
}

type variablesMsg struct {
	id   string
	vars map[string]string
	err  error
}

func runSearch(search Searcher, query contracts.Query) tea.Cmd {
	return func() tea.Msg {
		res, err := search(context.Background(), query)
		return resultMsg{query: query, result: res, err: err}
	}
}

func loadVariables(source VariableSource, id string) tea.Cmd {
	if source == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		vars, err := source(context.Background(), id)
		return variablesMsg{id: id, vars: vars, err: err}
	}
}

// errorStatus renders err the way the command line would print it.
func errorStatus(err error) string {
	var cerr *command.CommandError
	if errors.As(err, &cerr) {
		return strings.TrimRight(cerr.Response(), "\n")
	}
	if errors.Is(err, registry.ErrNotFound) {
		return "channel hung up"
	}
	return fmt.Sprintf("-ERR %v", err)
}

// submitQuery parses the query box and starts a search.
func (m *MainModel) submitQuery() tea.Cmd {
	query, cerr := command.ParseQuery(m.header.Value())
	if cerr != nil {
		m.header.SetStatus(errorStatus(cerr), true)
		return nil
	}
	m.query = query
	m.searching = true
	m.header.SetStatus("searching...", false)
	return runSearch(m.search, query)
}

// applyResult loads a finished search into the list.
func (m *MainModel) applyResult(msg resultMsg) tea.Cmd {
	m.searching = false
	m.vars = nil
	m.varsErr = nil

	if msg.err != nil {
		m.listView.SetItems(nil)
		m.header.SetStatus(errorStatus(msg.err), true)
		m.updateDetailContent()
		return nil
	}

	m.result = msg.result
	m.listView.SetItems(ItemsFromResult(msg.result))
	m.header.SetStatus(fmt.Sprintf("%d match(es), %d scanned", len(msg.result.Rows), msg.result.Scanned), false)
	m.updateDetailContent()

	if item, ok := m.listView.GetSelectedItem(); ok {
		return loadVariables(m.variables, item.UUID())
	}
	return nil
}
