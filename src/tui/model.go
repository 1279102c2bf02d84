// Package tui is a terminal browser for channel lookups: an editable
// find_channel query on top, matching channels on the left and the
// selected channel's fields and variables on the right.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"findchannel/src/command"
	"findchannel/src/contracts"
)

// Options configures the browser.
type Options struct {
	Hostname  string
	Query     string // initial "<variable_name> <variable_value>"
	Search    Searcher
	Variables VariableSource
	Styles    *StyleConfig
}

// MainModel is the Bubble Tea model for the channel browser.
type MainModel struct {
	header         Header
	listView       View
	detailViewport viewport.Model
	styles         *StyleConfig

	search    Searcher
	variables VariableSource

	query     contracts.Query
	result    *contracts.Result
	vars      map[string]string
	varsErr   error
	searching bool

	detailFocused bool
	ready         bool
	width         int
	height        int
}

// NewMainModel creates the browser. With an empty initial query the
// query box starts focused.
func NewMainModel(opts Options) MainModel {
	styles := opts.Styles
	if styles == nil {
		styles = DefaultStyles()
	}

	m := MainModel{
		header:         NewHeader(opts.Hostname, opts.Query, styles),
		listView:       NewView(styles),
		detailViewport: viewport.New(0, 0),
		styles:         styles,
		search:         opts.Search,
		variables:      opts.Variables,
	}
	if opts.Query == "" {
		m.header.Focus()
		m.header.SetStatus("enter a query", false)
	}
	return m
}

// Init runs the initial query, if any.
func (m MainModel) Init() tea.Cmd {
	if m.header.Editing() {
		return nil
	}
	query, cerr := command.ParseQuery(m.header.Value())
	if cerr != nil {
		return nil
	}
	return runSearch(m.search, query)
}

// Update handles messages and updates the model state.
func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeComponents()
		return m, nil

	case resultMsg:
		m.query = msg.query
		cmd := m.applyResult(msg)
		return m, cmd

	case variablesMsg:
		if item, ok := m.listView.GetSelectedItem(); ok && item.UUID() == msg.id {
			m.vars = msg.vars
			m.varsErr = msg.err
			m.updateDetailContent()
		}
		return m, nil

	case tea.KeyMsg:
		if m.header.Editing() {
			return m.updateEditing(msg)
		}
		if m.detailFocused {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m MainModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.header.Blur()
		cmd := m.submitQuery()
		return m, cmd
	case "esc":
		m.header.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.header, cmd = m.header.Update(msg)
	return m, cmd
}

func (m MainModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.detailFocused = false
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m MainModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		cmd := m.header.Focus()
		return m, cmd
	case "r":
		if m.query.VariableName == "" || m.searching {
			return m, nil
		}
		m.searching = true
		m.header.SetStatus("searching...", false)
		return m, runSearch(m.search, m.query)
	case "enter":
		if _, ok := m.listView.GetSelectedItem(); ok {
			m.detailFocused = true
		}
		return m, nil
	}

	before, _ := m.listView.GetSelectedItem()
	var cmd tea.Cmd
	m.listView, cmd = m.listView.Update(msg)

	after, ok := m.listView.GetSelectedItem()
	if ok && after.UUID() != before.UUID() {
		m.vars = nil
		m.varsErr = nil
		m.updateDetailContent()
		return m, tea.Batch(cmd, loadVariables(m.variables, after.UUID()))
	}
	return m, cmd
}

// Selected returns the highlighted channel.
func (m MainModel) Selected() (Item, bool) {
	return m.listView.GetSelectedItem()
}

// Start runs the browser full screen until the user quits.
func Start(opts Options) error {
	p := tea.NewProgram(NewMainModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
