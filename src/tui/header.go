package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Header is the top bar: switch name, the editable query and a status.
type Header struct {
	hostname string
	input    textinput.Model
	status   string
	failed   bool
	styles   *StyleConfig
}

// NewHeader creates a header with the query box preset to query.
func NewHeader(hostname, query string, styles *StyleConfig) Header {
	ti := textinput.New()
	ti.Prompt = "find_channel "
	ti.Placeholder = "<variable_name> <variable_value>"
	ti.CharLimit = 512
	ti.SetValue(query)

	return Header{
		hostname: hostname,
		input:    ti,
		styles:   styles,
	}
}

// Focus starts editing the query.
func (h *Header) Focus() tea.Cmd {
	return h.input.Focus()
}

// Blur stops editing.
func (h *Header) Blur() {
	h.input.Blur()
}

// Editing reports whether the query box has focus.
func (h Header) Editing() bool {
	return h.input.Focused()
}

// Value returns the raw query text.
func (h Header) Value() string {
	return h.input.Value()
}

// SetStatus sets the right-hand status text.
func (h *Header) SetStatus(status string, failed bool) {
	h.status = status
	h.failed = failed
}

// Status returns the current status text.
func (h Header) Status() string {
	return h.status
}

// Update forwards key input to the query box.
func (h Header) Update(msg tea.Msg) (Header, tea.Cmd) {
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return h, cmd
}

// Render renders the header
func (h Header) Render(width int) string {
	hostStyle := lipgloss.NewStyle().
		Foreground(h.styles.PrimaryBlue).
		Bold(true).
		Padding(0, 2)
	host := hostStyle.Render(fmt.Sprintf("☎ %s", h.hostname))

	queryStyle := lipgloss.NewStyle().
		Foreground(h.styles.TextSecondary).
		Padding(0, 2)
	if h.Editing() {
		queryStyle = queryStyle.Foreground(h.styles.PrimaryBlue)
	}
	query := queryStyle.Render(h.input.View())

	statusStyle := lipgloss.NewStyle().
		Foreground(h.styles.TextSecondary).
		Padding(0, 2)
	if h.failed {
		statusStyle = statusStyle.Foreground(h.styles.ErrorColor).Bold(true)
	}
	status := statusStyle.Render(h.status)

	left := lipgloss.JoinHorizontal(lipgloss.Left, host, query)
	gap := width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 0 {
		gap = 0
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	headerStyle := lipgloss.NewStyle().
		Background(h.styles.DarkBackground).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(h.styles.BorderColor).
		Width(width)

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, status))
}
