package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"findchannel/src/sanitize"
)

// renderDetail renders the fields and variables of one channel
func (m MainModel) renderDetail(item Item, maxWidth int) string {
	content := strings.Builder{}

	labelStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(m.styles.TextPrimary)
	matchStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)

	header := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Render(fmt.Sprintf("Channel %s", sanitize.Field(item.UUID())))
	fmt.Fprintf(&content, "%s\n\n", header)

	fmt.Fprintln(&content, labelStyle.Render("Fields:"))
	for i, col := range item.Columns {
		if i >= len(item.Row) || item.Row[i] == "" {
			continue
		}
		line := fmt.Sprintf("%s = %s", col, sanitize.Field(item.Row[i]))
		fmt.Fprintln(&content, valueStyle.Render(Wrap(line, maxWidth)))
	}
	fmt.Fprintln(&content)

	fmt.Fprintln(&content, labelStyle.Render("Variables:"))
	switch {
	case m.varsErr != nil:
		fmt.Fprintln(&content, lipgloss.NewStyle().Foreground(m.styles.ErrorColor).Render(errorStatus(m.varsErr)))
	case m.vars == nil:
		fmt.Fprintln(&content, lipgloss.NewStyle().Faint(true).Render("loading..."))
	default:
		names := make([]string, 0, len(m.vars))
		for name := range m.vars {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			line := Wrap(fmt.Sprintf("%s = %s", name, sanitize.Field(m.vars[name])), maxWidth)
			if name == m.query.VariableName {
				fmt.Fprintln(&content, matchStyle.Render(line))
			} else {
				fmt.Fprintln(&content, valueStyle.Render(line))
			}
		}
	}

	return content.String()
}

// updateDetailContent refreshes the viewport for the selected channel
func (m *MainModel) updateDetailContent() {
	item, ok := m.listView.GetSelectedItem()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	maxWidth := m.detailViewport.Width - 2
	m.detailViewport.SetContent(m.renderDetail(item, maxWidth))
	m.detailViewport.GotoTop()
}

// renderDetailPanel renders the right panel with detail viewport
func (m MainModel) renderDetailPanel(width, height int) string {
	if _, ok := m.listView.GetSelectedItem(); ok {
		headerRow := lipgloss.NewStyle().
			Foreground(m.styles.PrimaryBlue).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("%s = %s", m.query.VariableName, m.query.VariableValue))

		return lipgloss.JoinVertical(lipgloss.Left, headerRow,
			m.styles.PanelStyle(m.detailFocused).
				Width(width).
				Height(height).
				Render(m.detailViewport.View()))
	}

	placeholderRow := lipgloss.NewStyle().Padding(0, 1).Render(" ")
	emptyStyle := m.styles.PanelStyle(false).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(m.styles.TextSecondary).
		Faint(true)

	hint := "No matching channels"
	if m.searching {
		hint = "Searching..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, placeholderRow, emptyStyle.Render(hint))
}
