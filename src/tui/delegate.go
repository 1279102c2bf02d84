package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"findchannel/src/sanitize"
)

const (
	// listRenderingOverhead accounts for padding added by bubbles/list and panel borders.
	listRenderingOverhead = 4

	uuidWidth  = 36
	stateWidth = 8
)

// Delegate renders channel items as table rows.
type Delegate struct {
	RankWidth int
	styles    *StyleConfig
}

// NewDelegate creates a new channel table delegate with default styles
func NewDelegate() Delegate {
	return NewDelegateWithStyles(DefaultStyles())
}

// NewDelegateWithStyles creates a new delegate with custom styles
func NewDelegateWithStyles(styles *StyleConfig) Delegate {
	return Delegate{RankWidth: 2, styles: styles}
}

// SetColumnWidths sizes the rank column for maxRank
func (d *Delegate) SetColumnWidths(maxRank int) {
	d.RankWidth = len(fmt.Sprintf("%d", maxRank))
	if d.RankWidth < 2 {
		d.RankWidth = 2
	}
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// RowText builds the plain table row for entry at the given list width.
func (d Delegate) RowText(entry Item, width int) string {
	rankCol := fmt.Sprintf("%*d", d.RankWidth, entry.Rank)
	uuidCol := TruncateAndPad(sanitize.Field(entry.UUID()), uuidWidth, false)
	stateCol := TruncateAndPad(sanitize.Field(entry.Field("callstate")), stateWidth, true)

	// rank + uuid + state + separators (9)
	fixedWidth := d.RankWidth + uuidWidth + stateWidth + 9
	availableWidth := width - fixedWidth - listRenderingOverhead

	var name string
	if availableWidth > 0 {
		name = TruncateAndPad(sanitize.Field(entry.Field("name")), availableWidth, true)
	}

	return fmt.Sprintf("%s │ %s │ %s │ %s", rankCol, uuidCol, stateCol, name)
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	line := d.RowText(entry, m.Width())

	style := lipgloss.NewStyle().Foreground(d.styles.StateColor(entry.Field("callstate")))
	if index == m.Index() {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, style.Render(line))
}
