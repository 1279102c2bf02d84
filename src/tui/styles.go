package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StyleConfig holds all customizable style colors for the channel browser.
type StyleConfig struct {
	// Primary colors
	PrimaryBlue    lipgloss.Color
	AccentBlue     lipgloss.Color
	DarkBackground lipgloss.Color
	CardBackground lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	BorderColor    lipgloss.Color
	SelectedColor  lipgloss.Color
	ErrorColor     lipgloss.Color

	// Call state colors, keyed by upper-case callstate
	StateColors map[string]lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:    lipgloss.Color("#8AB4F8"),
		AccentBlue:     lipgloss.Color("#4285F4"),
		DarkBackground: lipgloss.Color("#1E1E1E"),
		CardBackground: lipgloss.Color("#2D2D2D"),
		TextPrimary:    lipgloss.Color("#E8EAED"),
		TextSecondary:  lipgloss.Color("#9AA0A6"),
		BorderColor:    lipgloss.Color("#5F6368"),
		SelectedColor:  lipgloss.Color("#303134"),
		ErrorColor:     lipgloss.Color("#EA4335"),
		StateColors: map[string]lipgloss.Color{
			"ACTIVE":  lipgloss.Color("#34A853"), // Green
			"RINGING": lipgloss.Color("#FBBC04"), // Yellow
			"EARLY":   lipgloss.Color("#FBBC04"),
			"HELD":    lipgloss.Color("#A142F4"), // Purple
			"HANGUP":  lipgloss.Color("#EA4335"), // Red
			"DOWN":    lipgloss.Color("#24C1E0"), // Cyan
		},
	}
}

// StateColor returns the color for a callstate, or TextSecondary.
func (s *StyleConfig) StateColor(callstate string) lipgloss.Color {
	if c, ok := s.StateColors[strings.ToUpper(callstate)]; ok {
		return c
	}
	return s.TextSecondary
}

// HelpStyle returns a help text lipgloss style using this config
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// PanelStyle returns a bordered panel, highlighted when focused.
func (s *StyleConfig) PanelStyle(focused bool) lipgloss.Style {
	border := s.BorderColor
	if focused {
		border = s.AccentBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
