// Package sanitize cleans channel field and variable values before they
// reach a terminal or an MCP client. Caller id names and application data
// arrive from the network and may carry escape sequences.
package sanitize

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Clean strips escape sequences and drops remaining control characters.
// Tabs become spaces; newlines are kept unless oneLine is set, in which
// case they become spaces too.
func Clean(s string, oneLine bool) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r == '\n':
			if oneLine {
				return ' '
			}
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

// Field cleans a single table value for one-line display.
func Field(s string) string {
	return Clean(s, true)
}

// Fields returns a cleaned copy of values.
func Fields(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Field(v)
	}
	return out
}
