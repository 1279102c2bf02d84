package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// VisualWidth returns the display width of text, accounting for multi-byte characters
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate truncates text to maxLen columns with optional ellipsis
func Truncate(s string, maxLen int, ellipsis bool) string {
	s = strings.TrimSpace(s)
	if maxLen <= 0 {
		return ""
	}

	if VisualWidth(s) > maxLen {
		if ellipsis && maxLen > 3 {
			return runewidth.Truncate(s, maxLen-3, "") + "..."
		}
		return runewidth.Truncate(s, maxLen, "")
	}
	return s
}

// TruncateAndPad truncates text and pads it to exactly width columns.
// Table cells use it to keep columns aligned.
func TruncateAndPad(s string, width int, ellipsis bool) string {
	s = Truncate(s, width, ellipsis)
	if w := VisualWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Wrap wraps text to width, preferring word boundaries. Words wider than
// a line (long SIP URIs, codec lists) are broken mid-word.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range strings.Fields(text) {
		for VisualWidth(word) > width {
			if lineWidth > 0 {
				flush()
			}
			var head string
			head, word = breakWord(word, width)
			lines = append(lines, head)
		}
		if word == "" {
			continue
		}

		w := VisualWidth(word)
		if lineWidth > 0 {
			if lineWidth+1+w > width {
				flush()
			} else {
				line.WriteByte(' ')
				lineWidth++
			}
		}
		line.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 {
		flush()
	}

	if len(lines) == 0 {
		return text
	}
	return strings.Join(lines, "\n")
}

// breakWord splits word after at most width columns. The head always
// holds at least one rune.
func breakWord(word string, width int) (head, rest string) {
	w := 0
	for i, r := range word {
		rw := runewidth.RuneWidth(r)
		if i > 0 && w+rw > width {
			return word[:i], word[i:]
		}
		w += rw
	}
	return word, ""
}

// SplitLines splits text by newlines, returning empty slice if text is empty
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
