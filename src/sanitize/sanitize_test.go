package sanitize

import "testing"

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "color codes",
			input:    "\x1b[31mAlice\x1b[0m Smith",
			expected: "Alice Smith",
		},
		{
			name:     "no ANSI",
			input:    "sofia/internal/1000",
			expected: "sofia/internal/1000",
		},
		{
			name:     "multiple codes",
			input:    "\x1b[1m\x1b[31mbold red\x1b[0m normal",
			expected: "bold red normal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripANSI(tt.input)
			if result != tt.expected {
				t.Errorf("StripANSI(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		oneLine  bool
		expected string
	}{
		{
			name:     "full cleanup",
			input:    "\x1b[31mqueue\x1b[0m\r\x07: sales",
			expected: "queue: sales",
		},
		{
			name:     "keeps newlines",
			input:    "line1\r\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "one line",
			input:    "line1\nline2\tend",
			oneLine:  true,
			expected: "line1 line2 end",
		},
		{
			name:     "already clean",
			input:    "bridge",
			expected: "bridge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Clean(tt.input, tt.oneLine)
			if result != tt.expected {
				t.Errorf("Clean(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	in := []string{"a\nb", "\x1b[32mok\x1b[0m"}
	out := Fields(in)
	if out[0] != "a b" || out[1] != "ok" {
		t.Errorf("Expected [a b ok], got %q", out)
	}
	if in[0] != "a\nb" {
		t.Errorf("Expected input untouched, got %q", in[0])
	}
}
