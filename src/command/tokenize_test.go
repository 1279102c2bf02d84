package command

import (
	"errors"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      []string
		truncated bool
	}{
		{"empty", "", nil, false},
		{"two", "call_state ready", []string{"call_state", "ready"}, false},
		{"extra whitespace", "  a \t b  ", []string{"a", "b"}, false},
		{"six", "1 2 3 4 5 6", []string{"1", "2", "3", "4", "5", "6"}, false},
		{"seven", "1 2 3 4 5 6 7", []string{"1", "2", "3", "4", "5", "6"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if got.Truncated != tt.truncated {
				t.Errorf("Tokenize(%q) truncated = %v, want %v", tt.in, got.Truncated, tt.truncated)
			}
			if len(got.Tokens) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.in, got.Tokens, tt.want)
			}
			for i := range tt.want {
				if got.Tokens[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.in, i, got.Tokens[i], tt.want[i])
				}
			}
		})
	}
}

func TestArgs_Get(t *testing.T) {
	a := Tokenize("x")
	if v, ok := a.Get(0); !ok || v != "x" {
		t.Errorf("Get(0) = %q, %v", v, ok)
	}
	if _, ok := a.Get(1); ok {
		t.Error("Get(1) should be absent")
	}
	if _, ok := a.Get(-1); ok {
		t.Error("Get(-1) should be absent")
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("sip_from_user 1000 ignored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.VariableName != "sip_from_user" || q.VariableValue != "1000" {
		t.Errorf("unexpected query %+v", q)
	}

	if _, err := ParseQuery(""); err == nil || !errors.Is(err, ErrUsage) {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestCommandError_Response(t *testing.T) {
	tests := []struct {
		err  *CommandError
		want string
	}{
		{usageError(), "-USAGE: find_channel <variable_name> <variable_value>\n"},
		{dataSourceError(errors.New("refused")), "-ERR Database error!\n"},
		{queryError(errors.New("disk full")), "-ERR SQL Error [disk full]\n"},
	}

	for _, tt := range tests {
		if got := tt.err.Response(); got != tt.want {
			t.Errorf("Response() = %q, want %q", got, tt.want)
		}
	}
}
