// Package format renders lookup results.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"findchannel/src/contracts"
)

// Kind selects an output style.
type Kind string

const (
	KindText  Kind = "text"
	KindJSON  Kind = "json"
	KindCount Kind = "count"
)

// ParseKind maps a user-supplied format name to a Kind. Empty means text.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindText:
		return KindText, nil
	case KindJSON:
		return KindJSON, nil
	case KindCount:
		return KindCount, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or count)", s)
	}
}

// Text joins each row's fields with delim and terminates every row with a
// newline. Zero rows render as the empty string.
func Text(rows []contracts.MatchedRow, delim string) string {
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(strings.Join(r, delim))
		sb.WriteString("\n")
	}
	return sb.String()
}

// JSON renders {"row_count":N,"rows":[{column:value}]}. A non-empty
// result.Trace is carried as a "trace" array.
func JSON(result *contracts.Result) (string, error) {
	doc := struct {
		RowCount int                 `json:"row_count"`
		Rows     []map[string]string `json:"rows"`
		Trace    []string            `json:"trace,omitempty"`
	}{
		RowCount: len(result.Rows),
		Rows:     make([]map[string]string, 0, len(result.Rows)),
		Trace:    result.Trace,
	}

	for _, r := range result.Rows {
		obj := make(map[string]string, len(r))
		for i, v := range r {
			obj[columnName(result.Columns, i)] = v
		}
		doc.Rows = append(doc.Rows, obj)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data) + "\n", nil
}

// Count renders "<N> total.".
func Count(result *contracts.Result) string {
	return fmt.Sprintf("%d total.\n", len(result.Rows))
}

// Render dispatches on kind.
func Render(kind Kind, result *contracts.Result, delim string) (string, error) {
	switch kind {
	case KindJSON:
		return JSON(result)
	case KindCount:
		return Count(result), nil
	default:
		return Text(result.Rows, delim), nil
	}
}

// TraceLines splits trace output into its lines, dropping the final newline.
func TraceLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func columnName(columns []string, i int) string {
	if i < len(columns) && columns[i] != "" {
		return columns[i]
	}
	return fmt.Sprintf("col%d", i)
}
