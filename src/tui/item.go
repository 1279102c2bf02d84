package tui

import (
	"strings"

	"findchannel/src/contracts"
)

// Item is one matching channel row in the browser list.
// It implements bubbles/list.Item.
type Item struct {
	Columns []string
	Row     contracts.MatchedRow
	Rank    int
}

// ItemsFromResult numbers result rows from 1 in source order.
func ItemsFromResult(res *contracts.Result) []Item {
	if res == nil {
		return nil
	}
	items := make([]Item, len(res.Rows))
	for i, row := range res.Rows {
		items[i] = Item{Columns: res.Columns, Row: row, Rank: i + 1}
	}
	return items
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return strings.Join(i.Row, " ") }

// Title returns the channel uuid.
func (i Item) Title() string { return i.UUID() }

// Description returns the channel name.
func (i Item) Description() string { return i.Field("name") }

// UUID returns the first column, which is always the channel uuid.
func (i Item) UUID() string {
	if len(i.Row) == 0 {
		return ""
	}
	return i.Row[0]
}

// Field returns the value of the named column, or "".
func (i Item) Field(col string) string {
	for idx, c := range i.Columns {
		if c == col && idx < len(i.Row) {
			return i.Row[idx]
		}
	}
	return ""
}
