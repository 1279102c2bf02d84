// Package contracts defines the data structures shared between the lookup
// service components and the messages exchanged over the broker.
package contracts

// ChannelColumns is the column order of the channels table.
// The first column is always the channel uuid.
var ChannelColumns = []string{
	"uuid",
	"direction",
	"created",
	"created_epoch",
	"name",
	"state",
	"cid_name",
	"cid_num",
	"dest",
	"application",
	"application_data",
	"read_codec",
	"write_codec",
	"callstate",
	"hostname",
}

// ChannelRecord is a live channel as seen by the session registry.
type ChannelRecord struct {
	// Unique channel identifier (uuid).
	ID string `json:"uuid"`
	// Switch instance owning the channel.
	Hostname string `json:"hostname"`
	// Creation time in unix seconds, used for stable ordering.
	CreatedEpoch int64 `json:"created_epoch"`
	// Remaining channels table columns keyed by column name.
	Fields map[string]string `json:"fields,omitempty"`
	// Channel variables set by call-control logic.
	Variables map[string]string `json:"variables,omitempty"`
}

// Row is a single result row from the record source.
// Values are in column order and Values[0] is the channel uuid.
type Row struct {
	Columns []string
	Values  []string
}

// ID returns the session id carried in column 0.
func (r Row) ID() string {
	if len(r.Values) == 0 {
		return ""
	}
	return r.Values[0]
}

// Query is a single find_channel lookup.
type Query struct {
	VariableName  string `json:"variable_name"`
	VariableValue string `json:"variable_value"`
}

// MatchedRow holds the field values of one matching row.
type MatchedRow []string

// Result is the outcome of one lookup.
type Result struct {
	Columns []string     `json:"columns"`
	Rows    []MatchedRow `json:"rows"`
	// Scanned counts every row examined, matching or not.
	Scanned int `json:"scanned"`
	// Trace holds Compare: lines when they travel inside the result.
	Trace []string `json:"trace,omitempty"`
}
