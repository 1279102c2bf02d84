// Package fixtures loads channel snapshots into a record store. Snapshots
// are YAML or JSON documents:
//
//	hostname: sw1
//	channels:
//	  - uuid: 5f1c...
//	    created_epoch: 1700000000
//	    fields: {name: sofia/internal/1000, callstate: ACTIVE}
//	    variables: {queue: sales, agent_id: 1001}
package fixtures

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"sigs.k8s.io/yaml"

	"findchannel/src/contracts"
	"findchannel/src/store"
)

// Snapshot is the document layout.
type Snapshot struct {
	// Hostname applies to channels that do not name one.
	Hostname string    `json:"hostname,omitempty"`
	Channels []Channel `json:"channels"`
}

// Channel is one channel entry. Scalar values of any YAML type are accepted
// and stored as strings, so `agent_id: 1001` needs no quoting.
type Channel struct {
	UUID         string         `json:"uuid"`
	Hostname     string         `json:"hostname,omitempty"`
	CreatedEpoch int64          `json:"created_epoch,omitempty"`
	Fields       map[string]any `json:"fields,omitempty"`
	Variables    map[string]any `json:"variables,omitempty"`
}

// Parse decodes a snapshot and converts it to records. defaultHost is used
// when neither the channel nor the document names a hostname.
func Parse(data []byte, defaultHost string) ([]contracts.ChannelRecord, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	host := snap.Hostname
	if host == "" {
		host = defaultHost
	}

	seen := make(map[string]bool, len(snap.Channels))
	records := make([]contracts.ChannelRecord, 0, len(snap.Channels))
	for i, ch := range snap.Channels {
		if ch.UUID == "" {
			return nil, fmt.Errorf("channel %d has no uuid", i)
		}
		if seen[ch.UUID] {
			return nil, fmt.Errorf("duplicate channel uuid %s", ch.UUID)
		}
		seen[ch.UUID] = true

		rec := contracts.ChannelRecord{
			ID:           ch.UUID,
			Hostname:     ch.Hostname,
			CreatedEpoch: ch.CreatedEpoch,
			Fields:       stringify(ch.Fields),
			Variables:    stringify(ch.Variables),
		}
		if rec.Hostname == "" {
			rec.Hostname = host
		}
		records = append(records, rec)
	}
	return records, nil
}

// Load parses data and saves every channel through w.
func Load(ctx context.Context, w store.Writer, data []byte, defaultHost string) (int, error) {
	records, err := Parse(data, defaultHost)
	if err != nil {
		return 0, err
	}
	for i, rec := range records {
		if err := w.SaveChannel(ctx, rec); err != nil {
			return i, fmt.Errorf("failed to save channel %s: %w", rec.ID, err)
		}
	}
	return len(records), nil
}

// LoadFile reads path and loads it through w.
func LoadFile(ctx context.Context, w store.Writer, path, defaultHost string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Load(ctx, w, data, defaultHost)
}

func stringify(in map[string]any) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
