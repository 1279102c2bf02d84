package contracts

// CommandRequest asks a remote agent to run an API command.
// Published to: findchannel.commands
// Key: {request_id}
type CommandRequest struct {
	RequestID string `json:"request_id"`
	// Full command line, e.g. "find_channel sip_from_user 1000".
	Command string `json:"command"`
	// Output format: text, json or count. Empty means text.
	Format  string `json:"format,omitempty"`
	Verbose bool   `json:"verbose,omitempty"`
	// Hostname restricts the request to one switch instance. Empty means any.
	Hostname  string `json:"hostname,omitempty"`
	Timestamp string `json:"timestamp"`
}

// CommandResponse carries the text a command wrote.
// Published to: findchannel.responses
// Key: {request_id}
type CommandResponse struct {
	RequestID string `json:"request_id"`
	Hostname  string `json:"hostname"`
	Output    string `json:"output"`
	OK        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
}

// Channel event types.
const (
	EventCreate  = "create"
	EventSet     = "set"
	EventUnset   = "unset"
	EventDestroy = "destroy"
)

// ChannelEvent reports a change to a live channel.
// Published to: findchannel.channel.events
// Key: {uuid}
type ChannelEvent struct {
	Type         string            `json:"type"`
	UUID         string            `json:"uuid"`
	Hostname     string            `json:"hostname,omitempty"`
	CreatedEpoch int64             `json:"created_epoch,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
}

// Topic names
const (
	// TopicCommands contains API command requests
	TopicCommands = "findchannel.commands"

	// TopicResponses contains API command output
	TopicResponses = "findchannel.responses"

	// TopicChannelEvents contains channel lifecycle and variable changes
	TopicChannelEvents = "findchannel.channel.events"
)
