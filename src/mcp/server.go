// Package mcp exposes the channel lookup over the Model Context Protocol.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"findchannel/src/command"
	"findchannel/src/contracts"
	"findchannel/src/format"
	"findchannel/src/logger"
	"findchannel/src/registry"
	"findchannel/src/sanitize"
)

// Version is reported in the MCP initialize handshake.
const Version = "1.0.0"

// Server is the MCP server for findchannel.
type Server struct {
	mcpServer *server.MCPServer
	handler   *command.Handler
	registry  registry.Registry
	logger    logger.Logger
}

// ChannelDetails is the get_channel response body.
type ChannelDetails struct {
	UUID      string            `json:"uuid"`
	Variables map[string]string `json:"variables"`
	Names     []string          `json:"names"`
}

// NewServer creates an MCP server backed by h. reg serves get_channel.
func NewServer(h *command.Handler, reg registry.Registry, log logger.Logger) *Server {
	s := server.NewMCPServer(
		"findchannel",
		Version,
		server.WithToolCapabilities(true),
	)

	if log == nil {
		log = logger.NewSilentLogger()
	}
	srv := &Server{
		mcpServer: s,
		handler:   h,
		registry:  reg,
		logger:    log,
	}
	srv.registerTools()

	return srv
}

func (s *Server) registerTools() {
	findTool := mcp.NewTool(command.Name,
		mcp.WithDescription("Find local channels whose channel variable equals a value (case-insensitive). Returns one row per matching channel with the channel uuid first."),
		mcp.WithString("variable_name",
			mcp.Required(),
			mcp.Description("Channel variable to compare, e.g. call_uuid or sip_from_user"),
		),
		mcp.WithString("variable_value",
			mcp.Description("Value to compare against. Empty matches channels where the variable is set to the empty string."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: text, json or count (default: json)"),
			mcp.Enum(string(format.KindText), string(format.KindJSON), string(format.KindCount)),
		),
		mcp.WithBoolean("verbose",
			mcp.Description("Include a Compare: line for every channel that carries the variable"),
		),
	)

	channelTool := mcp.NewTool("get_channel",
		mcp.WithDescription("Get every channel variable for one channel uuid. Use after find_channel to inspect a match."),
		mcp.WithString("uuid",
			mcp.Required(),
			mcp.Description("Channel uuid (first column of a find_channel row)"),
		),
	)

	s.mcpServer.AddTool(findTool, s.handleFindChannel)
	s.mcpServer.AddTool(channelTool, s.handleGetChannel)
}

// Run serves MCP on stdio until the client disconnects.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleFindChannel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(request.GetString("variable_name", ""))
	if name == "" {
		return mcp.NewToolResultError("variable_name parameter is required"), nil
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return mcp.NewToolResultError("variable_name must be a single token"), nil
	}
	value := request.GetString("variable_value", "")
	if strings.ContainsAny(value, " \t\r\n") {
		return mcp.NewToolResultError("variable_value must be a single token"), nil
	}

	kind, err := format.ParseKind(request.GetString("format", string(format.KindJSON)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var trace bytes.Buffer
	var traceWriter io.Writer
	if request.GetBool("verbose", false) {
		traceWriter = &trace
	}

	result, err := s.handler.Find(ctx, contracts.Query{VariableName: name, VariableValue: value}, traceWriter)
	if err != nil {
		s.logger.Error("[MCP] find_channel %s %s failed: %v", name, value, err)
		var cerr *command.CommandError
		if errors.As(err, &cerr) {
			return mcp.NewToolResultError(strings.TrimRight(cerr.Response(), "\n")), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Values come off the wire; clean them before they are marshalled.
	for i, row := range result.Rows {
		result.Rows[i] = sanitize.Fields(row)
	}

	prefix := sanitize.Clean(trace.String(), false)
	if kind == format.KindJSON {
		result.Trace = format.TraceLines(prefix)
		prefix = ""
	}

	out, err := format.Render(kind, result, s.handler.Settings().Delimiter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(prefix + out), nil
}

func (s *Server) handleGetChannel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("uuid", "")
	if id == "" {
		return mcp.NewToolResultError("uuid parameter is required"), nil
	}

	sess, err := s.registry.Locate(ctx, id)
	if errors.Is(err, registry.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("channel not found: %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	details := ChannelDetails{UUID: sess.ID(), Variables: map[string]string{}}
	if in, ok := sess.(registry.Inspector); ok {
		for k, v := range in.Variables() {
			details.Variables[k] = sanitize.Field(v)
			details.Names = append(details.Names, k)
		}
	}
	sort.Strings(details.Names)

	jsonBytes, err := json.Marshal(details)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal channel: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
