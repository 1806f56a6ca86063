package mcpserver

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pettingzoo/internal/tool"
)

const (
	serverName    = "Petting Zootopia"
	serverVersion = "1.0.0"
)

// Server exposes the tool registry over the Model Context Protocol.
// The tool set is fixed at construction; list_changed is never emitted.
type Server struct {
	mcp *server.MCPServer
}

// New builds an MCP server serving every tool in the registry. Tool
// schemas pass through as-is; the registry is the source of truth.
func New(reg *tool.Registry) *Server {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, t := range reg.List() {
		s.AddTool(
			mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.Parameters()),
			toolHandler(t),
		)
	}
	return &Server{mcp: s}
}

// ServeStdio serves the protocol on stdin/stdout until the client
// disconnects. Logs go to stderr; stdout belongs to the protocol.
func (s *Server) ServeStdio() error {
	log.Printf("[mcp] serving on stdio")
	return server.ServeStdio(s.mcp)
}

// toolHandler adapts one registry tool to the protocol. A degraded
// Result and a contract violation both come back as tool errors, so a
// misbehaving upstream never kills the session.
func toolHandler(t tool.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if raw := request.GetRawArguments(); raw != nil {
			b, err := json.Marshal(raw)
			if err != nil {
				return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
			}
			args = b
		}

		res, err := t.Execute(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if res.IsError {
			return mcp.NewToolResultError(res.Text), nil
		}
		return mcp.NewToolResultText(res.Text), nil
	}
}
