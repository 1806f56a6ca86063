package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"pettingzoo/internal/oracle"
)

// Client talks to one tool server over stdio. The tool list is fetched
// once during Connect; the server's registry never changes mid-session.
type Client struct {
	mcp   *client.Client
	tools []oracle.ToolDefinition
}

// Connect launches the server process and runs the initialize
// handshake, then snapshots the tool list.
func Connect(ctx context.Context, command string, args ...string) (*Client, error) {
	mc, err := client.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("start server process: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "pettingzoo-client", Version: "1.0.0"}
	if _, err := mc.Initialize(ctx, initReq); err != nil {
		mc.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}

	list, err := mc.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		mc.Close()
		return nil, fmt.Errorf("list tools: %w", err)
	}

	tools := make([]oracle.ToolDefinition, 0, len(list.Tools))
	for _, t := range list.Tools {
		schema, err := json.Marshal(t.InputSchema)
		if err != nil {
			mc.Close()
			return nil, fmt.Errorf("tool %s schema: %w", t.Name, err)
		}
		tools = append(tools, oracle.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}

	return &Client{mcp: mc, tools: tools}, nil
}

// Tools returns the definitions snapshotted during Connect.
func (c *Client) Tools() []oracle.ToolDefinition { return c.tools }

// Call invokes one tool and flattens its text content. isError mirrors
// the server's tool-error flag (degraded fetches arrive this way); err
// is reserved for transport failures.
func (c *Client) Call(ctx context.Context, name string, args json.RawMessage) (string, bool, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	if len(args) > 0 {
		var m map[string]any
		if err := json.Unmarshal(args, &m); err != nil {
			return "", false, fmt.Errorf("tool %s arguments: %w", name, err)
		}
		req.Params.Arguments = m
	}

	res, err := c.mcp.CallTool(ctx, req)
	if err != nil {
		return "", false, fmt.Errorf("call %s: %w", name, err)
	}

	var parts []string
	for _, content := range res.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n"), res.IsError, nil
}

// Close shuts down the server process.
func (c *Client) Close() error {
	return c.mcp.Close()
}
