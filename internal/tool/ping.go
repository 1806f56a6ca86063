package tool

import (
	"context"
	"encoding/json"
)

// PingTool answers pong. It exercises the transport end to end without
// touching any upstream API.
type PingTool struct{}

func NewPingTool() *PingTool { return &PingTool{} }

func (p *PingTool) Name() string                { return "ping" }
func (p *PingTool) Description() string         { return "Check if the server is running." }
func (p *PingTool) Parameters() json.RawMessage { return emptySchema }

func (p *PingTool) Execute(_ context.Context, _ json.RawMessage) (*Result, error) {
	return &Result{Text: "pong"}, nil
}
