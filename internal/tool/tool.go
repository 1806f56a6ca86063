package tool

import (
	"context"
	"encoding/json"
	"errors"

	"pettingzoo/internal/zoo"
)

// Contract violations. Upstream failures never surface as Go errors;
// they are carried inside Result as a degraded payload.
var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Tool is the interface for registry tools.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage // JSON Schema
	Execute(ctx context.Context, args json.RawMessage) (*Result, error)
}

// Result is the output of a tool execution. Text carries the wire
// payload; IsError marks a degraded (fallback) payload. Fetch is set
// by the animal tools so in-process callers can inspect the typed
// outcome without re-parsing text.
type Result struct {
	Text    string           `json:"text"`
	IsError bool             `json:"is_error,omitempty"`
	Fetch   *zoo.FetchResult `json:"-"`
}

var emptySchema = json.RawMessage(`{"type": "object", "properties": {}}`)
