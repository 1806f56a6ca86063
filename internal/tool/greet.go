package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GreetTool greets a person by name. It is the one tool with a
// required argument, which makes it the probe for argument validation.
type GreetTool struct{}

func NewGreetTool() *GreetTool { return &GreetTool{} }

func (g *GreetTool) Name() string        { return "greet" }
func (g *GreetTool) Description() string { return "Greet a person by name." }

func (g *GreetTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1, "description": "Name of the person to greet"}
		},
		"required": ["name"]
	}`)
}

func (g *GreetTool) Execute(_ context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		Name string `json:"name"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidArguments)
	}

	return &Result{Text: fmt.Sprintf("Hello, %s!", name)}, nil
}
