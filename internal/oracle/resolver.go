package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// NoMatchReply is what the user sees when no tool fits the query.
const NoMatchReply = "I don't have a tool for that request."

// resolveTimeout bounds one resolution round trip. A hung backend
// surfaces as a timeout error instead of stalling the caller.
const resolveTimeout = 30 * time.Second

const systemPrompt = "You are the Petting Zootopia assistant. You have tools that " +
	"fetch random animal images plus a few utilities. Call the matching tool for " +
	"the user's request; when nothing matches, answer briefly in plain text."

// Resolution is the outcome of matching a query against the tool set:
// either a validated (tool, arguments) pair or a plain-text reply.
type Resolution struct {
	Tool      string
	Arguments json.RawMessage
	Reply     string
}

// Matched reports whether a tool was selected.
func (r *Resolution) Matched() bool { return r.Tool != "" }

// Resolver maps free-text queries onto tool calls through a model
// backend. It performs no semantic parsing itself: it ships the query
// and tool schemas to the provider and validates what comes back.
type Resolver struct {
	provider  Provider
	maxTokens int
}

func NewResolver(provider Provider, maxTokens int) *Resolver {
	if maxTokens <= 0 {
		maxTokens = 500
	}
	return &Resolver{provider: provider, maxTokens: maxTokens}
}

// Resolve runs a single request/response round trip against the
// provider. A proposed call whose tool is unknown or whose arguments
// fail schema validation is treated as no match, never propagated.
func (r *Resolver) Resolve(ctx context.Context, query string, tools []ToolDefinition) (*Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	resp, err := r.provider.Chat(ctx, &ChatRequest{
		Messages:     []Message{{Role: "user", Content: query}},
		Tools:        tools,
		MaxTokens:    r.maxTokens,
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.ToolCalls) == 0 {
		reply := strings.TrimSpace(resp.Content)
		if reply == "" {
			reply = NoMatchReply
		}
		return &Resolution{Reply: reply}, nil
	}

	tc := resp.ToolCalls[0]
	def, ok := findTool(tools, tc.Name)
	if !ok {
		log.Printf("[oracle] proposed unknown tool %q, treating as no match", tc.Name)
		return &Resolution{Reply: NoMatchReply}, nil
	}
	if err := validateArguments(def.Parameters, tc.Arguments); err != nil {
		log.Printf("[oracle] arguments for %q failed validation: %v", tc.Name, err)
		return &Resolution{Reply: NoMatchReply}, nil
	}

	return &Resolution{Tool: tc.Name, Arguments: tc.Arguments}, nil
}

func findTool(tools []ToolDefinition, name string) (ToolDefinition, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return ToolDefinition{}, false
}

// validateArguments checks a proposed argument object against the
// tool's JSON Schema.
func validateArguments(schema, args json.RawMessage) error {
	if len(schema) == 0 {
		return nil
	}
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(args),
	)
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}
