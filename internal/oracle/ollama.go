package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"
)

// OllamaProvider implements Provider against a local Ollama daemon.
// Small local models are unreliable with native tool calling, so tool
// selection goes through a strict JSON instruction prompt instead: the
// model is asked to answer with a single {"tool": ..., "parameters":
// ...} object, which is parsed back into a ToolCall.
type OllamaProvider struct {
	client       *api.Client
	defaultModel string
}

// OllamaConfig holds configuration for the Ollama provider.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2:3b"
	}

	return &OllamaProvider{
		client:       api.NewClient(u, &http.Client{Timeout: timeout}),
		defaultModel: model,
	}, nil
}

func (p *OllamaProvider) Name() string         { return "ollama" }
func (p *OllamaProvider) DefaultModel() string { return p.defaultModel }

func (p *OllamaProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	query := lastUserContent(req.Messages)

	if len(req.Tools) == 0 {
		prompt := query
		if req.SystemPrompt != "" {
			prompt = req.SystemPrompt + "\n\n" + query
		}
		content, err := p.generate(ctx, model, prompt)
		if err != nil {
			return nil, classifyOllamaError(err)
		}
		return &ChatResponse{Content: content, StopReason: "stop"}, nil
	}

	raw, err := p.generate(ctx, model, buildToolPrompt(req.Tools, query))
	if err != nil {
		return nil, classifyOllamaError(err)
	}

	resp := &ChatResponse{StopReason: "stop"}
	name, params, ok := parseToolCall(raw)
	switch {
	case !ok:
		// Model ignored the format; surface its text as-is.
		resp.Content = strings.TrimSpace(raw)
	case name == "":
		// Explicit {"tool": null}: nothing matched.
	default:
		resp.ToolCalls = []ToolCall{{
			ID:        uuid.NewString(),
			Name:      name,
			Arguments: params,
		}}
	}
	return resp, nil
}

func (p *OllamaProvider) generate(ctx context.Context, model, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}

	var sb strings.Builder
	err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildToolPrompt asks the model to pick a tool by emitting one JSON
// object. Few-shot examples keep small models on format.
func buildToolPrompt(tools []ToolDefinition, query string) string {
	type toolInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	infos := make([]toolInfo, len(tools))
	for i, t := range tools {
		infos[i] = toolInfo{Name: t.Name, Description: t.Description}
	}
	toolsJSON, _ := json.MarshalIndent(infos, "", "  ")

	return fmt.Sprintf(`You are an AI assistant that can call tools.

Available tools:
%s

User query: %s

Respond with ONLY a JSON object: {"tool": "tool_name", "parameters": {}}
If no tool matches, respond with: {"tool": null, "parameters": {}}

Examples:
- "Show me a duck" → {"tool": "duck", "parameters": {}}
- "Hello Alice" → {"tool": "greet", "parameters": {"name": "Alice"}}
- "I want a giraffe" → {"tool": null, "parameters": {}}
`, toolsJSON, query)
}

// parseToolCall decodes the instructed JSON envelope. ok is false when
// the reply is not the envelope at all; a null or empty tool is a valid
// envelope meaning "no tool matched".
func parseToolCall(raw string) (name string, params json.RawMessage, ok bool) {
	var call struct {
		Tool       *string         `json:"tool"`
		Parameters json.RawMessage `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &call); err != nil {
		return "", nil, false
	}
	if call.Tool == nil || *call.Tool == "" || *call.Tool == "null" {
		return "", nil, true
	}
	params = call.Parameters
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}
	return *call.Tool, params, true
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

func lastUserContent(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content
		}
	}
	return ""
}

func classifyOllamaError(err error) *Error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	oErr := &Error{Err: err, Message: msg}

	switch {
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "connection reset") || strings.Contains(lower, "no such host"):
		oErr.Type = ErrorNetwork
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		oErr.Type = ErrorTimeout
	case strings.Contains(lower, "429"):
		oErr.Type = ErrorRateLimit
	case strings.Contains(lower, "500") || strings.Contains(lower, "overloaded"):
		oErr.Type = ErrorServerError
	case strings.Contains(lower, "not found"):
		oErr.Type = ErrorInvalidInput // model not pulled
	default:
		oErr.Type = ErrorUnknown
	}
	return oErr
}
