package oracle

import (
	"strings"
	"testing"
)

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantName string
		wantOK   bool
	}{
		{
			name:     "tool with empty parameters",
			raw:      `{"tool": "duck", "parameters": {}}`,
			wantName: "duck",
			wantOK:   true,
		},
		{
			name:     "tool with arguments",
			raw:      `{"tool": "greet", "parameters": {"name": "Alice"}}`,
			wantName: "greet",
			wantOK:   true,
		},
		{
			name:     "explicit null tool",
			raw:      `{"tool": null, "parameters": {}}`,
			wantName: "",
			wantOK:   true,
		},
		{
			name:     "null as string",
			raw:      `{"tool": "null", "parameters": {}}`,
			wantName: "",
			wantOK:   true,
		},
		{
			name:     "missing parameters key",
			raw:      `{"tool": "cat"}`,
			wantName: "cat",
			wantOK:   true,
		},
		{
			name:     "fenced json",
			raw:      "```json\n{\"tool\": \"dog\", \"parameters\": {}}\n```",
			wantName: "dog",
			wantOK:   true,
		},
		{
			name:     "surrounding whitespace",
			raw:      "  \n{\"tool\": \"duck\", \"parameters\": {}}\n  ",
			wantName: "duck",
			wantOK:   true,
		},
		{
			name:   "prose instead of json",
			raw:    "I think you want a duck!",
			wantOK: false,
		},
		{
			name:   "empty response",
			raw:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, params, ok := parseToolCall(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if ok && name != "" && len(params) == 0 {
				t.Error("matched call should always carry a parameters object")
			}
		})
	}
}

func TestBuildToolPrompt(t *testing.T) {
	prompt := buildToolPrompt(testTools, "Show me a duck")

	for _, want := range []string{
		`"name": "duck"`,
		`"description": "Fetch a random duck image"`,
		"User query: Show me a duck",
		`{"tool": null, "parameters": {}}`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{`{"a": 1}`, `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLastUserContent(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "reply"},
		{Role: "user", Content: "second"},
	}
	if got := lastUserContent(msgs); got != "second" {
		t.Errorf("expected second, got %q", got)
	}
	if got := lastUserContent(nil); got != "" {
		t.Errorf("expected empty for no messages, got %q", got)
	}
}
