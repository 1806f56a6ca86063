package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/oracle"
)

type fakeCaller struct {
	tools  []oracle.ToolDefinition
	text   string
	isErr  bool
	err    error
	called []string
}

func (f *fakeCaller) Tools() []oracle.ToolDefinition { return f.tools }

func (f *fakeCaller) Call(_ context.Context, name string, _ json.RawMessage) (string, bool, error) {
	f.called = append(f.called, name)
	return f.text, f.isErr, f.err
}

type scriptedProvider struct {
	resp *oracle.ChatResponse
	err  error
}

func (p *scriptedProvider) Chat(_ context.Context, _ *oracle.ChatRequest) (*oracle.ChatResponse, error) {
	return p.resp, p.err
}
func (p *scriptedProvider) Name() string         { return "scripted" }
func (p *scriptedProvider) DefaultModel() string { return "scripted-1" }

func testTools() []oracle.ToolDefinition {
	return []oracle.ToolDefinition{
		{Name: "duck", Description: "duck image", Parameters: json.RawMessage(`{"type": "object", "properties": {}}`)},
		{Name: "greet", Description: "greet", Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string", "minLength": 1}},
			"required": ["name"]
		}`)},
	}
}

func newTestSession(caller Caller, provider oracle.Provider, bus *eventbus.Bus) *Session {
	return NewSession(SessionConfig{
		Caller:   caller,
		Resolver: oracle.NewResolver(provider, 0),
		Backend:  "ollama",
		Bus:      bus,
		In:       strings.NewReader(""),
		Out:      &bytes.Buffer{},
	})
}

func TestHandleMatchedToolCall(t *testing.T) {
	caller := &fakeCaller{tools: testTools(), text: "https://example.com/duck.jpg"}
	provider := &scriptedProvider{resp: &oracle.ChatResponse{
		ToolCalls: []oracle.ToolCall{{ID: "1", Name: "duck", Arguments: json.RawMessage(`{}`)}},
	}}

	bus := eventbus.New()
	var events []eventbus.Event
	bus.Subscribe(eventbus.TopicQueryResolved, func(e eventbus.Event) {
		events = append(events, e)
	})

	s := newTestSession(caller, provider, bus)
	got := s.Handle(context.Background(), "Show me a duck")

	if got != "https://example.com/duck.jpg" {
		t.Errorf("reply = %q", got)
	}
	if len(caller.called) != 1 || caller.called[0] != "duck" {
		t.Errorf("calls = %v, want [duck]", caller.called)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 resolution event, got %d", len(events))
	}
	if re := events[0].Payload.(eventbus.ResolutionEvent); re.Tool != "duck" {
		t.Errorf("event tool = %q", re.Tool)
	}
}

func TestHandleNoMatchPrintsReply(t *testing.T) {
	caller := &fakeCaller{tools: testTools()}
	provider := &scriptedProvider{resp: &oracle.ChatResponse{Content: "Hello there!"}}

	s := newTestSession(caller, provider, nil)
	got := s.Handle(context.Background(), "Hi!")

	if got != "Hello there!" {
		t.Errorf("reply = %q", got)
	}
	if len(caller.called) != 0 {
		t.Errorf("no tool should run, got %v", caller.called)
	}
}

func TestHandleResolveError(t *testing.T) {
	caller := &fakeCaller{tools: testTools()}
	provider := &scriptedProvider{err: &oracle.Error{Type: oracle.ErrorNetwork, Message: "down"}}

	s := newTestSession(caller, provider, nil)
	got := s.Handle(context.Background(), "Show me a duck")

	if !strings.Contains(got, "try again") {
		t.Errorf("reply should ask to retry: %q", got)
	}
	if len(caller.called) != 0 {
		t.Errorf("no tool should run, got %v", caller.called)
	}
}

func TestHandleTransportError(t *testing.T) {
	caller := &fakeCaller{tools: testTools(), err: errors.New("pipe closed")}
	provider := &scriptedProvider{resp: &oracle.ChatResponse{
		ToolCalls: []oracle.ToolCall{{ID: "1", Name: "duck", Arguments: json.RawMessage(`{}`)}},
	}}

	s := newTestSession(caller, provider, nil)
	got := s.Handle(context.Background(), "Show me a duck")

	if !strings.Contains(got, "duck failed") {
		t.Errorf("reply = %q", got)
	}
}

func TestHandleDegradedResultPassesThrough(t *testing.T) {
	degraded := "The duck API is busy right now.\nFallback image: https://example.com/fallback.jpg"
	caller := &fakeCaller{tools: testTools(), text: degraded, isErr: true}
	provider := &scriptedProvider{resp: &oracle.ChatResponse{
		ToolCalls: []oracle.ToolCall{{ID: "1", Name: "duck", Arguments: json.RawMessage(`{}`)}},
	}}

	s := newTestSession(caller, provider, nil)
	if got := s.Handle(context.Background(), "duck please"); got != degraded {
		t.Errorf("degraded text should pass through unchanged, got %q", got)
	}
}

func TestRunBannerAndQuit(t *testing.T) {
	caller := &fakeCaller{tools: testTools()}
	provider := &scriptedProvider{resp: &oracle.ChatResponse{Content: "hi"}}

	var out bytes.Buffer
	s := NewSession(SessionConfig{
		Caller:   caller,
		Resolver: oracle.NewResolver(provider, 0),
		Backend:  "ollama",
		In:       strings.NewReader("quit\n"),
		Out:      &out,
	})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Connected! Tools: duck, greet",
		"Backend: ollama",
		"Type queries or 'quit' to exit.",
		"Examples: 'Show me a duck', 'I want a cat'",
		"Query: ",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if len(caller.called) != 0 {
		t.Errorf("quit should not invoke tools, got %v", caller.called)
	}
}

func TestRunQueryThenQuit(t *testing.T) {
	caller := &fakeCaller{tools: testTools(), text: "https://example.com/duck.jpg"}
	provider := &scriptedProvider{resp: &oracle.ChatResponse{
		ToolCalls: []oracle.ToolCall{{ID: "1", Name: "duck", Arguments: json.RawMessage(`{}`)}},
	}}

	var out bytes.Buffer
	s := NewSession(SessionConfig{
		Caller:   caller,
		Resolver: oracle.NewResolver(provider, 0),
		Backend:  "ollama",
		In:       strings.NewReader("Show me a duck\n\nquit\n"),
		Out:      &out,
	})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "https://example.com/duck.jpg") {
		t.Errorf("result text missing:\n%s", out.String())
	}
	if len(caller.called) != 1 {
		t.Errorf("blank lines must be skipped; calls = %v", caller.called)
	}
}
