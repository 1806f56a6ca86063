package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/oracle"
)

// Caller invokes named tools on a connected server. *Client satisfies
// it; tests substitute a fake.
type Caller interface {
	Tools() []oracle.ToolDefinition
	Call(ctx context.Context, name string, args json.RawMessage) (string, bool, error)
}

// SessionConfig wires a Session. In and Out default to the process
// stdin/stdout when nil.
type SessionConfig struct {
	Caller   Caller
	Resolver *oracle.Resolver
	Backend  string
	Bus      *eventbus.Bus
	In       io.Reader
	Out      io.Writer
}

// Session is the interactive query loop: read a line, resolve it to at
// most one tool call, print what came back.
type Session struct {
	caller   Caller
	resolver *oracle.Resolver
	backend  string
	bus      *eventbus.Bus
	in       io.Reader
	out      io.Writer
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Session{
		caller:   cfg.Caller,
		resolver: cfg.Resolver,
		backend:  cfg.Backend,
		bus:      cfg.Bus,
		in:       cfg.In,
		out:      cfg.Out,
	}
}

// Run drives the loop until EOF or quit.
func (s *Session) Run(ctx context.Context) error {
	tools := s.caller.Tools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	fmt.Fprintf(s.out, "Connected! Tools: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(s.out, "Backend: %s\n", s.backend)
	fmt.Fprintln(s.out, "Type queries or 'quit' to exit.")
	fmt.Fprintln(s.out, "Examples: 'Show me a duck', 'I want a cat'")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "\nQuery: ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "quit") {
			break
		}
		fmt.Fprintln(s.out, s.Handle(ctx, query))
	}
	return scanner.Err()
}

// Handle resolves one query and returns the text to show. Every
// failure mode comes back as printable text; a bad query never kills
// the loop.
func (s *Session) Handle(ctx context.Context, query string) string {
	res, err := s.resolver.Resolve(ctx, query, s.caller.Tools())
	if err != nil {
		log.Printf("[chat] resolve failed: %v", err)
		return "Something went wrong reaching the model. Please try again."
	}

	if !res.Matched() {
		s.publish(query, "")
		return res.Reply
	}

	text, isErr, err := s.caller.Call(ctx, res.Tool, res.Arguments)
	if err != nil {
		log.Printf("[chat] tool %s failed: %v", res.Tool, err)
		return fmt.Sprintf("Tool %s failed. Please try again.", res.Tool)
	}
	if isErr {
		log.Printf("[chat] tool %s returned a degraded result", res.Tool)
	}
	s.publish(query, res.Tool)
	return text
}

func (s *Session) publish(query, tool string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.TopicQueryResolved, eventbus.ResolutionEvent{Query: query, Tool: tool})
}
