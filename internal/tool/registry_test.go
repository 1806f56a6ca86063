package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pettingzoo/internal/config"
	"pettingzoo/internal/fetch"
)

type stubTool struct {
	name string
	res  *Result
	err  error
}

func (s *stubTool) Name() string                { return s.name }
func (s *stubTool) Description() string         { return s.name + " stub" }
func (s *stubTool) Parameters() json.RawMessage { return emptySchema }
func (s *stubTool) Execute(context.Context, json.RawMessage) (*Result, error) {
	return s.res, s.err
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubTool{name: "duck"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tl, err := r.Get("duck")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tl.Name() != "duck" {
		t.Errorf("expected duck, got %s", tl.Name())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubTool{name: "duck"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&stubTool{name: "duck"}); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestGetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("giraffe")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestRegistrationOrderIsStable(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"greet", "duck", "dog", "cat", "ping"} {
		if err := r.Register(&stubTool{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	names := r.Names()
	want := []string{"greet", "duck", "dog", "cat", "ping"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names[%d] = %s, want %s", i, names[i], n)
		}
	}

	defs := r.Definitions()
	if len(defs) != len(want) {
		t.Fatalf("expected %d definitions, got %d", len(want), len(defs))
	}
	for i, n := range want {
		if defs[i].Name != n {
			t.Errorf("defs[%d].Name = %s, want %s", i, defs[i].Name, n)
		}
		if defs[i].Description == "" {
			t.Errorf("defs[%d] missing description", i)
		}
	}
}

func TestInvoke(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubTool{name: "ping", res: &Result{Text: "pong"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := r.Invoke(context.Background(), "ping", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "pong" {
		t.Errorf("expected pong, got %s", res.Text)
	}

	if _, err := r.Invoke(context.Background(), "missing", nil); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestPingTool(t *testing.T) {
	p := NewPingTool()
	res, err := p.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "pong" || res.IsError {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestDefaultRegistry(t *testing.T) {
	cfg := config.UpstreamConfig{}
	r, err := DefaultRegistry(fetch.NewClient(cfg), fetch.NewChecker(cfg), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"greet", "duck", "dog", "cat", "ping", "health_check"}
	names := r.Names()
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %s, want %s", i, names[i], n)
		}
	}
}
