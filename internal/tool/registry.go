package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/oracle"
	"pettingzoo/internal/zoo"
)

// Registry manages available tools. It is populated once at startup
// and read-only afterwards; ordering is registration order so the
// advertised tool list is stable.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Two tools never share a name.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool already registered: %s", t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// List returns all registered tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Definitions returns tool definitions for oracle requests.
func (r *Registry) Definitions() []oracle.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]oracle.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, oracle.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  json.RawMessage(t.Parameters()),
		})
	}
	return defs
}

// Invoke looks up and executes a tool in one step.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return t.Execute(ctx, args)
}

// DefaultRegistry builds the standard tool set every binary serves:
// greet, one fetch tool per animal kind, ping, and health_check.
func DefaultRegistry(fetcher *fetch.Client, checker *fetch.Checker, bus *eventbus.Bus) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(NewGreetTool()); err != nil {
		return nil, err
	}
	for _, kind := range zoo.Kinds() {
		at, err := NewAnimalTool(kind, fetcher, bus)
		if err != nil {
			return nil, err
		}
		if err := r.Register(at); err != nil {
			return nil, err
		}
	}
	if err := r.Register(NewPingTool()); err != nil {
		return nil, err
	}
	if err := r.Register(NewHealthTool(checker)); err != nil {
		return nil, err
	}
	return r, nil
}
