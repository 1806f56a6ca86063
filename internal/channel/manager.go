package channel

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Manager owns channel lifecycles. Channels start in registration
// order and stop in reverse.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]Channel
	order    []string
}

// NewManager creates an empty channel manager.
func NewManager() *Manager {
	return &Manager{
		channels: make(map[string]Channel),
	}
}

// Register adds a channel. A channel registered under an existing name
// replaces the earlier one without changing the start order.
func (m *Manager) Register(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.channels[ch.Name()]; !exists {
		m.order = append(m.order, ch.Name())
	}
	m.channels[ch.Name()] = ch
}

// StartAll starts every channel in registration order. The first
// failure stops the rollout and shuts the already-started channels
// back down.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, name := range m.order {
		if err := m.channels[name].Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				m.channels[m.order[j]].Stop(ctx)
			}
			return fmt.Errorf("start %s: %w", name, err)
		}
		log.Printf("[channel] started %s", name)
	}
	return nil
}

// StopAll stops running channels in reverse start order.
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.order) - 1; i >= 0; i-- {
		name := m.order[i]
		ch := m.channels[name]
		if !ch.IsRunning() {
			continue
		}
		if err := ch.Stop(ctx); err != nil {
			log.Printf("[channel] failed to stop %s: %v", name, err)
			continue
		}
		log.Printf("[channel] stopped %s", name)
	}
}

// Get returns a channel by name.
func (m *Manager) Get(name string) (Channel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.channels[name]
	return ch, ok
}

// List reports every channel's running status.
func (m *Manager) List() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]bool, len(m.channels))
	for name, ch := range m.channels {
		result[name] = ch.IsRunning()
	}
	return result
}
