package session

import (
	"log"
	"sync"
)

// Manager tracks the set of live connections for visibility (connection
// counts, shutdown sweep) without ever routing a message between them — no
// shared state exists between connections. A register/unregister map
// guarded by a mutex, stripped of any broadcast or room-matching
// responsibilities since every Environment here belongs to exactly one
// connection.
type Manager struct {
	mu      sync.Mutex
	clients map[string]*Client
}

// NewManager returns an empty connection registry.
func NewManager() *Manager {
	return &Manager{clients: make(map[string]*Client)}
}

// Register adds a client and starts its lifecycle goroutine.
func (m *Manager) Register(c *Client) {
	m.mu.Lock()
	m.clients[c.ID] = c
	count := len(m.clients)
	m.mu.Unlock()
	log.Printf("[session] client registered: %s (active=%d)", c.ID, count)

	go func() {
		c.Run()
		m.unregister(c)
	}()
}

func (m *Manager) unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	count := len(m.clients)
	m.mu.Unlock()
	log.Printf("[session] client unregistered: %s (active=%d)", c.ID, count)
}

// ActiveCount reports the number of live connections.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Shutdown closes every tracked client's connection. Used on graceful
// server shutdown to discard all per-session state at once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		c.Close()
	}
}
