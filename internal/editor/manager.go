package editor

import (
	"sync"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/pkg/interfaces"
	"github.com/google/uuid"
)

// Manager tracks the editor sessions open in one process, keyed by session
// id rather than block id, so concurrently mounted editors can never collide
// on shared state.
type Manager struct {
	mu       sync.RWMutex
	registry *catalog.Registry
	sessions map[uuid.UUID]*Session
	logger   interfaces.Logger
}

// NewManager constructs an empty session manager over the given catalog.
func NewManager(registry *catalog.Registry, logger interfaces.Logger) *Manager {
	return &Manager{
		registry: registry,
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
	}
}

// Open starts a session over a document and registers it with the manager.
func (m *Manager) Open(roots []*blocks.Block) *Session {
	session := NewSession(m.registry, roots,
		WithLogger(m.logger),
		withOnClose(m.release),
	)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	return session
}

// Get returns an open session by id.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Len reports how many sessions are open.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll tears down every open session.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	for _, session := range sessions {
		session.Close()
	}
}

func (m *Manager) release(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
