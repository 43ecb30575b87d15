// Package session keeps the live PDV drafts, one per open terminal session.
// The draft itself is ambient-state-free; this registry is the only place
// that maps a session id to its instance, so multiple terminals in one
// process stay fully isolated.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/braseiro-pdv/api/internal/draft"
)

// Manager owns the session-id → draft mapping.
type Manager struct {
	mu                 sync.RWMutex
	drafts             map[uuid.UUID]*draft.Draft
	defaultDeliveryFee decimal.Decimal
}

// NewManager creates an empty registry. defaultDeliveryFee is handed to every
// draft it opens.
func NewManager(defaultDeliveryFee decimal.Decimal) *Manager {
	return &Manager{
		drafts:             make(map[uuid.UUID]*draft.Draft),
		defaultDeliveryFee: defaultDeliveryFee,
	}
}

// Open creates a fresh empty draft and returns its session id.
func (m *Manager) Open() (uuid.UUID, *draft.Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	d := draft.New(m.defaultDeliveryFee)
	m.drafts[id] = d
	return id, d
}

// Get returns the draft for a session id.
func (m *Manager) Get(id uuid.UUID) (*draft.Draft, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drafts[id]
	return d, ok
}

// Close discards a session and its draft. Closing an unknown session is a
// no-op.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drafts)
}
