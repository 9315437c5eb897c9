package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/store"
)

// Manager hands out one Session per document id, loading documents from the
// store on first use.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	logger   *log.Logger
	sessions map[string]*Session
}

// NewManager creates a manager backed by st.
func NewManager(st store.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{store: st, logger: logger, sessions: make(map[string]*Session)}
}

// Get returns the session for id.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s, err := Open(ctx, m.store, id, m.logger)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = s
	return s, nil
}

// Create stores a new document and starts a session on it. The id must not
// be taken.
func (m *Manager) Create(ctx context.Context, doc *document.Document) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Put(ctx, doc, store.Missing); err != nil {
		return nil, err
	}
	s := New(doc, m.store, m.logger)
	m.sessions[doc.ID] = s
	return s, nil
}

// Delete removes a document and drops its session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	delete(m.sessions, id)
	return nil
}

// Store returns the backing store.
func (m *Manager) Store() store.Store {
	return m.store
}
