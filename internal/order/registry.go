package order

import (
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
)

// Registry holds the live order sessions of this terminal, keyed by
// session ID. Sessions live in memory only; a restart starts clean.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Create opens a new session bound to a table and tracks it.
func (r *Registry) Create(table string, sellerID int64, sellerName string) (*Session, error) {
	session, err := NewSession(table, sellerID, sellerName)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
	return session, nil
}

// Get looks up a tracked session.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order session not found")
	}
	return session, nil
}

// Close drops a session from the registry. Closing an unknown session
// is not an error; the caller already has what it wanted.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
