package combat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Engine tracks the running battles, keyed by session id.
type Engine struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewEngine creates an empty Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{sessions: make(map[uuid.UUID]*Session)}
}

// Register records s as running.
//
// Postcondition: Returns an error if a session with the same id is already
// registered.
func (e *Engine) Register(s *Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.sessions[s.ID()]; exists {
		return fmt.Errorf("combat.Engine.Register: session %s already registered", s.ID())
	}
	e.sessions[s.ID()] = s
	return nil
}

// Get returns the session with the given id.
func (e *Engine) Get(id uuid.UUID) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	return s, ok
}

// End forgets the session with the given id and tears it down.
func (e *Engine) End(id uuid.UUID) {
	e.mu.Lock()
	s, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()
	if ok {
		s.Teardown()
	}
}

// Sessions returns the registered sessions ordered by id.
func (e *Engine) Sessions() []*Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().String() < out[j].ID().String() })
	return out
}
