package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sumtutor/internal/addition"
)

// Registry holds the live sessions of a process. When full, creating a
// session evicts the least recently used one that is not stepping.
type Registry struct {
	narrator addition.Narrator
	limit    int
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

// NewRegistry creates a registry allowing at most limit sessions; limit <= 0
// means unlimited.
func NewRegistry(limit int, narrator addition.Narrator) *Registry {
	return &Registry{
		narrator: narrator,
		limit:    limit,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create registers a new idle session. ErrTooManySessions is returned only
// when every held session is mid-calculation.
func (r *Registry) Create() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && len(r.sessions) >= r.limit {
		if !r.evictLocked() {
			return nil, ErrTooManySessions
		}
	}

	s := New(uuid.New().String(), r.narrator)
	r.sessions[s.ID()] = &entry{session: s, lastUsed: r.now()}
	return s, nil
}

// evictLocked drops the least recently used session outside PhaseStepping.
func (r *Registry) evictLocked() bool {
	var (
		victim string
		oldest time.Time
	)
	for id, e := range r.sessions {
		if e.session.Phase() == PhaseStepping {
			continue
		}
		if victim == "" || e.lastUsed.Before(oldest) {
			victim, oldest = id, e.lastUsed
		}
	}
	if victim == "" {
		return false
	}
	delete(r.sessions, victim)
	return true
}

// Get returns the session with id and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastUsed = r.now()
	return e.session, nil
}

// Delete drops the session with id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
