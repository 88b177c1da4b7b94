package voting

import (
	"sync"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Registry keeps the live sessions of this process, keyed by an opaque token.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	deps        Dependencies
	idleTimeout time.Duration
	now         func() time.Time
}

func NewRegistry(deps Dependencies, idleTimeout time.Duration) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		deps:        deps,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

func (r *Registry) Create() (*Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	session := NewSession(id, r.deps)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	r.sessions[id] = session
	logging.Log.Debugf("SESSION: created %s (%d live)", id, len(r.sessions))
	return session, nil
}

// Get returns the session for id unless it is unknown or has been idle too long.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.expired(session) {
		delete(r.sessions, id)
		logging.Log.Debugf("SESSION: %s expired", id)
		return nil, false
	}
	return session, true
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) pruneLocked() {
	for id, session := range r.sessions {
		if r.expired(session) {
			delete(r.sessions, id)
		}
	}
}

func (r *Registry) expired(session *Session) bool {
	return r.idleTimeout > 0 && r.now().Sub(session.LastSeen()) > r.idleTimeout
}
