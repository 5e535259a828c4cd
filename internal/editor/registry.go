package editor

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Registry keeps the live sessions in memory.
type Registry struct {
	env *Env

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(env *Env) *Registry {
	return &Registry{env: env, sessions: map[string]*Session{}}
}

func (r *Registry) Create() *Session {
	s := NewSession(uuid.NewString(), r.env)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	s.Changed()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
