package player

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/formatech/coursegate/internal/content"
	"github.com/formatech/coursegate/internal/storage"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry holds the live sessions for this gateway instance. Sessions are
// page-scoped on the client side, so nothing here persists.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	blobs      storage.BlobStore
	files      FileFetcher
	viewerBase string
}

func NewRegistry(blobs storage.BlobStore, files FileFetcher, viewerBase string) *Registry {
	return &Registry{
		sessions:   map[string]*Session{},
		blobs:      blobs,
		files:      files,
		viewerBase: viewerBase,
	}
}

func (r *Registry) Create(a content.Assembly) *Session {
	s := newSession(uuid.NewString(), a, r.blobs, r.files, r.viewerBase)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove closes the session and drops it from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll tears down every live session (server shutdown path).
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
