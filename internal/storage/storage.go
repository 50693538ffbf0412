package storage

import (
	"sync"

	"github.com/arthistory/depthviz/internal/models"
)

// SessionStore holds the live viewer sessions
type SessionStore struct {
	sessions map[string]*models.ViewerSession
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.ViewerSession),
	}
}

func (s *SessionStore) Get(sessionID string) (*models.ViewerSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *models.ViewerSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

func (s *SessionStore) GetAll() map[string]*models.ViewerSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.ViewerSession, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
