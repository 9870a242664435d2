package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is used when no Redis URL is configured. Sessions do not
// survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, tokenID string, rec Record, expiresAt time.Time) error {
	s.mu.Lock()
	s.sessions[tokenID] = memoryEntry{rec: rec, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, tokenID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[tokenID]
	if !ok {
		return Record{}, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, tokenID)
		return Record{}, ErrNotFound
	}
	return e.rec, nil
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string) error {
	s.mu.Lock()
	delete(s.sessions, tokenID)
	s.mu.Unlock()
	return nil
}
