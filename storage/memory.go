package storage

import (
	"context"
	"io"
	"sync"
)

type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *MemoryStore) Upload(_ context.Context, objectPath, contentType string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[objectPath] = data
	s.types[objectPath] = contentType
	s.mu.Unlock()
	return "memory://" + objectPath, nil
}

func (s *MemoryStore) Delete(_ context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectPath]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, objectPath)
	delete(s.types, objectPath)
	return nil
}

// Object returns the stored bytes and content type of objectPath.
func (s *MemoryStore) Object(objectPath string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectPath]
	return data, s.types[objectPath], ok
}
