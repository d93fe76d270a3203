package kvstore

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemStore is the session tier: process-lifetime storage cleared when the
// session ends. Values are held JSON-encoded so readers get copies, never
// aliases of the written value.
type MemStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty session-scoped store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string][]byte)}
}

// Put stores the JSON encoding of v.
func (s *MemStore) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	s.mu.Lock()
	s.m[key] = data
	s.mu.Unlock()
	return nil
}

// Get decodes the stored value into dest.
func (s *MemStore) Get(key string, dest any) (bool, error) {
	s.mu.RLock()
	data, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the key.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
