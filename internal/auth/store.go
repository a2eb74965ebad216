package auth

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
)

// sessionProp is the gdata property each key's value lives in.
const sessionProp = "current"

// GDataStore keeps values as gdata object properties, one object per key.
type GDataStore struct {
	manager *gdata.Manager
}

// OpenGDataStore opens the per-user data directory for appName.
func OpenGDataStore(appName string) (*GDataStore, error) {
	const op = "auth.OpenGDataStore"

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &GDataStore{manager: m}, nil
}

func NewGDataStore(m *gdata.Manager) *GDataStore {
	return &GDataStore{manager: m}
}

func (s *GDataStore) Load(key string) ([]byte, bool, error) {
	if !s.manager.ObjectPropExists(key, sessionProp) {
		return nil, false, nil
	}
	data, err := s.manager.LoadObjectProp(key, sessionProp)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *GDataStore) Save(key string, data []byte) error {
	return s.manager.SaveObjectProp(key, sessionProp, data)
}

// Delete removes the value. A missing value is not an error.
func (s *GDataStore) Delete(key string) error {
	return s.manager.DeleteObjectProp(key, sessionProp)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.data[key]
	return data, ok, nil
}

func (s *MemoryStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
