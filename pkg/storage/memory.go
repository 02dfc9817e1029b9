package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage is an in-memory Storage used by tests and local runs
// without an object store.
type MemoryStorage struct {
	objects map[string][]byte // keyed by bucket/key
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

// Save stores the object bytes in memory.
func (m *MemoryStorage) Save(_ context.Context, bucket, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}
	m.mu.Lock()
	m.objects[bucket+"/"+key] = data
	m.mu.Unlock()
	return m.URL(bucket, key), nil
}

// Delete removes an object; deleting a missing object is an error so the
// best-effort semantics of callers can be exercised in tests.
func (m *MemoryStorage) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	full := bucket + "/" + key
	if _, ok := m.objects[full]; !ok {
		return fmt.Errorf("object %s not found", full)
	}
	delete(m.objects, full)
	return nil
}

// URL returns a stable fake URL for an object.
func (m *MemoryStorage) URL(bucket, key string) string {
	return "memory://" + bucket + "/" + key
}

// Has reports whether an object exists, for test assertions.
func (m *MemoryStorage) Has(bucket, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok
}

// Len reports the number of stored objects, for test assertions.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
