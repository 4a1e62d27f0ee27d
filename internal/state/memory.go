package state

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store used in tests and sheet-less local runs.
type MemStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string][]byte)}
}

func (m *MemStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.records[key]
	if !ok {
		return nil, false, nil
	}
	cp := append([]byte(nil), value...)
	return cp, true, nil
}

func (m *MemStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), value...)
	return nil
}

// Put seeds a raw record, bypassing JSON encoding. Test helper for
// exercising corrupt-record recovery.
func (m *MemStore) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), value...)
}
