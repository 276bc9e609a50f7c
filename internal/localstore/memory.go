package localstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps items in process memory. Items are lost on restart.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]map[string]string)}
}

func (m *MemoryBackend) GetItem(ctx context.Context, deviceID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[deviceID][key]
	return v, ok, nil
}

func (m *MemoryBackend) SetItem(ctx context.Context, deviceID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[deviceID] == nil {
		m.items[deviceID] = make(map[string]string)
	}
	m.items[deviceID][key] = value
	return nil
}

func (m *MemoryBackend) RemoveItem(ctx context.Context, deviceID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[deviceID], key)
	if len(m.items[deviceID]) == 0 {
		delete(m.items, deviceID)
	}
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
