package store

import (
	"context"
	"sync"
)

// MemoryKV is an in-process medium for single-instance use and tests.
// Without a shared backend there is no cross-instance channel to lose;
// subscribers registered on the same MemoryKV still get notified, which
// lets several Store instances in one process stay in sync.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
	subs []func(key string)
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	subs := make([]func(string), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
	return nil
}

func (m *MemoryKV) Subscribe(_ context.Context, fn func(key string)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
	return nil
}
