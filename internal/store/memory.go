package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory keeps snapshots in a map, round-tripping through JSON so it
// behaves like the Postgres store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) SaveSnapshot(ctx context.Context, key string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = body
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadSnapshot(ctx context.Context, key string, dest any) error {
	m.mu.RLock()
	body, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return ErrSnapshotNotFound
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return nil
}
