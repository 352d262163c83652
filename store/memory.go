package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store, used by tests and the example programs.
type Memory struct {
	mu   sync.Mutex
	data map[string]LastSession
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]LastSession)}
}

// SaveLast overwrites the record for a namespace.
func (m *Memory) SaveLast(_ context.Context, namespace string, last LastSession) error {
	if namespace == "" {
		namespace = "default"
	}
	if last.SavedAt == 0 {
		last.SavedAt = time.Now().Unix()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[namespace] = last
	return nil
}

// LoadLast returns the record for a namespace, or (nil, nil) when absent.
func (m *Memory) LoadLast(_ context.Context, namespace string) (*LastSession, error) {
	if namespace == "" {
		namespace = "default"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.data[namespace]
	if !ok {
		return nil, nil
	}
	return &last, nil
}
