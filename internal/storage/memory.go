package storage

import (
	"context"
	"sync"
)

// Memory is a process-local Backend. Nothing survives the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// Unavailable is the Backend used when there is no durable medium. Every
// call fails with ErrUnavailable.
type Unavailable struct{}

// NewUnavailable returns the no-medium backend.
func NewUnavailable() *Unavailable { return &Unavailable{} }

func (*Unavailable) Name() string { return "none" }

func (*Unavailable) Get(context.Context, string) (string, error) { return "", ErrUnavailable }

func (*Unavailable) Put(context.Context, string, string) error { return ErrUnavailable }

func (*Unavailable) Delete(context.Context, string) error { return ErrUnavailable }

func (*Unavailable) Close() error { return nil }
