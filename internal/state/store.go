// Package state defines the durable key-value contract the engines flush to.
package state

import (
	"context"
	"errors"
	"slices"
	"sync"
)

const (
	NamespaceTimer   = "timer"
	NamespaceReviews = "reviews"
	NamespaceHabits  = "habits"
)

var ErrNotFound = errors.New("state: namespace not found")

// Store loads and saves an engine's state as an opaque JSON blob per namespace.
type Store interface {
	Load(ctx context.Context, namespace string) ([]byte, error)
	Save(ctx context.Context, namespace string, payload []byte) error
}

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, namespace string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.blobs[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(payload), nil
}

func (m *Memory) Save(_ context.Context, namespace string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[namespace] = slices.Clone(payload)
	return nil
}
