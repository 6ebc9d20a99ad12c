// Package store defines the key-value option store a settings page reads
// and writes, plus an in-memory implementation for tests and previews.
package store

import (
	"context"
	"sort"
	"sync"
)

// OptionStore persists string values by key. Writes are last-write-wins per
// key; there is no multi-key atomicity.
type OptionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Lister is implemented by stores that can enumerate their entries.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}

// Deleter is implemented by stores that can remove a key.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Entry is a single stored option.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// GetOr returns the stored value for key, or fallback when the key is unset.
func GetOr(ctx context.Context, s OptionStore, key, fallback string) (string, error) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}

// Memory is an OptionStore backed by a map.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var (
	_ OptionStore = (*Memory)(nil)
	_ Lister      = (*Memory)(nil)
	_ Deleter     = (*Memory)(nil)
)

// NewMemory returns a Memory store seeded with initial.
func NewMemory(initial map[string]string) *Memory {
	values := make(map[string]string, len(initial))
	for key, value := range initial {
		values[key] = value
	}
	return &Memory{values: values}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// List returns entries sorted by key.
func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	out := make([]Entry, 0, len(m.values))
	for key, value := range m.values {
		out = append(out, Entry{Key: key, Value: value})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Snapshot copies the current contents.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for key, value := range m.values {
		out[key] = value
	}
	return out
}
