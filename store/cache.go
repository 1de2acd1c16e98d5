package store

import (
	"context"
	"sync"
)

// Cache holds one value per key. Keys arrive already namespaced and
// tenant-qualified by Scoped ("config:acme", "assist:history:acme"), so a
// single Cache can back every tenant of a process while no tenant sees
// another's entries. Implementations must be safe for concurrent use and
// should fail fast once ctx is done, like a remote cache would.
type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MemoryCache is the in-process Cache used by the server and the CLI.
// Entries live until deleted; there is no eviction.
type MemoryCache[S any] struct {
	mu      sync.RWMutex
	entries map[string]S
}

func NewMemoryCache[S any]() *MemoryCache[S] {
	return &MemoryCache[S]{entries: make(map[string]S)}
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	return m.write(ctx, func() { m.entries[key] = val })
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	return m.write(ctx, func() { delete(m.entries, key) })
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	var (
		val S
		ok  bool
	)
	err := m.read(ctx, func() { val, ok = m.entries[key] })
	return val, ok, err
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

func (m *MemoryCache[S]) write(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
	return nil
}

func (m *MemoryCache[S]) read(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn()
	return nil
}
