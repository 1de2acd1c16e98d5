// Package store persists checkout configurations per tenant and serves the
// product catalog.
package store

import (
	"context"
	"errors"
)

var ErrNoKey = errors.New("no routing key in context")

// Scoped namespaces a Cache and derives the key of every call from the
// context.
type Scoped[S any] struct {
	core      Cache[S]
	namespace string
	keyFn     func(ctx context.Context) (string, bool)
}

func NewScoped[S any](core Cache[S], namespace string, keyFn func(ctx context.Context) (string, bool)) Scoped[S] {
	return Scoped[S]{
		core:      core,
		namespace: namespace,
		keyFn:     keyFn,
	}
}

// Key returns the namespaced cache key for ctx.
func (c Scoped[S]) Key(ctx context.Context) (string, bool) {
	key, ok := c.keyFn(ctx)
	if !ok {
		return "", false
	}
	return c.namespace + ":" + key, true
}

func (c Scoped[S]) Set(ctx context.Context, val S) error {
	key, ok := c.Key(ctx)
	if !ok {
		return ErrNoKey
	}
	return c.core.Set(ctx, key, val)
}

func (c Scoped[S]) Get(ctx context.Context) (S, bool, error) {
	key, ok := c.Key(ctx)
	if !ok {
		var zero S
		return zero, false, ErrNoKey
	}
	return c.core.Get(ctx, key)
}

func (c Scoped[S]) Del(ctx context.Context) error {
	key, ok := c.Key(ctx)
	if !ok {
		return ErrNoKey
	}
	return c.core.Del(ctx, key)
}

func (c Scoped[S]) Exists(ctx context.Context) (bool, error) {
	key, ok := c.Key(ctx)
	if !ok {
		return false, ErrNoKey
	}
	return c.core.Exists(ctx, key)
}
