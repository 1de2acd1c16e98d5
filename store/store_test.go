package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int]()
	require.NoError(t, c.Set(ctx, "a", 1))

	v, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	exists, _ := c.Exists(ctx, "b")
	assert.False(t, exists)

	require.NoError(t, c.Del(ctx, "a"))
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.Set(canceled, "a", 2), context.Canceled)
	_, _, err = c.Get(canceled, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScopedTenantsShareCache(t *testing.T) {
	core := NewMemoryCache[int]()
	s := NewScoped[int](core, "ns", Tenant)
	acme := WithTenant(context.Background(), "acme")
	globex := WithTenant(context.Background(), "globex")

	require.NoError(t, s.Set(acme, 1))
	require.NoError(t, s.Set(globex, 2))
	require.NoError(t, s.Set(context.Background(), 3))

	v, ok, err := s.Get(acme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	require.NoError(t, s.Del(globex))
	exists, err := s.Exists(globex)
	require.NoError(t, err)
	assert.False(t, exists)

	v, _, _ = core.Get(context.Background(), "ns:"+DefaultTenant)
	assert.Equal(t, 3, v)
}

func TestScopedRequiresKey(t *testing.T) {
	s := NewScoped[int](NewMemoryCache[int](), "ns", TenantFromContext)
	ctx := context.Background()
	assert.ErrorIs(t, s.Set(ctx, 1), ErrNoKey)

	ctx = WithTenant(ctx, "acme")
	require.NoError(t, s.Set(ctx, 1))
	key, ok := s.Key(ctx)
	require.True(t, ok)
	assert.Equal(t, "ns:acme", key)
}

func TestSaveLoad(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewConfigStore(NewMemoryCache[Snapshot](), WithClock(func() time.Time { return now }))
	ctx := WithTenant(context.Background(), "acme")

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	cfg := defaults.Configuration()
	saved, err := s.Save(ctx, SaveRequest{Config: cfg, Name: "Spring", Description: "Seasonal"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Revision)

	cfg.Steps[0].Title = "changed after save"

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Spring", loaded.Name)
	assert.Equal(t, now, loaded.SavedAt)
	assert.Equal(t, "Customer Information", loaded.Config.Steps[0].Title)

	loaded.Config.Steps[0].Title = "mutated copy"
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Customer Information", again.Config.Steps[0].Title)

	_, err = s.Load(WithTenant(context.Background(), "other"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	s := NewConfigStore(NewMemoryCache[Snapshot]())
	ctx := context.Background()

	_, err := s.Save(ctx, SaveRequest{})
	assert.ErrorIs(t, err, ErrInvalid)

	cfg := defaults.Configuration()
	cfg.Steps[1].ID = cfg.Steps[0].ID
	_, err = s.Save(ctx, SaveRequest{Config: cfg})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestBlindOverwrite(t *testing.T) {
	s := NewConfigStore(NewMemoryCache[Snapshot]())
	ctx := context.Background()

	first := defaults.Configuration()
	first.Version = "first"
	second := defaults.Configuration()
	second.Version = "second"

	_, err := s.Save(ctx, SaveRequest{Config: first})
	require.NoError(t, err)
	saved, err := s.Save(ctx, SaveRequest{Config: second})
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Revision)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Config.Version)
}

func TestExpectedRevision(t *testing.T) {
	s := NewConfigStore(NewMemoryCache[Snapshot]())
	ctx := context.Background()
	cfg := defaults.Configuration()

	_, err := s.Save(ctx, SaveRequest{Config: cfg, ExpectedRevision: int64Ptr(0)})
	require.NoError(t, err)

	_, err = s.Save(ctx, SaveRequest{Config: cfg, ExpectedRevision: int64Ptr(0)})
	assert.ErrorIs(t, err, ErrConflict)

	saved, err := s.Save(ctx, SaveRequest{Config: cfg, ExpectedRevision: int64Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Revision)
}

func TestConcurrentSavesAreSerialized(t *testing.T) {
	s := NewConfigStore(NewMemoryCache[Snapshot]())
	ctx := WithTenant(context.Background(), "busy")
	cfg := defaults.Configuration()

	const writers = 20
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(ctx, SaveRequest{Config: cfg})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(writers), loaded.Revision)
}

func TestConcurrentGuardedSavesOneWins(t *testing.T) {
	s := NewConfigStore(NewMemoryCache[Snapshot]())
	ctx := context.Background()
	cfg := defaults.Configuration()

	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(ctx, SaveRequest{Config: cfg, ExpectedRevision: int64Ptr(0)})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(9), conflicts.Load())
}

func TestCatalogLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := NewCatalog(func(ctx context.Context) ([]types.Product, error) {
		calls.Add(1)
		<-release
		return defaults.Catalog(), nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := c.Products(context.Background())
			assert.NoError(t, err)
			assert.Len(t, products, 2)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	_, _ = c.Products(context.Background())
	assert.Equal(t, int32(1), calls.Load())

	c.Invalidate()
	_, _ = c.Products(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

func TestCatalogErrorIsNotCached(t *testing.T) {
	var calls atomic.Int32
	c := NewCatalog(func(ctx context.Context) ([]types.Product, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("backend down")
		}
		return defaults.Catalog(), nil
	})
	_, err := c.Products(context.Background())
	assert.Error(t, err)

	p, ok, err := c.Product(context.Background(), "refill-pack")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, p.Quantity)
}

func TestFileCatalog(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"products":[{"id":"a","name":"A","price":3,"quantity":1}]}`), 0o600))
	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- id: b\n  name: B\n  price: 4.5\n  quantity: 2\n"), 0o600))

	products, err := FileCatalog(jsonPath)(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "a", products[0].ID)

	products, err = FileCatalog(yamlPath)(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 4.5, products[0].Price)

	products, err = FileCatalog("")(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = FileCatalog(filepath.Join(dir, "missing.json"))(context.Background())
	assert.Error(t, err)
}
