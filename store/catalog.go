package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

// CatalogSource loads the product list.
type CatalogSource func(ctx context.Context) ([]types.Product, error)

// StaticCatalog serves a fixed list.
func StaticCatalog(products []types.Product) CatalogSource {
	return func(ctx context.Context) ([]types.Product, error) {
		return slices.Clone(products), nil
	}
}

// FileCatalog reads products from a JSON or YAML file. The file may hold a
// bare list or an object with a "products" key. An empty path serves the
// sample catalog.
func FileCatalog(path string) CatalogSource {
	if path == "" {
		return StaticCatalog(defaults.Catalog())
	}
	return func(ctx context.Context) ([]types.Product, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		var doc struct {
			Products []types.Product `json:"products" yaml:"products"`
		}
		ext := strings.ToLower(filepath.Ext(path))
		isYAML := ext == ".yaml" || ext == ".yml"
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") || (isYAML && strings.HasPrefix(trimmed, "-")) {
			if isYAML {
				err = yaml.Unmarshal(data, &doc.Products)
			} else {
				err = sonic.Unmarshal(data, &doc.Products)
			}
		} else if isYAML {
			err = yaml.Unmarshal(data, &doc)
		} else {
			err = sonic.Unmarshal(data, &doc)
		}
		if err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
		return doc.Products, nil
	}
}

// Catalog caches the result of its source. Concurrent first loads share one
// call.
type Catalog struct {
	source CatalogSource
	group  singleflight.Group

	mu       sync.RWMutex
	products []types.Product
	loaded   bool
}

func NewCatalog(source CatalogSource) *Catalog {
	return &Catalog{source: source}
}

func (c *Catalog) Products(ctx context.Context) ([]types.Product, error) {
	c.mu.RLock()
	if c.loaded {
		out := slices.Clone(c.products)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("catalog", func() (any, error) {
		products, err := c.source(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.products, c.loaded = products, true
		c.mu.Unlock()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]types.Product)), nil
}

// Product returns the catalog entry with id.
func (c *Catalog) Product(ctx context.Context, id string) (types.Product, bool, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return types.Product{}, false, err
	}
	i := slices.IndexFunc(products, func(p types.Product) bool { return p.ID == id })
	if i < 0 {
		return types.Product{}, false, nil
	}
	return products[i], true, nil
}

// Invalidate drops the cached list so the next call reloads it.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.products, c.loaded = nil, false
	c.mu.Unlock()
}
