package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tbxark/checkoutbuilder/types"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5.99, cfg.Pricing.Shipping)
	assert.Equal(t, 0.08, cfg.Pricing.TaxRate)
	assert.Len(t, cfg.Coupons, 3)
	assert.False(t, cfg.Assistant.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileOverrides(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := map[string]any{
		"server":  map[string]any{"addr": "127.0.0.1:9000", "request_timeout": "3s"},
		"pricing": map[string]any{"shipping": 0, "tax_rate": 0.2},
		"coupons": []map[string]any{{"code": "HALF", "discount": 50, "type": "percentage"}},
		"latency": map[string]any{"coupon_lookup": "0s"},
	}
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 0.0, cfg.Pricing.Shipping)
	assert.Equal(t, 0.2, cfg.Pricing.TaxRate)
	require.Len(t, cfg.Coupons, 1)
	assert.Equal(t, types.CouponPercentage, cfg.Coupons[0].Type)
	assert.Zero(t, cfg.Latency.CouponLookup)
	assert.Equal(t, 2*time.Second, cfg.Latency.Submit)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHECKOUTBUILDER_SERVER_ADDR", ":9999")
	t.Setenv("CHECKOUTBUILDER_PRICING_TAX_RATE", "0.1")
	t.Setenv("CHECKOUTBUILDER_ASSISTANT_ENABLED", "true")
	t.Setenv("CHECKOUTBUILDER_ASSISTANT_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 0.1, cfg.Pricing.TaxRate)
	assert.True(t, cfg.Assistant.Enabled)
	assert.Equal(t, "sk-test", cfg.Assistant.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Server.Addr = ""
	cfg.Pricing.TaxRate = 1.5
	cfg.Coupons = append(cfg.Coupons, types.Coupon{Code: "SAVE10", Type: "bogus"})
	cfg.Assistant.Enabled = true

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"server.addr", "tax_rate", "duplicate code", "unknown type", "api_key"} {
		assert.Contains(t, err.Error(), want)
	}
}
