package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/pricing"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Pricing: pricing.DefaultRates,
		Coupons: defaults.Coupons(),
		Latency: LatencyConfig{
			CouponLookup: 500 * time.Millisecond,
			Submit:       2 * time.Second,
		},
		Assistant: AssistantConfig{
			Model: "gpt-4o-mini",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// WriteDefault writes a commented default configuration file to path.
func WriteDefault(path string) error {
	content := `# checkoutbuilder configuration
server:
  addr: ":8080"
  request_timeout: 15s
  shutdown_timeout: 10s

# Order pricing constants
pricing:
  shipping: 5.99
  tax_rate: 0.08

# Known coupon codes (type: percentage | fixed)
coupons:
  - code: SAVE10
    discount: 10
    type: percentage
    description: 10% off your order
  - code: FREESHIP
    discount: 5.99
    type: fixed
    description: Free shipping
  - code: WELCOME20
    discount: 20
    type: percentage
    description: 20% off for new customers

# Simulated remote call latency
latency:
  coupon_lookup: 500ms
  submit: 2s

# JSON or YAML product list; empty serves the sample catalog
catalog_file: ""

# Natural-language configuration edits (OpenAI compatible endpoint)
assistant:
  enabled: false
  # api_key: set CHECKOUTBUILDER_ASSISTANT_API_KEY instead
  base_url: ""
  model: gpt-4o-mini

log:
  level: info
  development: false
`
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
