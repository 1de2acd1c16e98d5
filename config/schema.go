// Package config loads service settings from YAML and CHECKOUTBUILDER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/tbxark/checkoutbuilder/pricing"
	"github.com/tbxark/checkoutbuilder/types"
)

type Config struct {
	Server      ServerConfig    `mapstructure:"server" yaml:"server"`
	Pricing     pricing.Rates   `mapstructure:"pricing" yaml:"pricing"`
	Coupons     []types.Coupon  `mapstructure:"coupons" yaml:"coupons"`
	Latency     LatencyConfig   `mapstructure:"latency" yaml:"latency"`
	CatalogFile string          `mapstructure:"catalog_file" yaml:"catalog_file"`
	Assistant   AssistantConfig `mapstructure:"assistant" yaml:"assistant"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LatencyConfig simulates remote calls in coupon lookup and order submission.
type LatencyConfig struct {
	CouponLookup time.Duration `mapstructure:"coupon_lookup" yaml:"coupon_lookup"`
	Submit       time.Duration `mapstructure:"submit" yaml:"submit"`
}

type AssistantConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Model   string `mapstructure:"model" yaml:"model"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Pricing.Shipping < 0 {
		errs = append(errs, fmt.Errorf("pricing.shipping is negative: %v", c.Pricing.Shipping))
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		errs = append(errs, fmt.Errorf("pricing.tax_rate must be in [0, 1): %v", c.Pricing.TaxRate))
	}
	seen := map[string]bool{}
	for i, cp := range c.Coupons {
		switch {
		case cp.Code == "":
			errs = append(errs, fmt.Errorf("coupons[%d]: empty code", i))
		case seen[cp.Code]:
			errs = append(errs, fmt.Errorf("coupons[%d]: duplicate code %q", i, cp.Code))
		}
		seen[cp.Code] = true
		if cp.Type != types.CouponPercentage && cp.Type != types.CouponFixed {
			errs = append(errs, fmt.Errorf("coupons[%d]: unknown type %q", i, cp.Type))
		}
	}
	if c.Assistant.Enabled && c.Assistant.APIKey == "" {
		errs = append(errs, errors.New("assistant.api_key is required when the assistant is enabled"))
	}
	return errors.Join(errs...)
}
