package config

import (
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "CHECKOUTBUILDER"

// Load reads path, if given, over the defaults and applies environment
// overrides such as CHECKOUTBUILDER_SERVER_ADDR. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	if v.IsSet("coupons") {
		// a configured list replaces the defaults instead of merging into them
		cfg.Coupons = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper registers every scalar key with its default so AutomaticEnv can
// see it.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("pricing.shipping", cfg.Pricing.Shipping)
	v.SetDefault("pricing.tax_rate", cfg.Pricing.TaxRate)
	v.SetDefault("latency.coupon_lookup", cfg.Latency.CouponLookup)
	v.SetDefault("latency.submit", cfg.Latency.Submit)
	v.SetDefault("catalog_file", cfg.CatalogFile)
	v.SetDefault("assistant.enabled", cfg.Assistant.Enabled)
	v.SetDefault("assistant.api_key", cfg.Assistant.APIKey)
	v.SetDefault("assistant.base_url", cfg.Assistant.BaseURL)
	v.SetDefault("assistant.model", cfg.Assistant.Model)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.development", cfg.Log.Development)
	return v
}
