package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// readJSON decodes a JSON or YAML file into dst. YAML is converted to JSON
// first so the json tags and custom decoders of dst apply.
func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isYAML(path) {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		if data, err = sonic.Marshal(doc); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := sonic.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// readConfiguration loads a checkout configuration; an empty path yields the
// default one.
func readConfiguration(path string) (*types.CheckoutConfiguration, error) {
	if path == "" {
		return defaults.Configuration(), nil
	}
	var cfg types.CheckoutConfiguration
	if err := readJSON(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func writeConfiguration(path string, cfg *types.CheckoutConfiguration) error {
	data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// orderFile describes a shopper's order for the price and checkout commands.
type orderFile struct {
	FormData       types.FormData     `json:"formData"`
	Products       []types.Product    `json:"products"`
	SelectedAddons []types.Addon      `json:"selectedAddons"`
	Coupon         string             `json:"coupon"`
	PricingModel   types.PricingModel `json:"pricingModel"`
}

func readOrder(path string) (*orderFile, error) {
	var order orderFile
	if err := readJSON(path, &order); err != nil {
		return nil, err
	}
	if order.PricingModel == "" {
		order.PricingModel = types.PricingOneTime
	}
	if !order.PricingModel.Valid() {
		return nil, fmt.Errorf("unknown pricing model %q", order.PricingModel)
	}
	return &order, nil
}
