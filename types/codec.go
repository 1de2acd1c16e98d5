package types

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
)

func Encode(cfg *CheckoutConfiguration) ([]byte, error) {
	data, err := sonic.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (*CheckoutConfiguration, error) {
	var cfg CheckoutConfiguration
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

// Clone deep-copies cfg through the codec.
func Clone(cfg *CheckoutConfiguration) (*CheckoutConfiguration, error) {
	data, err := Encode(cfg)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// ToTree converts cfg into its generic JSON form (maps, slices, float64s).
func ToTree(cfg *CheckoutConfiguration) (any, error) {
	data, err := Encode(cfg)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := sonic.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration tree: %w", err)
	}
	return tree, nil
}

// FromTree converts a generic JSON tree back into a typed configuration.
func FromTree(tree any) (*CheckoutConfiguration, error) {
	data, err := sonic.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration tree: %w", err)
	}
	cfg, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("type mismatch: tree is not a valid configuration: %w", err)
	}
	return cfg, nil
}

func JSONSchema() (string, error) {
	schema := jsonschema.Reflect(&CheckoutConfiguration{})
	schema.Title = "Checkout configuration"
	schema.Description = "Steps, sections, fields, addons and presentation settings of a multi-step checkout page."
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(schemaBytes), nil
}
