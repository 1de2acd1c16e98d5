package treepath

import (
	"fmt"
	"reflect"

	"github.com/tbxark/checkoutbuilder/types"
)

// GetConfig resolves path against the JSON form of cfg.
func GetConfig(cfg *types.CheckoutConfiguration, path string) (any, bool, error) {
	tree, err := types.ToTree(cfg)
	if err != nil {
		return nil, false, err
	}
	value, ok := Get(tree, path)
	return value, ok, nil
}

// SetConfig stores value at path and decodes the result into a new typed
// configuration. cfg itself is left untouched. Keys the typed configuration
// has no place for are reported as ErrUnknownKey instead of being dropped.
func SetConfig(cfg *types.CheckoutConfiguration, path string, value any) (*types.CheckoutConfiguration, error) {
	tree, err := types.ToTree(cfg)
	if err != nil {
		return nil, err
	}
	updated, err := Set(tree, path, value)
	if err != nil {
		return nil, err
	}
	out, err := types.FromTree(updated)
	if err != nil {
		return nil, err
	}
	if emptyJSON(value) {
		// omitempty fields read back as absent
		return out, nil
	}
	stored, err := types.ToTree(out)
	if err != nil {
		return nil, err
	}
	if _, ok := Get(stored, path); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, path)
	}
	return out, nil
}

func emptyJSON(value any) bool {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return v.IsZero()
}

// ConfigPointer converts path into a JSON pointer against cfg.
func ConfigPointer(cfg *types.CheckoutConfiguration, path string) (string, error) {
	tree, err := types.ToTree(cfg)
	if err != nil {
		return "", err
	}
	return Pointer(tree, path)
}
