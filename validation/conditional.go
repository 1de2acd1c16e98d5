package validation

import (
	"fmt"
	"reflect"

	"github.com/tbxark/checkoutbuilder/types"
)

// IsVisible reports whether field should be shown for data. A field without
// a conditional is always visible. Operators other than "equals" yield
// ErrUnsupportedOperator and false.
func IsVisible(field types.Field, data types.FormData) (bool, error) {
	return Holds(field.Conditional, data)
}

// Holds evaluates cond against data. A nil conditional holds.
func Holds(cond *types.Conditional, data types.FormData) (bool, error) {
	if cond == nil {
		return true, nil
	}
	if cond.Operator != types.OperatorEquals {
		return false, fmt.Errorf("%w: %q", ErrUnsupportedOperator, cond.Operator)
	}
	return equal(data[cond.Field], cond.Value), nil
}

func equal(a, b any) bool {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
