// Package selection tracks which addons are in the order and which coupon is
// applied.
//
// An addon is either unselected or selected with a quantity of at least one.
// Selection is by id; deselecting discards the quantity.
package selection

import (
	"errors"
	"slices"

	"github.com/tbxark/checkoutbuilder/types"
)

type limitError struct{}

func (limitError) Error() string { return "addon selection limit reached" }
func (limitError) Kind() string  { return "selection_limit" }

// ErrSelectionLimit is returned when selecting would exceed maxSelections.
var ErrSelectionLimit = limitError{}

var ErrNotSelected = errors.New("addon not selected")

// Cart is an immutable list of selected addons in selection order.
type Cart struct {
	Selected []types.Addon `json:"selectedAddons"`
}

func (c Cart) index(id string) int {
	return slices.IndexFunc(c.Selected, func(a types.Addon) bool { return a.ID == id })
}

func (c Cart) IsSelected(id string) bool {
	return c.index(id) >= 0
}

// Quantity returns the selected quantity of id, or 0.
func (c Cart) Quantity(id string) int {
	if i := c.index(id); i >= 0 {
		return c.Selected[i].Quantity
	}
	return 0
}

// Toggle deselects addon if it is selected, otherwise selects it with
// quantity 1. A new selection is refused with ErrSelectionLimit once the cart
// holds maxSelections addons; maxSelections <= 0 means no limit.
func (c Cart) Toggle(addon types.Addon, maxSelections int) (Cart, error) {
	if i := c.index(addon.ID); i >= 0 {
		return Cart{Selected: slices.Delete(slices.Clone(c.Selected), i, i+1)}, nil
	}
	if maxSelections > 0 && len(c.Selected) >= maxSelections {
		return c, ErrSelectionLimit
	}
	addon.Quantity = 1
	return Cart{Selected: append(slices.Clone(c.Selected), addon)}, nil
}

// SetQuantity changes the quantity of a selected addon, clamped to
// [1, addon.QuantityLimit()].
func (c Cart) SetQuantity(id string, qty int) (Cart, error) {
	i := c.index(id)
	if i < 0 {
		return c, ErrNotSelected
	}
	selected := slices.Clone(c.Selected)
	selected[i].Quantity = min(max(qty, 1), selected[i].QuantityLimit())
	return Cart{Selected: selected}, nil
}
