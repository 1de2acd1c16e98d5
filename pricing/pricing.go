// Package pricing computes order totals from products, selected addons, an
// optional coupon and the selected pricing model.
package pricing

import (
	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

// Rates holds the order-independent constants.
type Rates struct {
	Shipping float64 `json:"shipping" yaml:"shipping" mapstructure:"shipping"`
	TaxRate  float64 `json:"taxRate" yaml:"tax_rate" mapstructure:"tax_rate"`
}

var DefaultRates = Rates{Shipping: defaults.Shipping, TaxRate: defaults.TaxRate}

type Input struct {
	Products []types.Product    `json:"products"`
	Addons   []types.Addon      `json:"selectedAddons"`
	Coupon   *types.Coupon      `json:"appliedCoupon"`
	Model    types.PricingModel `json:"pricingModel"`
}

type Totals struct {
	Model       types.PricingModel `json:"pricingModel"`
	Subtotal    float64            `json:"subtotal"`
	AddonsTotal float64            `json:"addonsTotal"`
	Shipping    float64            `json:"shipping"`
	Discount    float64            `json:"discount"`
	Tax         float64            `json:"tax"`
	Total       float64            `json:"total"`
	Label       string             `json:"label"`
}

// Calculate computes totals. Values are not rounded.
//
// For the yearly model only the product and addon base is multiplied by
// twelve; shipping, discount and tax stay as computed for a single period.
func Calculate(in Input, rates Rates) Totals {
	subtotal := Subtotal(in.Products)
	addons := AddonsTotal(in.Addons)
	base := subtotal + addons
	discount := Discount(in.Coupon, base)
	tax := (base - discount) * rates.TaxRate

	if in.Model == types.PricingYearly {
		base *= 12
	}
	return Totals{
		Model:       in.Model,
		Subtotal:    subtotal,
		AddonsTotal: addons,
		Shipping:    rates.Shipping,
		Discount:    discount,
		Tax:         tax,
		Total:       base + rates.Shipping + tax - discount,
		Label:       Label(in.Model),
	}
}

func Subtotal(products []types.Product) float64 {
	var sum float64
	for _, p := range products {
		sum += p.Price * float64(p.Quantity)
	}
	return sum
}

// AddonsTotal counts an addon without a quantity once.
func AddonsTotal(addons []types.Addon) float64 {
	var sum float64
	for _, a := range addons {
		sum += a.Price * float64(addonQuantity(a))
	}
	return sum
}

func addonQuantity(a types.Addon) int {
	if a.Quantity == 0 {
		return 1
	}
	return a.Quantity
}

// Discount returns the coupon reduction on base. Fixed discounts are not
// capped and may exceed base.
func Discount(coupon *types.Coupon, base float64) float64 {
	if coupon == nil {
		return 0
	}
	switch coupon.Type {
	case types.CouponPercentage:
		return base * coupon.Discount / 100
	case types.CouponFixed:
		return coupon.Discount
	}
	return 0
}

func Label(model types.PricingModel) string {
	switch model {
	case types.PricingMonthly:
		return "Monthly Total"
	case types.PricingYearly:
		return "Yearly Total"
	}
	return "Total"
}
