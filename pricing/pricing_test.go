package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

var twoWidgets = []types.Product{{ID: "widget", Price: 10, Quantity: 2}}

func TestCalculateOneTime(t *testing.T) {
	got := Calculate(Input{Products: twoWidgets, Model: types.PricingOneTime}, DefaultRates)
	assert.InDelta(t, 20, got.Subtotal, 1e-9)
	assert.InDelta(t, 5.99, got.Shipping, 1e-9)
	assert.InDelta(t, 1.6, got.Tax, 1e-9)
	assert.InDelta(t, 27.59, got.Total, 1e-9)
	assert.Equal(t, "Total", got.Label)
}

func TestCalculatePercentageCoupon(t *testing.T) {
	coupon := &types.Coupon{Code: "SAVE10", Type: types.CouponPercentage, Discount: 10}
	got := Calculate(Input{Products: twoWidgets, Coupon: coupon}, DefaultRates)
	assert.InDelta(t, 2, got.Discount, 1e-9)
	assert.InDelta(t, 1.44, got.Tax, 1e-9)
	assert.InDelta(t, 25.43, got.Total, 1e-9)
}

func TestCalculateYearlyAnnualizesOnlyBase(t *testing.T) {
	got := Calculate(Input{Products: twoWidgets, Model: types.PricingYearly}, DefaultRates)
	assert.InDelta(t, 20, got.Subtotal, 1e-9)
	assert.InDelta(t, 1.6, got.Tax, 1e-9)
	assert.InDelta(t, 247.59, got.Total, 1e-9)
	assert.Equal(t, "Yearly Total", got.Label)

	coupon := &types.Coupon{Type: types.CouponPercentage, Discount: 10}
	got = Calculate(Input{Products: twoWidgets, Coupon: coupon, Model: types.PricingYearly}, DefaultRates)
	assert.InDelta(t, 240+5.99+1.44-2, got.Total, 1e-9)
}

func TestCalculateCustomRates(t *testing.T) {
	got := Calculate(Input{Products: twoWidgets}, Rates{Shipping: 0, TaxRate: 0.2})
	assert.InDelta(t, 24, got.Total, 1e-9)
}

func TestPercentageCoversAddons(t *testing.T) {
	coupon := &types.Coupon{Type: types.CouponPercentage, Discount: 50}
	addons := []types.Addon{{ID: "a", Price: 10, Quantity: 3}, {ID: "b", Price: 5}}
	got := Calculate(Input{Products: twoWidgets, Addons: addons, Coupon: coupon}, DefaultRates)
	assert.InDelta(t, 35, got.AddonsTotal, 1e-9)
	assert.InDelta(t, 27.5, got.Discount, 1e-9)
}

func TestUnknownCouponTypeGivesNoDiscount(t *testing.T) {
	assert.Zero(t, Discount(&types.Coupon{Type: "bogus", Discount: 99}, 100))
	assert.Zero(t, Discount(nil, 100))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Total", Label(types.PricingOneTime))
	assert.Equal(t, "Monthly Total", Label(types.PricingMonthly))
	assert.Equal(t, "Yearly Total", Label(types.PricingYearly))
	assert.Equal(t, "Total", Label(""))
}

func TestSelectPrice(t *testing.T) {
	catalog := defaults.Catalog()

	p, ok := SelectPrice(catalog[0], types.PricingOneTime)
	require.True(t, ok)
	assert.Equal(t, "starter-once", p.ID)

	p, ok = SelectPrice(catalog[0], types.PricingMonthly)
	require.True(t, ok)
	assert.Equal(t, "starter-monthly", p.ID)

	p, ok = SelectPrice(catalog[0], types.PricingYearly)
	require.True(t, ok)
	assert.Equal(t, "starter-yearly", p.ID)

	_, ok = SelectPrice(catalog[1], types.PricingYearly)
	assert.False(t, ok)

	_, ok = SelectPrice(types.Product{ID: "bare", Price: 3}, types.PricingOneTime)
	assert.False(t, ok)
}

func TestReprice(t *testing.T) {
	catalog := defaults.Catalog()
	monthly := Reprice(catalog, types.PricingMonthly)
	assert.Equal(t, 9.0, monthly[0].Price)
	assert.Equal(t, 8.0, monthly[1].Price)
	assert.Equal(t, 49.0, catalog[0].Price)

	yearly := Reprice(catalog, types.PricingYearly)
	assert.Equal(t, 90.0, yearly[0].Price)
	assert.Equal(t, 10.0, yearly[1].Price)
}

func TestLines(t *testing.T) {
	lines := Lines(Input{
		Products: twoWidgets,
		Addons:   []types.Addon{{ID: "gift-wrap", Name: "Gift wrapping", Price: 4.99}},
	})
	require.Len(t, lines, 2)
	assert.Equal(t, "product", lines[0].Kind)
	assert.InDelta(t, 20, lines[0].Amount, 1e-9)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.InDelta(t, 4.99, lines[1].Amount, 1e-9)
}
