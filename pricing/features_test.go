package pricing

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/cucumber/godog"

	"github.com/tbxark/checkoutbuilder/types"
)

type pricingTestContext struct {
	rates  Rates
	input  Input
	totals Totals
}

func (c *pricingTestContext) reset() {
	c.rates = Rates{}
	c.input = Input{}
	c.totals = Totals{}
}

func (c *pricingTestContext) theDefaultRates() error {
	c.rates = DefaultRates
	return nil
}

func (c *pricingTestContext) aProductPricedWithQuantity(id string, price float64, qty int) error {
	c.input.Products = append(c.input.Products, types.Product{ID: id, Name: id, Price: price, Quantity: qty})
	return nil
}

func (c *pricingTestContext) theCouponGivingPercent(code string, discount float64) error {
	c.input.Coupon = &types.Coupon{Code: code, Discount: discount, Type: types.CouponPercentage}
	return nil
}

func (c *pricingTestContext) theCouponGivingOff(code string, discount float64) error {
	c.input.Coupon = &types.Coupon{Code: code, Discount: discount, Type: types.CouponFixed}
	return nil
}

func (c *pricingTestContext) theAddonPriced(id string, price float64) error {
	c.input.Addons = append(c.input.Addons, types.Addon{ID: id, Name: id, Price: price})
	return nil
}

func (c *pricingTestContext) theAddonPricedWithQuantity(id string, price float64, qty int) error {
	c.input.Addons = append(c.input.Addons, types.Addon{ID: id, Name: id, Price: price, Quantity: qty})
	return nil
}

func (c *pricingTestContext) iCalculateTheTotalsForTheModel(model string) error {
	c.input.Model = types.PricingModel(model)
	c.totals = Calculate(c.input, c.rates)
	return nil
}

func approx(name string, got, want float64) error {
	if math.Abs(got-want) > 1e-9 {
		return fmt.Errorf("expected %s %v, got %v", name, want, got)
	}
	return nil
}

func (c *pricingTestContext) theSubtotalIs(v float64) error { return approx("subtotal", c.totals.Subtotal, v) }
func (c *pricingTestContext) theAddonsTotalIs(v float64) error {
	return approx("addons total", c.totals.AddonsTotal, v)
}
func (c *pricingTestContext) theShippingIs(v float64) error { return approx("shipping", c.totals.Shipping, v) }
func (c *pricingTestContext) theDiscountIs(v float64) error { return approx("discount", c.totals.Discount, v) }
func (c *pricingTestContext) theTaxIs(v float64) error      { return approx("tax", c.totals.Tax, v) }
func (c *pricingTestContext) theTotalIs(v float64) error    { return approx("total", c.totals.Total, v) }

func (c *pricingTestContext) theTotalLabelIs(label string) error {
	if c.totals.Label != label {
		return fmt.Errorf("expected label %q, got %q", label, c.totals.Label)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the default rates$`, tc.theDefaultRates)
	ctx.Step(`^a product "([^"]*)" priced ([\d.]+) with quantity (\d+)$`, tc.aProductPricedWithQuantity)
	ctx.Step(`^the coupon "([^"]*)" giving ([\d.]+) percent$`, tc.theCouponGivingPercent)
	ctx.Step(`^the coupon "([^"]*)" giving ([\d.]+) off$`, tc.theCouponGivingOff)
	ctx.Step(`^the addon "([^"]*)" priced ([\d.]+)$`, tc.theAddonPriced)
	ctx.Step(`^the addon "([^"]*)" priced ([\d.]+) with quantity (\d+)$`, tc.theAddonPricedWithQuantity)

	// When steps
	ctx.Step(`^I calculate the totals for the "([^"]*)" model$`, tc.iCalculateTheTotalsForTheModel)

	// Then steps
	ctx.Step(`^the subtotal is ([\d.]+)$`, tc.theSubtotalIs)
	ctx.Step(`^the addons total is ([\d.]+)$`, tc.theAddonsTotalIs)
	ctx.Step(`^the shipping is ([\d.]+)$`, tc.theShippingIs)
	ctx.Step(`^the discount is ([\d.]+)$`, tc.theDiscountIs)
	ctx.Step(`^the tax is ([\d.]+)$`, tc.theTaxIs)
	ctx.Step(`^the total is ([\d.]+)$`, tc.theTotalIs)
	ctx.Step(`^the total label is "([^"]*)"$`, tc.theTotalLabelIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/pricing.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
