package pricing

import "github.com/tbxark/checkoutbuilder/types"

// SelectPrice picks the active catalog price matching model: the default
// one-time price for one-time, or a subscription billed every month or year.
func SelectPrice(product types.Product, model types.PricingModel) (types.Price, bool) {
	var fallback *types.Price
	for i := range product.Prices {
		p := product.Prices[i]
		if !p.IsActive {
			continue
		}
		switch model {
		case types.PricingMonthly, types.PricingYearly:
			if p.Type == types.PriceSubscription && p.Interval == interval(model) && max(p.IntervalCount, 1) == 1 {
				return p, true
			}
		default:
			if p.Type != types.PriceOneTime {
				continue
			}
			if p.IsDefault {
				return p, true
			}
			if fallback == nil {
				fallback = &product.Prices[i]
			}
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return types.Price{}, false
}

func interval(model types.PricingModel) string {
	if model == types.PricingYearly {
		return "year"
	}
	return "month"
}

// Reprice returns copies of products whose Price is set from the catalog
// price matching model. Products without a match keep their price.
func Reprice(products []types.Product, model types.PricingModel) []types.Product {
	out := make([]types.Product, len(products))
	for i, p := range products {
		if price, ok := SelectPrice(p, model); ok {
			p.Price = price.Price
		}
		out[i] = p
	}
	return out
}

// Line is one row of an order summary.
type Line struct {
	Kind     string  `json:"kind"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Unit     float64 `json:"unit"`
	Amount   float64 `json:"amount"`
}

// Lines lists products then addons in order.
func Lines(in Input) []Line {
	out := make([]Line, 0, len(in.Products)+len(in.Addons))
	for _, p := range in.Products {
		out = append(out, Line{Kind: "product", ID: p.ID, Name: p.Name, Quantity: p.Quantity, Unit: p.Price, Amount: p.Price * float64(p.Quantity)})
	}
	for _, a := range in.Addons {
		qty := addonQuantity(a)
		out = append(out, Line{Kind: "addon", ID: a.ID, Name: a.Name, Quantity: qty, Unit: a.Price, Amount: a.Price * float64(qty)})
	}
	return out
}
