package types

import "encoding/json"

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

type Coupon struct {
	Code        string     `json:"code" yaml:"code" mapstructure:"code"`
	Discount    float64    `json:"discount" yaml:"discount" mapstructure:"discount"`
	Type        CouponType `json:"type" yaml:"type" mapstructure:"type"`
	Description string     `json:"description" yaml:"description" mapstructure:"description"`
}

type PriceType string

const (
	PriceOneTime      PriceType = "one_time"
	PriceSubscription PriceType = "subscription"
)

type Price struct {
	ID            string    `json:"id" yaml:"id"`
	Price         float64   `json:"price" yaml:"price"`
	Type          PriceType `json:"type" yaml:"type"`
	Interval      string    `json:"interval,omitempty" yaml:"interval,omitempty"`
	IntervalCount int       `json:"intervalCount,omitempty" yaml:"intervalCount,omitempty"`
	IsDefault     bool      `json:"isDefault" yaml:"isDefault"`
	IsActive      bool      `json:"isActive" yaml:"isActive"`
}

// Product is a catalog entry; Price and Quantity describe the line in the current order.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string  `json:"image,omitempty" yaml:"image,omitempty"`
	Price       float64 `json:"price" yaml:"price"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Prices      []Price `json:"prices,omitempty" yaml:"prices,omitempty"`
}

type PricingModel string

const (
	PricingOneTime PricingModel = "one-time"
	PricingMonthly PricingModel = "monthly"
	PricingYearly  PricingModel = "yearly"
)

func (m PricingModel) Valid() bool {
	switch m {
	case PricingOneTime, PricingMonthly, PricingYearly:
		return true
	}
	return false
}

// FormData holds submitted values keyed by field id. Values may be strings,
// string slices, booleans, numbers or file descriptors depending on field type.
type FormData map[string]any

// Clone returns a shallow copy.
func (d FormData) Clone() FormData {
	out := make(FormData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// FieldErrors maps field id to an error message. An empty message means the
// field was validated and passed; it is encoded as JSON null.
type FieldErrors map[string]string

func (e FieldErrors) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(e))
	for k, v := range e {
		if v == "" {
			out[k] = nil
			continue
		}
		msg := v
		out[k] = &msg
	}
	return json.Marshal(out)
}

func (e *FieldErrors) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FieldErrors, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = *v
	}
	*e = out
	return nil
}

// Any reports whether at least one entry carries a message.
func (e FieldErrors) Any() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}
