// Package defaults provides the reference checkout configuration, coupon list
// and sample catalog used when nothing has been saved yet.
package defaults

import "github.com/tbxark/checkoutbuilder/types"

const (
	Shipping = 5.99
	TaxRate  = 0.08
)

// Configuration returns a fresh copy of the reference four-step checkout.
func Configuration() *types.CheckoutConfiguration {
	return &types.CheckoutConfiguration{
		Version: "1.0.0",
		CheckoutConfig: types.CheckoutConfig{
			Theme: types.Theme{
				Colors: types.Colors{
					Primary:    "#3b82f6",
					Secondary:  "#64748b",
					Background: "#ffffff",
					Surface:    "#f8fafc",
					Text:       "#0f172a",
					Border:     "#e2e8f0",
					Error:      "#ef4444",
					Success:    "#22c55e",
				},
				Typography: types.Typography{
					FontFamily: "Inter, sans-serif",
					FontSize:   "16px",
					LineHeight: "1.5",
				},
				Spacing: types.Spacing{
					XS: "4px",
					SM: "8px",
					MD: "16px",
					LG: "24px",
					XL: "32px",
				},
				BorderRadius: "8px",
				Shadow:       "0 1px 3px rgba(0,0,0,0.1)",
			},
			Layout: types.Layout{
				Type:             "two-column",
				MaxWidth:         "1200px",
				SidebarPosition:  "right",
				ShowOrderSummary: true,
			},
			ProgressBar: types.ProgressBar{
				Show:            true,
				Style:           "steps",
				Position:        "top",
				ShowStepNumbers: true,
				ShowStepTitles:  true,
			},
			ShowHeader: true,
			StepMode:   true,
			Animations: types.Animations{
				Enabled:        true,
				Duration:       300,
				Easing:         "ease-in-out",
				StepTransition: "slide",
			},
			CouponStyling: types.CouponStyling{
				Show:        true,
				Placement:   "summary",
				ButtonText:  "Apply",
				Placeholder: "Enter coupon code",
			},
		},
		Steps: []types.Step{
			customerStep(),
			paymentStep(),
			addonStep(),
			reviewStep(),
		},
	}
}

func customerStep() types.Step {
	return types.Step{
		ID:          "customer-info",
		Title:       "Customer Information",
		Description: "Tell us who you are and where to ship",
		Order:       intPtr(1),
		Sections: []types.Section{
			{
				ID:    "contact",
				Title: "Contact",
				Fields: []types.Field{
					{
						ID:          "email",
						Type:        types.FieldEmail,
						Label:       "Email",
						Placeholder: "you@example.com",
						Required:    true,
						Validation: &types.ValidationRules{
							Pattern:      `^[^\s@]+@[^\s@]+\.[^\s@]+$`,
							ErrorMessage: "Please enter a valid email address",
						},
					},
					{
						ID:          "phone",
						Type:        types.FieldTel,
						Label:       "Phone",
						Placeholder: "+1 555 555 5555",
						Validation: &types.ValidationRules{
							Pattern: `^\+?[0-9 ()-]{7,20}$`,
						},
					},
					{
						ID:       "accountType",
						Type:     types.FieldRadio,
						Label:    "Account type",
						Required: true,
						Options: types.Options{
							{Value: "personal", Label: "Personal"},
							{Value: "business", Label: "Business"},
						},
						DefaultValue: "personal",
					},
					{
						ID:       "companyName",
						Type:     types.FieldText,
						Label:    "Company name",
						Required: true,
						Conditional: &types.Conditional{
							Field:    "accountType",
							Operator: types.OperatorEquals,
							Value:    "business",
						},
					},
				},
			},
			{
				ID:    "shipping-address",
				Title: "Shipping Address",
				Fields: []types.Field{
					{ID: "firstName", Type: types.FieldText, Label: "First name", Required: true},
					{ID: "lastName", Type: types.FieldText, Label: "Last name", Required: true},
					{
						ID:       "address",
						Type:     types.FieldText,
						Label:    "Address",
						Required: true,
						Validation: &types.ValidationRules{
							MinLength: intPtr(5),
						},
					},
					{ID: "city", Type: types.FieldText, Label: "City", Required: true},
					{
						ID:       "zipCode",
						Type:     types.FieldText,
						Label:    "ZIP code",
						Required: true,
						Validation: &types.ValidationRules{
							Pattern:      `^\d{5}(-\d{4})?$`,
							ErrorMessage: "Please enter a valid ZIP code",
						},
					},
					{
						ID:       "country",
						Type:     types.FieldSelect,
						Label:    "Country",
						Required: true,
						Options: types.Options{
							{Value: "US", Label: "United States"},
							{Value: "CA", Label: "Canada"},
							{Value: "GB", Label: "United Kingdom"},
						},
						DefaultValue: "US",
					},
				},
			},
		},
	}
}

func paymentStep() types.Step {
	card := &types.Conditional{Field: "paymentMethod", Operator: types.OperatorEquals, Value: "card"}
	return types.Step{
		ID:          "payment",
		Title:       "Payment",
		Description: "Choose how you would like to pay",
		Order:       intPtr(2),
		Sections: []types.Section{
			{
				ID:    "payment-method",
				Title: "Payment Method",
				Fields: []types.Field{
					{
						ID:       "paymentMethod",
						Type:     types.FieldRadio,
						Label:    "Payment method",
						Required: true,
						Options: types.Options{
							{Value: "card", Label: "Credit card"},
							{Value: "paypal", Label: "PayPal"},
						},
						DefaultValue: "card",
					},
				},
			},
			{
				ID:    "card-details",
				Title: "Card Details",
				Fields: []types.Field{
					{
						ID:          "cardNumber",
						Type:        types.FieldCard,
						Label:       "Card number",
						Placeholder: "1234 5678 9012 3456",
						Required:    true,
						Conditional: card,
						Validation: &types.ValidationRules{
							Pattern:      `^[0-9 ]{13,23}$`,
							ErrorMessage: "Please enter a valid card number",
						},
					},
					{
						ID:          "expiry",
						Type:        types.FieldText,
						Label:       "Expiry",
						Placeholder: "MM/YY",
						Required:    true,
						Conditional: card,
						Validation: &types.ValidationRules{
							Pattern:      `^(0[1-9]|1[0-2])/\d{2}$`,
							ErrorMessage: "Use the MM/YY format",
						},
					},
					{
						ID:          "cvc",
						Type:        types.FieldText,
						Label:       "CVC",
						Placeholder: "123",
						Required:    true,
						Conditional: card,
						Validation: &types.ValidationRules{
							Pattern: `^\d{3,4}$`,
						},
					},
				},
			},
		},
	}
}

func addonStep() types.Step {
	return types.Step{
		ID:          "addons",
		Title:       "Enhance Your Order",
		Description: "Optional extras",
		Order:       intPtr(3),
		Required:    boolPtr(false),
		Sections: []types.Section{
			{
				ID:            "extras",
				Title:         "Popular add-ons",
				DisplayType:   "cards",
				MaxSelections: 2,
				Addons: []types.Addon{
					{
						ID:          "extended-warranty",
						Name:        "Extended warranty",
						Description: "Two additional years of coverage",
						Price:       29.99,
						Type:        "one-time",
						Category:    "protection",
						MaxQuantity: 1,
					},
					{
						ID:          "gift-wrap",
						Name:        "Gift wrapping",
						Description: "Premium paper and a handwritten note",
						Price:       4.99,
						Type:        "one-time",
						Category:    "gifting",
					},
					{
						ID:          "priority-support",
						Name:        "Priority support",
						Description: "Skip the queue for a month",
						Price:       9.99,
						Type:        "recurring",
						Category:    "service",
						MaxQuantity: 3,
					},
				},
			},
		},
	}
}

func reviewStep() types.Step {
	return types.Step{
		ID:          "review",
		Title:       "Review & Confirm",
		Description: "Check your order before placing it",
		Order:       intPtr(4),
		Sections: []types.Section{
			{
				ID:    "notes",
				Title: "Order notes",
				Fields: []types.Field{
					{
						ID:          "orderNotes",
						Type:        types.FieldTextarea,
						Label:       "Notes",
						Placeholder: "Anything we should know?",
						Validation: &types.ValidationRules{
							MaxLength: intPtr(500),
						},
					},
					{
						ID:       "terms",
						Type:     types.FieldCheckbox,
						Label:    "I agree to the terms and conditions",
						Required: true,
						Validation: &types.ValidationRules{
							ErrorMessage: "You must accept the terms to continue",
						},
					},
				},
			},
		},
	}
}

// Coupons returns the known coupon codes.
func Coupons() []types.Coupon {
	return []types.Coupon{
		{Code: "SAVE10", Discount: 10, Type: types.CouponPercentage, Description: "10% off your order"},
		{Code: "FREESHIP", Discount: Shipping, Type: types.CouponFixed, Description: "Free shipping"},
		{Code: "WELCOME20", Discount: 20, Type: types.CouponPercentage, Description: "20% off for new customers"},
	}
}

// Catalog returns the sample product catalog.
func Catalog() []types.Product {
	return []types.Product{
		{
			ID:          "starter-kit",
			Name:        "Starter Kit",
			Description: "Everything you need to get going",
			Price:       49,
			Quantity:    1,
			Prices: []types.Price{
				{ID: "starter-once", Price: 49, Type: types.PriceOneTime, IsDefault: true, IsActive: true},
				{ID: "starter-monthly", Price: 9, Type: types.PriceSubscription, Interval: "month", IntervalCount: 1, IsActive: true},
				{ID: "starter-yearly", Price: 90, Type: types.PriceSubscription, Interval: "year", IntervalCount: 1, IsActive: true},
			},
		},
		{
			ID:          "refill-pack",
			Name:        "Refill Pack",
			Description: "Monthly consumables",
			Price:       10,
			Quantity:    2,
			Prices: []types.Price{
				{ID: "refill-once", Price: 10, Type: types.PriceOneTime, IsDefault: true, IsActive: true},
				{ID: "refill-monthly", Price: 8, Type: types.PriceSubscription, Interval: "month", IntervalCount: 1, IsActive: true},
				{ID: "refill-legacy", Price: 12, Type: types.PriceOneTime, IsActive: false},
			},
		},
	}
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
