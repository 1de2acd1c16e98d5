package types

import "encoding/json"

// CheckoutConfiguration is the persisted root of a checkout page.
// Components, Actions, Integrations, Customization, Localization and Security are
// extension points carried through untouched.
type CheckoutConfiguration struct {
	Version        string          `json:"version,omitempty" jsonschema:"description=Free-form version label; never validated"`
	CheckoutConfig CheckoutConfig  `json:"checkoutConfig"`
	Steps          []Step          `json:"steps" jsonschema:"description=Checkout steps in display order"`
	Components     json.RawMessage `json:"components,omitempty"`
	Actions        json.RawMessage `json:"actions,omitempty"`
	Integrations   json.RawMessage `json:"integrations,omitempty"`
	Customization  json.RawMessage `json:"customization,omitempty"`
	Localization   json.RawMessage `json:"localization,omitempty"`
	Security       json.RawMessage `json:"security,omitempty"`
}

type CheckoutConfig struct {
	Theme         Theme         `json:"theme"`
	Layout        Layout        `json:"layout"`
	ProgressBar   ProgressBar   `json:"progressBar"`
	ShowHeader    bool          `json:"showHeader"`
	StepMode      bool          `json:"stepMode" jsonschema:"description=Render one step at a time instead of a single page"`
	Animations    Animations    `json:"animations"`
	CouponStyling CouponStyling `json:"couponStyling"`
}

type Theme struct {
	Colors       Colors     `json:"colors"`
	Typography   Typography `json:"typography"`
	Spacing      Spacing    `json:"spacing"`
	BorderRadius string     `json:"borderRadius,omitempty"`
	Shadow       string     `json:"shadow,omitempty"`
}

type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Surface    string `json:"surface,omitempty"`
	Text       string `json:"text"`
	Border     string `json:"border,omitempty"`
	Error      string `json:"error,omitempty"`
	Success    string `json:"success,omitempty"`
}

type Typography struct {
	FontFamily        string `json:"fontFamily"`
	FontSize          string `json:"fontSize"`
	HeadingFontFamily string `json:"headingFontFamily,omitempty"`
	LineHeight        string `json:"lineHeight,omitempty"`
}

// Spacing is the five-value spacing scale. Consumers may rely on these keys only.
type Spacing struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
	XL string `json:"xl"`
}

type Layout struct {
	Type             string `json:"type" jsonschema:"enum=single-column,enum=two-column"`
	MaxWidth         string `json:"maxWidth,omitempty"`
	SidebarPosition  string `json:"sidebarPosition,omitempty" jsonschema:"enum=left,enum=right"`
	ShowOrderSummary bool   `json:"showOrderSummary"`
}

type ProgressBar struct {
	Show            bool   `json:"show"`
	Style           string `json:"style,omitempty" jsonschema:"enum=steps,enum=bar,enum=dots"`
	Position        string `json:"position,omitempty" jsonschema:"enum=top,enum=bottom"`
	ShowStepNumbers bool   `json:"showStepNumbers"`
	ShowStepTitles  bool   `json:"showStepTitles"`
}

type Animations struct {
	Enabled        bool   `json:"enabled"`
	Duration       int    `json:"duration,omitempty" jsonschema:"description=Transition duration in milliseconds"`
	Easing         string `json:"easing,omitempty"`
	StepTransition string `json:"stepTransition,omitempty" jsonschema:"enum=slide,enum=fade,enum=none"`
}

type CouponStyling struct {
	Show        bool   `json:"show"`
	Placement   string `json:"placement,omitempty" jsonschema:"enum=summary,enum=payment"`
	ButtonText  string `json:"buttonText,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Styling     Style  `json:"styling,omitempty"`
}

// Style is a free-form bag of presentation properties (colors, widths, fonts).
type Style map[string]any
