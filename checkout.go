package checkoutbuilder

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/mutate"
	"github.com/tbxark/checkoutbuilder/pricing"
	"github.com/tbxark/checkoutbuilder/selection"
	"github.com/tbxark/checkoutbuilder/types"
	"github.com/tbxark/checkoutbuilder/validation"
)

// State is a copy of the shopper session.
type State struct {
	CurrentStep    int                `json:"currentStep"`
	FormData       types.FormData     `json:"formData"`
	Errors         types.FieldErrors  `json:"errors"`
	SelectedAddons []types.Addon      `json:"selectedAddons"`
	AppliedCoupon  *types.Coupon      `json:"appliedCoupon"`
	CouponError    string             `json:"couponError,omitempty"`
	PricingModel   types.PricingModel `json:"pricingModel"`
	Products       []types.Product    `json:"products"`
	Phase          types.Phase        `json:"phase"`
	ApplyingCoupon bool               `json:"applyingCoupon"`
	SubmitError    string             `json:"submitError,omitempty"`
	Totals         pricing.Totals     `json:"totals"`
}

func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	errs := make(types.FieldErrors, len(b.errors))
	for k, v := range b.errors {
		errs[k] = v
	}
	return State{
		CurrentStep:    b.currentStep,
		FormData:       b.formData.Clone(),
		Errors:         errs,
		SelectedAddons: slices.Clone(b.cart.Selected),
		AppliedCoupon:  copyCoupon(b.coupon),
		CouponError:    b.couponError,
		PricingModel:   b.model,
		Products:       slices.Clone(b.products),
		Phase:          b.phase,
		ApplyingCoupon: b.applying,
		SubmitError:    b.submitError,
		Totals:         b.totalsLocked(),
	}
}

func copyCoupon(c *types.Coupon) *types.Coupon {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func (b *Builder) CurrentStep() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStep
}

func (b *Builder) Submitting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase == types.PhaseSubmitting
}

func (b *Builder) ApplyingCoupon() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applying
}

// SetValue stores a field value. A pending error on the field is cleared
// without validating the new value.
func (b *Builder) SetValue(fieldID string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.formData[fieldID] = value
	if msg, ok := b.errors[fieldID]; ok && msg != "" {
		b.errors[fieldID] = ""
	}
}

// ValidateStep validates the current step and records the result.
func (b *Builder) ValidateStep() types.FieldErrors {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.validateLocked()
}

func (b *Builder) validateLocked() types.FieldErrors {
	if b.currentStep >= len(b.cfg.Steps) {
		return types.FieldErrors{}
	}
	errs := b.validator.ValidateStep(b.cfg.Steps[b.currentStep], b.formData)
	for id, msg := range errs {
		b.errors[id] = msg
	}
	return errs
}

// NextStep validates the current step. When it passes, the session moves to
// the next step, or submits the order from the last one.
func (b *Builder) NextStep(ctx context.Context) (validation.Transition, error) {
	b.mu.Lock()
	errs := b.validateLocked()
	t := validation.Advance(b.currentStep, len(b.cfg.Steps), errs)
	if t == validation.Next {
		b.currentStep++
	}
	b.mu.Unlock()

	if t == validation.Submit {
		return t, b.Submit(ctx)
	}
	return t, nil
}

// PrevStep moves back one step without validating.
func (b *Builder) PrevStep() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentStep == 0 {
		return false
	}
	b.currentStep--
	return true
}

// ToggleAddon selects or deselects an addon of the configuration, honouring
// the maxSelections of its section.
func (b *Builder) ToggleAddon(addonID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	addon, section, ok := mutate.FindAddon(b.cfg, addonID)
	if !ok {
		return fmt.Errorf("addon %q: %w", addonID, mutate.ErrNotFound)
	}
	cart, err := b.cart.Toggle(addon, section.MaxSelections)
	if err != nil {
		return err
	}
	b.cart = cart
	return nil
}

func (b *Builder) SetAddonQuantity(addonID string, qty int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cart, err := b.cart.SetQuantity(addonID, qty)
	if err != nil {
		return err
	}
	b.cart = cart
	return nil
}

// ApplyCoupon looks code up and, if found, replaces any applied coupon. An
// unknown code records "Invalid coupon code" as the coupon error.
func (b *Builder) ApplyCoupon(ctx context.Context, code string) error {
	b.mu.Lock()
	if b.applying {
		b.mu.Unlock()
		return ErrBusy
	}
	b.applying = true
	b.couponError = ""
	b.mu.Unlock()

	c, err := b.coupons.Lookup(ctx, code)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.applying = false
	switch {
	case err == nil:
		b.coupon = &c
		return nil
	case errors.Is(err, selection.ErrInvalidCoupon):
		b.couponError = err.Error()
	default:
		b.logger.Error("coupon lookup", zap.String("code", code), zap.Error(err))
		b.couponError = "Could not apply coupon, please try again"
	}
	return err
}

func (b *Builder) RemoveCoupon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.coupon = nil
	b.couponError = ""
}

func (b *Builder) SetPricingModel(model types.PricingModel) error {
	if !model.Valid() {
		return fmt.Errorf("unknown pricing model %q", model)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
	return nil
}

func (b *Builder) SetProducts(products []types.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = slices.Clone(products)
}

func (b *Builder) Totals() pricing.Totals {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalsLocked()
}

func (b *Builder) totalsLocked() pricing.Totals {
	return pricing.Calculate(b.pricingInputLocked(), b.rates)
}

func (b *Builder) pricingInputLocked() pricing.Input {
	return pricing.Input{
		Products: b.products,
		Addons:   b.cart.Selected,
		Coupon:   b.coupon,
		Model:    b.model,
	}
}
