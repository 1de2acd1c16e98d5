// Package checkoutbuilder owns a checkout configuration and the shopper
// session running against it. A Builder is the single writer of its
// configuration: every edit goes through a mutator that returns a new tree.
package checkoutbuilder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/pricing"
	"github.com/tbxark/checkoutbuilder/selection"
	"github.com/tbxark/checkoutbuilder/types"
	"github.com/tbxark/checkoutbuilder/validation"
)

var ErrBusy = errors.New("operation already in progress")

type Builder struct {
	mu  sync.Mutex
	cfg *types.CheckoutConfiguration

	formData    types.FormData
	errors      types.FieldErrors
	currentStep int
	cart        selection.Cart
	coupon      *types.Coupon
	couponError string
	products    []types.Product
	model       types.PricingModel
	phase       types.Phase
	submitError string
	applying    bool

	logger        *zap.Logger
	validator     *validation.Validator
	coupons       *selection.CouponBook
	rates         pricing.Rates
	submitter     Submitter
	submitLatency time.Duration
}

type Option func(*Builder)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

func WithRates(rates pricing.Rates) Option {
	return func(b *Builder) { b.rates = rates }
}

func WithCoupons(book *selection.CouponBook) Option {
	return func(b *Builder) { b.coupons = book }
}

func WithSubmitter(s Submitter) Option {
	return func(b *Builder) { b.submitter = s }
}

// WithSubmitLatency delays every submission, standing in for a payment call.
func WithSubmitLatency(d time.Duration) Option {
	return func(b *Builder) { b.submitLatency = d }
}

func WithProducts(products []types.Product) Option {
	return func(b *Builder) { b.products = products }
}

// New creates a builder for cfg, or for the default configuration when cfg is
// nil. cfg must pass types.Check.
func New(cfg *types.CheckoutConfiguration, opts ...Option) (*Builder, error) {
	if cfg == nil {
		cfg = defaults.Configuration()
	}
	if err := types.Check(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	b := &Builder{
		cfg:      cfg,
		formData: types.FormData{},
		errors:   types.FieldErrors{},
		model:    types.PricingOneTime,
		phase:    types.PhaseCollecting,
		logger:   zap.NewNop(),
		rates:    pricing.DefaultRates,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.validator == nil {
		b.validator = validation.New(b.logger)
	}
	if b.coupons == nil {
		b.coupons = selection.NewCouponBook(defaults.Coupons(), 0)
	}
	if b.submitter == nil {
		b.submitter = SubmitterFunc(discardSubmission)
	}
	b.seedDefaults()
	return b, nil
}

// seedDefaults copies field default values into empty form data.
func (b *Builder) seedDefaults() {
	for _, step := range b.cfg.Steps {
		for _, section := range step.Sections {
			for _, field := range section.Fields {
				if field.DefaultValue == nil {
					continue
				}
				if _, ok := b.formData[field.ID]; !ok {
					b.formData[field.ID] = field.DefaultValue
				}
			}
		}
	}
}

// Config returns the current configuration. Trees are never modified after
// publication, so the result may be read freely but must not be written to.
func (b *Builder) Config() *types.CheckoutConfiguration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// Replace swaps in a whole new configuration after checking it.
func (b *Builder) Replace(cfg *types.CheckoutConfiguration) error {
	if cfg == nil {
		return fmt.Errorf("invalid configuration: nil")
	}
	if err := types.Check(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
	b.currentStep = min(b.currentStep, max(len(cfg.Steps)-1, 0))
	b.seedDefaults()
	return nil
}
