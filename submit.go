package checkoutbuilder

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/selection"
	"github.com/tbxark/checkoutbuilder/types"
)

// OrderSubmission is handed to the Submitter when the shopper places the order.
type OrderSubmission struct {
	FormData       types.FormData  `json:"formData"`
	Products       []types.Product `json:"products"`
	SelectedAddons []types.Addon   `json:"selectedAddons"`
	AppliedCoupon  *types.Coupon   `json:"appliedCoupon"`
	Total          float64         `json:"total"`
}

type Submitter interface {
	Submit(ctx context.Context, order OrderSubmission) error
}

type SubmitterFunc func(ctx context.Context, order OrderSubmission) error

func (f SubmitterFunc) Submit(ctx context.Context, order OrderSubmission) error {
	return f(ctx, order)
}

func discardSubmission(ctx context.Context, order OrderSubmission) error {
	return nil
}

// Submit sends the order. The session is in the submitting phase for the
// duration and returns to collecting if the submission fails, so it can be
// retried.
func (b *Builder) Submit(ctx context.Context) error {
	b.mu.Lock()
	if b.phase == types.PhaseSubmitting {
		b.mu.Unlock()
		return ErrBusy
	}
	b.phase = types.PhaseSubmitting
	b.submitError = ""
	order := OrderSubmission{
		FormData:       b.formData.Clone(),
		Products:       slices.Clone(b.products),
		SelectedAddons: slices.Clone(b.cart.Selected),
		AppliedCoupon:  copyCoupon(b.coupon),
		Total:          b.totalsLocked().Total,
	}
	b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.phase = types.PhaseCollecting
			b.submitError = "Failed to submit order, please try again"
			b.mu.Unlock()
			panic(r)
		}
	}()

	err := selection.SleepOrDone(ctx, b.submitLatency)
	if err == nil {
		err = b.submitter.Submit(ctx, order)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.logger.Error("submit order", zap.Error(err))
		b.phase = types.PhaseCollecting
		b.submitError = "Failed to submit order, please try again"
		return err
	}
	b.phase = types.PhaseSubmitted
	return nil
}
