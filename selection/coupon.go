package selection

import (
	"context"
	"strings"
	"time"

	"github.com/tbxark/checkoutbuilder/types"
)

type invalidCouponError struct{}

func (invalidCouponError) Error() string { return "Invalid coupon code" }
func (invalidCouponError) Kind() string  { return "invalid_coupon" }

// ErrInvalidCoupon is returned for unknown codes. Its message is shown to the
// shopper as is.
var ErrInvalidCoupon = invalidCouponError{}

// CouponBook resolves coupon codes against a fixed list. Lookups wait for
// Latency first to stand in for a remote call.
type CouponBook struct {
	coupons map[string]types.Coupon
	order   []string
	Latency time.Duration
}

func NewCouponBook(coupons []types.Coupon, latency time.Duration) *CouponBook {
	b := &CouponBook{coupons: make(map[string]types.Coupon, len(coupons)), Latency: latency}
	for _, c := range coupons {
		code := normalize(c.Code)
		if _, dup := b.coupons[code]; !dup {
			b.order = append(b.order, code)
		}
		b.coupons[code] = c
	}
	return b
}

// Lookup returns the coupon for code. Codes are matched case-insensitively
// after trimming. It returns ctx.Err() if ctx ends while waiting.
func (b *CouponBook) Lookup(ctx context.Context, code string) (types.Coupon, error) {
	if err := SleepOrDone(ctx, b.Latency); err != nil {
		return types.Coupon{}, err
	}
	c, ok := b.coupons[normalize(code)]
	if !ok {
		return types.Coupon{}, ErrInvalidCoupon
	}
	return c, nil
}

// Coupons lists the book in the order it was built from. A code given twice
// keeps its first position and its last definition.
func (b *CouponBook) Coupons() []types.Coupon {
	out := make([]types.Coupon, 0, len(b.order))
	for _, code := range b.order {
		out = append(out, b.coupons[code])
	}
	return out
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SleepOrDone blocks for d or until ctx is done, whichever happens first.
func SleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
