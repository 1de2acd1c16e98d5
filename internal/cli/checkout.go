package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tbxark/checkoutbuilder"
	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/selection"
	"github.com/tbxark/checkoutbuilder/types"
	"github.com/tbxark/checkoutbuilder/validation"
)

func newCheckoutCmd(opts *globalOptions) *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "checkout <order.json>",
		Short: "Walk an order through every checkout step and submit it",
		Long: `checkout fills a checkout session with the order's form data, addons and
coupon, advances step by step and submits on the last one. Validation errors
stop the walk and are printed per field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			cfg, err := readConfiguration(configFile)
			if err != nil {
				return err
			}
			order, err := readOrder(args[0])
			if err != nil {
				return err
			}
			products := order.Products
			if len(products) == 0 {
				products = defaults.Catalog()
			}
			out := cmd.OutOrStdout()
			b, err := checkoutbuilder.New(cfg,
				checkoutbuilder.WithLogger(logger),
				checkoutbuilder.WithRates(settings.Pricing),
				checkoutbuilder.WithCoupons(selection.NewCouponBook(settings.Coupons, settings.Latency.CouponLookup)),
				checkoutbuilder.WithSubmitLatency(settings.Latency.Submit),
				checkoutbuilder.WithProducts(products),
				checkoutbuilder.WithSubmitter(printSubmission(out)),
			)
			if err != nil {
				return err
			}
			return walk(cmd.Context(), b, order, out)
		},
	}
	cmd.Flags().StringVar(&configFile, "file", "", "checkout configuration (default: the built-in one)")
	return cmd
}

func printSubmission(w io.Writer) checkoutbuilder.SubmitterFunc {
	return func(ctx context.Context, order checkoutbuilder.OrderSubmission) error {
		data, err := sonic.ConfigStd.MarshalIndent(order, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
}

func walk(ctx context.Context, b *checkoutbuilder.Builder, order *orderFile, out io.Writer) error {
	if err := b.SetPricingModel(order.PricingModel); err != nil {
		return err
	}
	for _, id := range slices.Sorted(maps.Keys(order.FormData)) {
		b.SetValue(id, order.FormData[id])
	}
	for _, addon := range order.SelectedAddons {
		if err := b.ToggleAddon(addon.ID); err != nil {
			return err
		}
		if addon.Quantity > 0 {
			if err := b.SetAddonQuantity(addon.ID, addon.Quantity); err != nil {
				return err
			}
		}
	}
	if order.Coupon != "" {
		if err := b.ApplyCoupon(ctx, order.Coupon); err != nil {
			return fmt.Errorf("coupon %q: %w", order.Coupon, err)
		}
	}

	steps := b.Config().Steps
	for {
		step := b.CurrentStep()
		t, err := b.NextStep(ctx)
		if err != nil {
			return err
		}
		switch t {
		case validation.Stay:
			renderFieldErrors(out, steps[step], b.State().Errors)
			return fmt.Errorf("step %q has invalid fields", steps[step].Title)
		case validation.Submit:
			st := b.State()
			fmt.Fprintf(out, "submitted: %s $%.2f\n", st.Totals.Label, st.Totals.Total)
			return nil
		}
	}
}

func renderFieldErrors(w io.Writer, step types.Step, errs types.FieldErrors) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(step.Title)
	tw.AppendHeader(table.Row{"FIELD", "ERROR"})
	for _, section := range step.Sections {
		for _, field := range section.Fields {
			if msg := errs[field.ID]; msg != "" {
				tw.AppendRow(table.Row{field.ID, msg})
			}
		}
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
