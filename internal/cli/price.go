package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/pricing"
	"github.com/tbxark/checkoutbuilder/selection"
)

func newPriceCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "price <order.json>",
		Short: "Compute the totals of an order",
		Long: `price reads an order file (products, selectedAddons, coupon, pricingModel)
and prints its summary. Without products the sample catalog is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			order, err := readOrder(args[0])
			if err != nil {
				return err
			}
			in, err := pricingInput(cmd.Context(), order, selection.NewCouponBook(cfg.Coupons, 0))
			if err != nil {
				return err
			}
			renderTotals(cmd.OutOrStdout(), in, pricing.Calculate(in, cfg.Pricing))
			return nil
		},
	}
}

func pricingInput(ctx context.Context, order *orderFile, book *selection.CouponBook) (pricing.Input, error) {
	products := order.Products
	if len(products) == 0 {
		products = defaults.Catalog()
	}
	in := pricing.Input{
		Products: pricing.Reprice(products, order.PricingModel),
		Addons:   order.SelectedAddons,
		Model:    order.PricingModel,
	}
	if order.Coupon != "" {
		c, err := book.Lookup(ctx, order.Coupon)
		if err != nil {
			return pricing.Input{}, fmt.Errorf("coupon %q: %w", order.Coupon, err)
		}
		in.Coupon = &c
	}
	return in, nil
}

// totalsTable returns a table.Writer with one row per order line followed by
// the totals.
func totalsTable(in pricing.Input, totals pricing.Totals) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"KIND", "ITEM", "QTY", "UNIT", "AMOUNT"})
	for _, line := range pricing.Lines(in) {
		tw.AppendRow(table.Row{line.Kind, line.Name, line.Quantity, money(line.Unit), money(line.Amount)})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"", "Subtotal", "", "", money(totals.Subtotal)})
	if totals.AddonsTotal > 0 {
		tw.AppendRow(table.Row{"", "Add-ons", "", "", money(totals.AddonsTotal)})
	}
	tw.AppendRow(table.Row{"", "Shipping", "", "", money(totals.Shipping)})
	if totals.Discount > 0 {
		name := "Discount"
		if in.Coupon != nil {
			name += " (" + in.Coupon.Code + ")"
		}
		tw.AppendRow(table.Row{"", name, "", "", money(-totals.Discount)})
	}
	tw.AppendRow(table.Row{"", "Tax", "", "", money(totals.Tax)})
	tw.AppendFooter(table.Row{"", totals.Label, "", "", money(totals.Total)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderTotals(w io.Writer, in pricing.Input, totals pricing.Totals) {
	tw := totalsTable(in, totals)
	tw.SetOutputMirror(w)
	tw.Render()
}

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}
