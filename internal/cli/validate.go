package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbxark/checkoutbuilder/types"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.json>",
		Short: "Check a checkout configuration for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfiguration(args[0])
			if err != nil {
				return err
			}
			issues := types.Issues(cfg)
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintf(out, "%s: ok (%d steps)\n", args[0], len(cfg.Steps))
				return nil
			}
			table, err := types.FormatIssues(issues)
			if err != nil {
				return err
			}
			fmt.Fprint(out, table)
			return fmt.Errorf("%d issue(s) found", len(issues))
		},
	}
}
