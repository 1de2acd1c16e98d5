package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/tbxark/checkoutbuilder/patch"
)

func newDiffCmd() *cobra.Command {
	var (
		base  string
		merge bool
	)
	cmd := &cobra.Command{
		Use:   "diff <config.json>",
		Short: "Print the JSON patch turning the base configuration into the given one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := readConfiguration(base)
			if err != nil {
				return err
			}
			to, err := readConfiguration(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if merge {
				data, err := patch.MergeDiff(from, to)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			ops, err := patch.Diff(from, to)
			if err != nil {
				return err
			}
			data, err := sonic.ConfigStd.MarshalIndent(ops, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "configuration to diff against (default: the built-in one)")
	cmd.Flags().BoolVar(&merge, "merge", false, "print an RFC 7386 merge patch instead")
	return cmd
}
