package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tbxark/checkoutbuilder/config"
	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

func newDefaultCmd() *cobra.Command {
	var (
		asYAML   bool
		settings string
	)
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print the default checkout configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings != "" {
				if err := config.WriteDefault(settings); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote default settings to %s\n", settings)
				return nil
			}
			data, err := encodeConfiguration(defaults.Configuration(), asYAML)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	cmd.Flags().StringVar(&settings, "write-settings", "", "write a commented default settings file to this path instead")
	return cmd
}

func encodeConfiguration(cfg *types.CheckoutConfiguration, asYAML bool) ([]byte, error) {
	if !asYAML {
		data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	tree, err := types.ToTree(cfg)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}
