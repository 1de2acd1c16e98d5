// Package cli implements the checkoutbuilder command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/config"
)

type globalOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "checkoutbuilder",
		Short: "Build, price and serve multi-step checkout configurations",
		Long: `checkoutbuilder edits and validates checkout page configurations,
computes order totals and serves the builder HTTP API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML settings file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(
		newServeCmd(opts),
		newValidateCmd(),
		newPriceCmd(opts),
		newCheckoutCmd(opts),
		newSchemaCmd(),
		newDefaultCmd(),
		newDiffCmd(),
		newEditCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// load reads settings and builds the logger they describe.
func (o *globalOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg.Log, o.verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
