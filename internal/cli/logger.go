package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/config"
)

func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	if verbose || cfg.Development {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		zc.Level = level
	}
	return zc.Build()
}
