// Package logging builds the zap logger shared by the container and the
// inspector.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/config"
)

// New returns a production logger when the environment is production and a
// development logger otherwise, at the configured level.
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	zc.Level = level

	logger, err := zc.Build(zap.Fields(zap.String("app", cfg.App.Name)))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return logger, nil
}
