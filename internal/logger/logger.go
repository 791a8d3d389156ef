package logger

import (
	"go.uber.org/zap"

	"github.com/orfo-trainer/spelling-bot/internal/config"
)

// New returns the root logger for the configured environment. Every entry
// carries the env and the question source driver.
func New(cfg *config.Config) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if cfg.IsProduction() {
		build = zap.NewProduction
	}

	lg, err := build()
	if err != nil {
		return nil, err
	}

	return lg.With(
		zap.String("env", cfg.Env),
		zap.String("source", cfg.Source.Driver),
	), nil
}
