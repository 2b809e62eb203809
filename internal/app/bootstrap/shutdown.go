// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown tears down the MongoDB client, Redis, and the tracer provider.
// Every step runs even if an earlier one fails.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var errs []error

	if deps.Mongo != nil && deps.Mongo.Connected() {
		logger.Info("disconnecting MongoDB client")
		if err := deps.Mongo.Close(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			logger.Error("redis close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	tracingMu.Lock()
	shutdown := tracingShutdown
	tracingShutdown = nil
	tracingMu.Unlock()
	if shutdown != nil {
		if err := shutdown(ctx); err != nil {
			logger.Error("tracing shutdown failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
