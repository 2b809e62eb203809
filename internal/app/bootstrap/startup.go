// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/app/system/tracing"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

var (
	tracingMu       sync.Mutex
	tracingShutdown func(context.Context) error
)

// Startup runs one-time application initialization after DB setup and
// before the HTTP handler is built: timeout overrides and tracing.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from env",
			zap.Int("count", n),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium))
	}

	env := ""
	if coreCfg != nil {
		env = coreCfg.Env
	}
	shutdown, err := tracing.Init(tracing.Config{
		ServiceName:  "threadhub",
		Environment:  env,
		Enabled:      appCfg.TracingEnabled,
		Exporter:     appCfg.TracingExporter,
		OTLPEndpoint: appCfg.OTLPEndpoint,
		SamplerRatio: appCfg.TracingSampler,
	})
	if err != nil {
		logger.Error("tracing init failed", zap.Error(err))
		return err
	}

	tracingMu.Lock()
	tracingShutdown = shutdown
	tracingMu.Unlock()

	if appCfg.TracingEnabled {
		logger.Info("tracing enabled", zap.String("exporter", appCfg.TracingExporter))
	}
	return nil
}
