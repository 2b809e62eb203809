// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/threadhub/internal/app/system/indexes"
	"github.com/dalemusser/threadhub/internal/app/system/mongoconn"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectDB builds the backend clients. MongoDB is not dialed here: the
// manager connects on first use so the server can start while the
// database is unreachable. Redis is optional.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{
		Mongo: mongoconn.New(mongoconn.Options{
			URI:            appCfg.MongoURI,
			Database:       appCfg.MongoDatabase,
			MaxPoolSize:    appCfg.MongoMaxPoolSize,
			MinPoolSize:    appCfg.MongoMinPoolSize,
			ConnectTimeout: appCfg.MongoConnectTimeout,
		}, logger),
	}

	if appCfg.RedisURL == "" {
		logger.Info("redis_url not set; page revalidation disabled")
		return deps, nil
	}

	opts, err := redis.ParseURL(appCfg.RedisURL)
	if err != nil {
		return DBDeps{}, fmt.Errorf("invalid redis_url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Revalidation is fire and forget; keep going and let the client
		// reconnect on its own.
		logger.Warn("redis ping failed", zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", opts.Addr))
	}
	deps.Redis = rdb
	return deps, nil
}

// EnsureSchema creates the indexes on users, threads, and communities.
// When MongoDB is not configured or not reachable it logs and returns nil;
// indexes are created on the next start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	db, err := deps.Mongo.Ensure(ctx)
	if errors.Is(err, mongoconn.ErrNotConfigured) {
		return nil
	}
	if err != nil {
		logger.Warn("skipping index setup; mongo unavailable", zap.Error(err))
		return nil
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	logger.Info("indexes ensured", zap.String("database", appCfg.MongoDatabase))
	return nil
}
