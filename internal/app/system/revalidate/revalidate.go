// Package revalidate tells the page-rendering layer that the cached view of
// a path is stale.
package revalidate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis channel revalidation paths are published on.
const Channel = "threadhub:revalidate"

// PageKey returns the Redis key under which the rendered page for path is
// cached.
func PageKey(path string) string {
	return "page:" + path
}

// Revalidator marks the cached content for a path as stale.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Publisher is the Redis-backed Revalidator. A Publisher with a nil client
// is a no-op.
type Publisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewPublisher creates a Publisher. rdb may be nil when Redis is not
// configured.
func NewPublisher(rdb *redis.Client, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{rdb: rdb, logger: logger}
}

// Revalidate drops the cached page for path and announces path on Channel.
func (p *Publisher) Revalidate(ctx context.Context, path string) error {
	if p.rdb == nil {
		return nil
	}

	pipe := p.rdb.Pipeline()
	pipe.Del(ctx, PageKey(path))
	pipe.Publish(ctx, Channel, path)
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warn("revalidate failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("revalidate %s: %w", path, err)
	}

	p.logger.Debug("revalidated", zap.String("path", path))
	return nil
}
