// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/threadhub/internal/app/system/mongoconn"
	"github.com/redis/go-redis/v9"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	// Mongo connects lazily; it is never nil.
	Mongo *mongoconn.Manager

	// Redis is nil when redis_url is blank.
	Redis *redis.Client
}
