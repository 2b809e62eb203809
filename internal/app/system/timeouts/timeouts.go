// Package timeouts provides the deadline tiers used around database calls.
//
// Actions and handlers wrap their context with context.WithTimeout using one
// of these tiers so every round-trip to MongoDB is bounded:
//   - Ping: connectivity checks (health endpoint)
//   - Short: single-document reads and the profile upsert
//   - Medium: searches, counts, and multi-collection expansions
//   - Long: seeding and index creation
//
// Values can be overridden at startup with Configure or ConfigureFromEnv.
package timeouts

import (
	"os"
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for single-document reads and writes.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for list queries and expansions.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for bulk work like seeding.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout configuration values.
// Zero values are ignored (current values are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure sets custom timeout values. Call it during startup, before
// handlers are built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	setIfPositive(&ping, cfg.Ping)
	setIfPositive(&short, cfg.Short)
	setIfPositive(&medium, cfg.Medium)
	setIfPositive(&long, cfg.Long)
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	medium = DefaultMedium
	long = DefaultLong
}

// ConfigureFromEnv reads THREADHUB_TIMEOUT_{PING,SHORT,MEDIUM,LONG}
// (Go duration strings such as "500ms" or "2s"). Unset or invalid values are
// ignored. Returns how many tiers were changed.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()

	tiers := []struct {
		env string
		dst *time.Duration
	}{
		{"THREADHUB_TIMEOUT_PING", &ping},
		{"THREADHUB_TIMEOUT_SHORT", &short},
		{"THREADHUB_TIMEOUT_MEDIUM", &medium},
		{"THREADHUB_TIMEOUT_LONG", &long},
	}

	configured := 0
	for _, tier := range tiers {
		v := os.Getenv(tier.env)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			continue
		}
		*tier.dst = d
		configured++
	}
	return configured
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Long: long}
}

func setIfPositive(dst *time.Duration, d time.Duration) {
	if d > 0 {
		*dst = d
	}
}
