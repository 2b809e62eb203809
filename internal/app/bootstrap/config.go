// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/search"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ThreadHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: THREADHUB_MONGO_URI, THREADHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (blank: database not configured)"},
	{Name: "mongo_database", Default: "threadhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and ping timeout"},

	{Name: "redis_url", Default: "", Desc: "Redis URL for page revalidation signals (blank disables)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "threadhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	{Name: "search_mode", Default: "literal", Desc: "User search matching: 'literal' or 'pattern' (regular expression)"},

	{Name: "tracing_enabled", Default: false, Desc: "Enable OpenTelemetry tracing"},
	{Name: "tracing_exporter", Default: "stdout", Desc: "Trace exporter: 'stdout' or 'otlp'"},
	{Name: "otlp_endpoint", Default: "localhost:4318", Desc: "OTLP/HTTP collector endpoint"},
	{Name: "tracing_sampler", Default: "1.0", Desc: "Trace sampling ratio between 0 and 1"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, THREADHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "THREADHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            strings.TrimSpace(appValues.String("mongo_uri")),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		RedisURL: strings.TrimSpace(appValues.String("redis_url")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		SearchMode: appValues.String("search_mode"),

		TracingEnabled:  appValues.Bool("tracing_enabled"),
		TracingExporter: appValues.String("tracing_exporter"),
		OTLPEndpoint:    appValues.String("otlp_endpoint"),
		TracingSampler:  parseRatio(appValues.String("tracing_sampler"), logger),
	}

	return coreCfg, appCfg, nil
}

func parseRatio(s string, logger *zap.Logger) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 1 {
		logger.Warn("invalid tracing_sampler; using 1.0", zap.String("value", s))
		return 1.0
	}
	return v
}

// ValidateConfig performs app-specific config validation.
//
// A blank MongoDB URI is accepted (the database is simply not configured);
// a malformed one aborts startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.MongoURI == "" {
		logger.Warn("mongo_uri is blank; database actions will fail until it is configured")
	} else if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be blank")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	switch search.Mode(strings.ToLower(appCfg.SearchMode)) {
	case search.Literal, search.Pattern:
	default:
		return fmt.Errorf("search_mode must be 'literal' or 'pattern', got %q", appCfg.SearchMode)
	}

	switch appCfg.TracingExporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("tracing_exporter must be 'stdout' or 'otlp', got %q", appCfg.TracingExporter)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be changed in production")
	}

	return nil
}
