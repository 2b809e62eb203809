// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS); everything below is
// specific to ThreadHub.
type AppConfig struct {
	// MongoDB connection configuration. An empty MongoURI leaves the
	// database unconfigured: the server still starts, health reports the
	// database as disconnected, and every action fails with a connection
	// error.
	MongoURI            string
	MongoDatabase       string
	MongoMaxPoolSize    uint64
	MongoMinPoolSize    uint64
	MongoConnectTimeout time.Duration

	// Redis carries page revalidation signals. Blank disables them.
	RedisURL string

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: threadhub-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// User search: "literal" (default) or "pattern"
	SearchMode string

	// Tracing
	TracingEnabled  bool
	TracingExporter string // "stdout" or "otlp"
	OTLPEndpoint    string
	TracingSampler  float64
}
