package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/mongoconn"
	"github.com/dalemusser/threadhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoDatabase:    "threadhub",
		MongoMaxPoolSize: 100,
		SessionKey:       "test-session-key-must-be-32-chars-long",
		SessionName:      "test-session",
		SessionMaxAge:    time.Hour,
		SearchMode:       "literal",
		TracingExporter:  "stdout",
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"blank uri is accepted", dev, func(c *AppConfig) {}, ""},
		{"valid uri", dev, func(c *AppConfig) { c.MongoURI = "mongodb://localhost:27017" }, ""},
		{"blank database", dev, func(c *AppConfig) { c.MongoDatabase = "" }, "mongo_database"},
		{"pool sizes inverted", dev, func(c *AppConfig) { c.MongoMinPoolSize = 200 }, "mongo_min_pool_size"},
		{"pattern search", dev, func(c *AppConfig) { c.SearchMode = "pattern" }, ""},
		{"unknown search mode", dev, func(c *AppConfig) { c.SearchMode = "fuzzy" }, "search_mode"},
		{"unknown exporter", dev, func(c *AppConfig) { c.TracingExporter = "zipkin" }, "tracing_exporter"},
		{"dev key in prod", prod, func(c *AppConfig) { c.SessionKey = "dev-only-change-me-please-0123456789ABCDEF" }, "session_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseRatio(t *testing.T) {
	if got := parseRatio("0.25", testLogger()); got != 0.25 {
		t.Errorf("expected 0.25, got %v", got)
	}
	for _, bad := range []string{"", "abc", "0", "1.5"} {
		if got := parseRatio(bad, testLogger()); got != 1.0 {
			t.Errorf("parseRatio(%q): expected 1.0, got %v", bad, got)
		}
	}
}

func TestConnectDB_NoRedis(t *testing.T) {
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, validAppConfig(), testLogger())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	if deps.Mongo == nil {
		t.Fatal("expected a mongo manager")
	}
	if deps.Mongo.Connected() {
		t.Error("mongo must not be dialed eagerly")
	}
	if deps.Redis != nil {
		t.Error("expected no redis client")
	}
}

func TestConnectDB_BadRedisURL(t *testing.T) {
	cfg := validAppConfig()
	cfg.RedisURL = "not a url"
	if _, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, testLogger()); err == nil {
		t.Error("expected an error for a malformed redis_url")
	}
}

func TestEnsureSchema_NotConfigured(t *testing.T) {
	deps := DBDeps{Mongo: mongoconn.New(mongoconn.Options{}, testLogger())}
	if err := EnsureSchema(context.Background(), &config.CoreConfig{}, validAppConfig(), deps, testLogger()); err != nil {
		t.Errorf("expected nil when unconfigured, got %v", err)
	}
}

func TestEnsureSchema_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validAppConfig()
	cfg.MongoURI = testutil.TestMongoURI()
	cfg.MongoDatabase = db.Name()
	deps := DBDeps{Mongo: mongoconn.New(mongoconn.Options{URI: cfg.MongoURI, Database: cfg.MongoDatabase}, testLogger())}
	defer func() { _ = deps.Mongo.Close(context.Background()) }()

	if err := EnsureSchema(ctx, &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// Running twice is harmless.
	if err := EnsureSchema(ctx, &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var specs []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &specs); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}
	names := map[string]bool{}
	for _, s := range specs {
		names[s.Name] = true
	}
	for _, want := range []string{"uniq_users_id", "uniq_users_username"} {
		if !names[want] {
			t.Errorf("missing index %s (have %v)", want, names)
		}
	}
}

func TestStartupAndShutdown(t *testing.T) {
	cfg := validAppConfig()
	deps := DBDeps{Mongo: mongoconn.New(mongoconn.Options{}, testLogger())}

	if err := Startup(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	if err := Shutdown(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, deps, testLogger()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	deps := DBDeps{Mongo: mongoconn.New(mongoconn.Options{}, testLogger())}

	tests := []struct {
		env    string
		method string
		path   string
		want   int
	}{
		{"dev", "GET", "/health", http.StatusServiceUnavailable},
		{"dev", "GET", "/metrics", http.StatusOK},
		{"dev", "GET", "/users/someone", http.StatusServiceUnavailable},
		{"dev", "GET", "/activity", http.StatusUnauthorized},
		{"dev", "PUT", "/profile", http.StatusUnauthorized},
		{"dev", "POST", "/session", http.StatusBadRequest},
		{"prod", "POST", "/session", http.StatusNotFound},
	}

	for _, tt := range tests {
		cfg := validAppConfig()
		if tt.env == "prod" {
			cfg.SessionKey = "a-real-production-key-0123456789abcdef"
		}
		h, err := BuildHandler(&config.CoreConfig{Env: tt.env}, cfg, deps, testLogger())
		if err != nil {
			t.Fatalf("BuildHandler failed: %v", err)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s %s: got %d, want %d", tt.env, tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
