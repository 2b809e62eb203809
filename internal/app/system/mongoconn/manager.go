// Package mongoconn owns the process-wide MongoDB connection.
//
// The connection is opened lazily on the first call to Ensure and shared by
// every caller afterwards. Concurrent first callers are serialized so only
// one connect attempt is ever in flight; a caller waiting behind it gives up
// when its own context ends. A failed attempt is not cached: the error is
// returned to the caller and the next Ensure tries again.
//
// Close tears the connection down; a later Ensure reconnects. Tests use this
// to isolate themselves from each other.
package mongoconn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Ensure when no connection URI is set.
var ErrNotConfigured = errors.New("mongo connection URI is not configured")

// DefaultConnectTimeout bounds a single connect+ping attempt.
const DefaultConnectTimeout = 10 * time.Second

// Options configures a Manager.
type Options struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// Manager lazily connects to MongoDB and hands out the shared database handle.
type Manager struct {
	opts Options
	log  *zap.Logger

	// dialing holds one token while a connect attempt is in flight.
	dialing chan struct{}

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database

	// connect is swapped in tests.
	connect func(ctx context.Context, opts Options) (*mongo.Client, error)
}

// New creates a Manager. It does not connect.
func New(opts Options, logger *zap.Logger) *Manager {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{opts: opts, log: logger, dialing: make(chan struct{}, 1), connect: dial}
}

// Ensure returns the shared database, connecting first if needed.
func (m *Manager) Ensure(ctx context.Context) (*mongo.Database, error) {
	if db := m.current(); db != nil {
		return db, nil
	}
	if m.opts.URI == "" {
		m.log.Warn("mongo uri not found; skipping connect")
		return nil, ErrNotConfigured
	}

	if err := m.acquire(ctx); err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer m.release()

	// Another caller may have connected while we waited.
	if db := m.current(); db != nil {
		return db, nil
	}

	client, err := m.connect(ctx, m.opts)
	if err != nil {
		metrics.MongoConnects.WithLabelValues("error").Inc()
		m.log.Error("mongo connect failed", zap.String("database", m.opts.Database), zap.Error(err))
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	metrics.MongoConnects.WithLabelValues("ok").Inc()
	db := client.Database(m.opts.Database)
	m.mu.Lock()
	m.client = client
	m.db = db
	m.mu.Unlock()
	m.log.Info("connected to mongodb", zap.String("database", m.opts.Database))
	return db, nil
}

func (m *Manager) current() *mongo.Database {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db
}

// acquire takes the dial token or fails when ctx ends first.
func (m *Manager) acquire(ctx context.Context) error {
	select {
	case m.dialing <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) release() { <-m.dialing }

// Connected reports whether a live client is held.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db != nil
}

// Client returns the connected client, or nil before the first successful Ensure.
func (m *Manager) Client() *mongo.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// Close disconnects the client if one is held. It is safe to call when not
// connected.
func (m *Manager) Close(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	defer m.release()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	if err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

// dial opens a client and verifies it with a ping against the primary.
func dial(ctx context.Context, opts Options) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
