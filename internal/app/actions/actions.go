// Package actions is the entry point the request-handling layer calls to
// read and write users, threads, and activity.
//
// Every action makes sure the database is connected, runs under a
// per-call deadline, and reports failures as *Error with a Kind naming
// the operation that failed.
package actions

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/metrics"
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"github.com/dalemusser/threadhub/internal/app/system/search"
	"github.com/dalemusser/threadhub/internal/app/system/tracing"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Connector hands out the shared database, connecting on first use.
// *mongoconn.Manager satisfies it.
type Connector interface {
	Ensure(ctx context.Context) (*mongo.Database, error)
}

// Actions holds the collaborators shared by every action. It is safe for
// concurrent use.
type Actions struct {
	conn       Connector
	reval      revalidate.Revalidator
	log        *zap.Logger
	searchMode search.Mode
}

// Options configures New.
type Options struct {
	Conn        Connector
	Revalidator revalidate.Revalidator // nil disables revalidation
	Logger      *zap.Logger
	SearchMode  search.Mode
}

// New creates an Actions.
func New(opts Options) *Actions {
	a := &Actions{
		conn:       opts.Conn,
		reval:      opts.Revalidator,
		log:        opts.Logger,
		searchMode: opts.SearchMode,
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.reval == nil {
		a.reval = revalidate.NewPublisher(nil, a.log)
	}
	if a.searchMode == "" {
		a.searchMode = search.Literal
	}
	return a
}

// run wraps one action: deadline, span, metrics, and failure logging.
func (a *Actions) run(ctx context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := tracing.StartAction(ctx, name, attrs...)
	done := metrics.Track(name)

	err := fn(ctx)

	kind := ""
	var aerr *Error
	if errors.As(err, &aerr) {
		kind = aerr.Kind.String()
	}
	done(err, kind)
	tracing.End(span, err)

	if err != nil {
		a.log.Warn("action failed",
			zap.String("action", name),
			zap.String("kind", kind),
			zap.Error(err))
	}
	return err
}

// database returns the connected database or a connection *Error.
func (a *Actions) database(ctx context.Context, op string) (*mongo.Database, error) {
	db, err := a.conn.Ensure(ctx)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Op: op, Err: err}
	}
	return db, nil
}
