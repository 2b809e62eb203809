// Command seed fills a ThreadHub database with demo data.
//
//	seed -mongo mongodb://localhost:27017 -db threadhub -users 50
//
// The URI defaults to THREADHUB_MONGO_URI.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dalemusser/threadhub/internal/app/seed"
	"github.com/dalemusser/threadhub/internal/app/system/indexes"
	"github.com/dalemusser/threadhub/internal/app/system/mongoconn"
	"go.uber.org/zap"
)

func main() {
	var (
		uri     = flag.String("mongo", os.Getenv("THREADHUB_MONGO_URI"), "MongoDB connection URI")
		dbName  = flag.String("db", "threadhub", "database name")
		users   = flag.Int("users", 25, "users to create")
		comms   = flag.Int("communities", 5, "communities to create")
		threads = flag.Int("threads", 3, "threads per user")
		replies = flag.Int("replies", 4, "replies per thread")
		rseed   = flag.Int64("seed", 0, "random seed (0 = random)")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	mgr := mongoconn.New(mongoconn.Options{URI: *uri, Database: *dbName}, logger)
	db, err := mgr.Ensure(ctx)
	if err != nil {
		logger.Fatal("mongo unavailable", zap.Error(err))
	}
	defer func() { _ = mgr.Close(context.Background()) }()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	_, err = seed.NewFactory(db, *rseed, logger).Run(ctx, seed.Options{
		Users:            *users,
		Communities:      *comms,
		ThreadsPerUser:   *threads,
		RepliesPerThread: *replies,
		Seed:             *rseed,
	})
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}
