// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	communitystore "github.com/dalemusser/threadhub/internal/app/store/communities"
	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
EnsureAll is called at startup and by the seed command. Each collection's
EnsureIndexes is idempotent. Errors are aggregated so every problem is
visible at once.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := threadstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "threads: "+err.Error())
	}
	if err := communitystore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "communities: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
