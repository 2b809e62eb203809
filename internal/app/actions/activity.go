// internal/app/actions/activity.go
package actions

import (
	"context"
	"errors"

	"github.com/dalemusser/threadhub/internal/app/store/queries/userviews"
	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// GetActivity returns the replies other users made to the threads authored
// by identity, newest first. An unknown identity has no activity.
func (a *Actions) GetActivity(ctx context.Context, identity string) ([]models.Reply, error) {
	const op = "get_activity"
	out := []models.Reply{}
	err := a.run(ctx, op, timeouts.Medium(), func(ctx context.Context) error {
		db, err := a.database(ctx, op)
		if err != nil {
			return err
		}

		uid, err := userstore.New(db).IDByIdentity(ctx, identity)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		if err != nil {
			return &Error{Kind: KindActivity, Op: op, Err: err}
		}

		childIDs, err := threadstore.New(db).ChildIDsByAuthor(ctx, uid)
		if err != nil {
			return &Error{Kind: KindActivity, Op: op, Err: err}
		}

		replies, err := userviews.Replies(ctx, db, childIDs, uid)
		if err != nil {
			return &Error{Kind: KindActivity, Op: op, Err: err}
		}
		out = replies
		return nil
	}, attribute.String("user.identity", identity))
	if err != nil {
		return nil, err
	}
	return out, nil
}
