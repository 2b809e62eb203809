// internal/app/actions/posts.go
package actions

import (
	"context"

	"github.com/dalemusser/threadhub/internal/app/store/queries/userviews"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.opentelemetry.io/otel/attribute"
)

// FetchUserPosts returns the user with every thread it authored. Each
// thread carries its community and its replies, and each reply carries its
// author. Returns nil when no user has that identity.
func (a *Actions) FetchUserPosts(ctx context.Context, identity string) (*models.UserThreads, error) {
	const op = "fetch_user_posts"
	var out *models.UserThreads
	err := a.run(ctx, op, timeouts.Medium(), func(ctx context.Context) error {
		db, err := a.database(ctx, op)
		if err != nil {
			return err
		}
		out, err = userviews.UserThreads(ctx, db, identity)
		if err != nil {
			return &Error{Kind: KindAggregation, Op: op, Err: err}
		}
		return nil
	}, attribute.String("user.identity", identity))
	if err != nil {
		return nil, err
	}
	return out, nil
}
