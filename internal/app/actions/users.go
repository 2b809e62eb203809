// internal/app/actions/users.go
package actions

import (
	"context"
	"strings"

	"github.com/dalemusser/threadhub/internal/app/store/queries/userviews"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/app/system/search"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/app/system/validators"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProfileEditPath is the only path whose cached page is revalidated after a
// profile write.
const ProfileEditPath = "/profile/edit"

// ProfileInput is the data written by UpsertUser. Path names the page the
// write came from.
type ProfileInput struct {
	Identity string `validate:"required"`
	Username string `validate:"required,max=64"`
	Name     string `validate:"max=128"`
	Bio      string `validate:"max=1024"`
	Image    string
	Path     string
}

// UpsertUser creates the user for in.Identity or overwrites its profile
// fields, marking it onboarded. A write from ProfileEditPath also
// revalidates that page.
func (a *Actions) UpsertUser(ctx context.Context, in ProfileInput) error {
	const op = "upsert_user"
	in.Identity = normalize.Identity(in.Identity)
	in.Username = normalize.Username(in.Username)
	return a.run(ctx, op, timeouts.Short(), func(ctx context.Context) error {
		if err := validators.Struct(in); err != nil {
			return &Error{Kind: KindInvalidInput, Op: op, Err: err}
		}

		db, err := a.database(ctx, op)
		if err != nil {
			return err
		}

		err = userstore.New(db).Upsert(ctx, userstore.Profile{
			Identity: in.Identity,
			Username: in.Username,
			Name:     in.Name,
			Bio:      in.Bio,
			Image:    in.Image,
		})
		if err != nil {
			return &Error{Kind: KindWrite, Op: op, Err: err}
		}

		if in.Path == ProfileEditPath {
			// Fire and forget: the write already succeeded.
			if rerr := a.reval.Revalidate(ctx, in.Path); rerr != nil {
				a.log.Warn("revalidate after upsert failed",
					zap.String("path", in.Path), zap.Error(rerr))
			}
		}
		return nil
	}, attribute.String("user.identity", in.Identity))
}

// FetchUser returns the user with its communities expanded, or nil when no
// user has that identity.
func (a *Actions) FetchUser(ctx context.Context, identity string) (*models.UserDetail, error) {
	const op = "fetch_user"
	var out *models.UserDetail
	err := a.run(ctx, op, timeouts.Short(), func(ctx context.Context) error {
		db, err := a.database(ctx, op)
		if err != nil {
			return err
		}
		out, err = userviews.UserDetail(ctx, db, identity)
		if err != nil {
			return &Error{Kind: KindRead, Op: op, Err: err}
		}
		return nil
	}, attribute.String("user.identity", identity))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SearchParams selects one page of users. Zero Page, PageSize, and Sort take
// their defaults (1, 20, "desc"). Page may not exceed paging.MaxPage.
type SearchParams struct {
	ExcludeIdentity string
	SearchText      string
	Page            int    `validate:"gte=0,lte=1000000"`
	PageSize        int    `validate:"gte=0,lte=100"`
	Sort            string `validate:"omitempty,oneof=asc desc"`
}

// SearchResult is one page of users.
type SearchResult struct {
	Users       []models.User `json:"users"`
	HasNextPage bool          `json:"hasNextPage"`
}

func (p SearchParams) withDefaults() SearchParams {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = paging.DefaultPageSize
	}
	p.Sort = strings.ToLower(strings.TrimSpace(p.Sort))
	if p.Sort == "" {
		p.Sort = "desc"
	}
	return p
}

// SearchUsers returns one page of users other than ExcludeIdentity, ordered
// by creation time. Non-blank SearchText matches username or name,
// case-insensitively.
func (a *Actions) SearchUsers(ctx context.Context, params SearchParams) (*SearchResult, error) {
	const op = "search_users"
	p := params.withDefaults()

	var out *SearchResult
	err := a.run(ctx, op, timeouts.Medium(), func(ctx context.Context) error {
		if err := validators.Struct(p); err != nil {
			return &Error{Kind: KindInvalidInput, Op: op, Err: err}
		}

		db, err := a.database(ctx, op)
		if err != nil {
			return err
		}

		pg := paging.Page{Number: p.Page, Size: p.PageSize}
		dir := -1
		if p.Sort == "asc" {
			dir = 1
		}

		res, err := userstore.New(db).Search(ctx, userstore.SearchFilter{
			ExcludeIdentity: p.ExcludeIdentity,
			Match:           search.AnyField(p.SearchText, a.searchMode, "username", "name"),
			Skip:            pg.Skip(),
			Limit:           pg.Limit(),
			SortDir:         dir,
		})
		if err != nil {
			return &Error{Kind: KindSearch, Op: op, Err: err}
		}

		out = &SearchResult{
			Users:       res.Users,
			HasNextPage: paging.HasNext(res.Total, pg.Skip(), len(res.Users)),
		}
		return nil
	},
		attribute.Int("search.page", p.Page),
		attribute.Int("search.page_size", p.PageSize),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
