// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// ErrUsernameTaken is returned when another user already holds the username.
var ErrUsernameTaken = errors.New("username is already taken")

const (
	identityIndex = "uniq_users_id"
	usernameIndex = "uniq_users_username"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the identity, username, and search-order indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName(identityIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(usernameIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_users_created"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Profile holds the fields written by Upsert.
type Profile struct {
	Identity string
	Username string
	Name     string
	Bio      string
	Image    string
}

// Upsert creates the user with the given identity if missing, then sets the
// profile fields and marks the user onboarded. Username is lower-cased.
// The whole write is a single atomic update.
func (s *Store) Upsert(ctx context.Context, p Profile) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"username":   normalize.Username(p.Username),
			"name":       p.Name,
			"bio":        p.Bio,
			"image":      p.Image,
			"onboarded":  true,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"threads":     bson.A{},
			"communities": bson.A{},
			"created_at":  now,
		},
	}

	filter := bson.M{"id": p.Identity}
	opts := options.Update().SetUpsert(true)

	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	if dupOn(err, identityIndex) {
		// Lost a first-write race for this identity; the document exists now.
		_, err = s.c.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		if dupOn(err, usernameIndex) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// dupOn reports whether err is a duplicate-key error raised by the named
// unique index. The server names the index in the error message.
func dupOn(err error, index string) bool {
	if err == nil {
		return false
	}
	if !mongo.IsDuplicateKeyError(err) && !wafflemongo.IsDup(err) {
		return false
	}
	return strings.Contains(err.Error(), "index: "+index+" ")
}

// GetByIdentity loads a user by external identity.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByIdentity(ctx context.Context, identity string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"id": identity}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// IDByIdentity resolves an external identity to the user's _id.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) IDByIdentity(ctx context.Context, identity string) (primitive.ObjectID, error) {
	var row struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	if err := s.c.FindOne(ctx, bson.M{"id": identity}, opts).Decode(&row); err != nil {
		return primitive.NilObjectID, err
	}
	return row.ID, nil
}

// AddCommunity records community membership on the user. Adding the same
// community twice is a no-op.
func (s *Store) AddCommunity(ctx context.Context, identity string, communityID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"id": identity},
		bson.M{"$addToSet": bson.M{"communities": communityID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SearchFilter selects a page of users.
type SearchFilter struct {
	ExcludeIdentity string
	Match           bson.A // optional $or clauses; nil matches everyone
	Skip            int64
	Limit           int64
	SortDir         int // 1 ascending, -1 descending by created_at
}

// SearchResult is one page of users plus the total matching the filter.
type SearchResult struct {
	Users []models.User
	Total int64
}

// Search returns one page of users ordered by created_at (ties by _id) and
// the total count under the same filter. The two queries run concurrently.
func (s *Store) Search(ctx context.Context, f SearchFilter) (SearchResult, error) {
	filter := bson.M{"id": bson.M{"$ne": f.ExcludeIdentity}}
	if len(f.Match) > 0 {
		filter["$or"] = f.Match
	}

	dir := f.SortDir
	if dir != 1 {
		dir = -1
	}
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(f.Skip).
		SetLimit(f.Limit)

	var res SearchResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.c.CountDocuments(gctx, filter)
		if err != nil {
			return err
		}
		res.Total = n
		return nil
	})

	g.Go(func() error {
		cur, err := s.c.Find(gctx, filter, find)
		if err != nil {
			return err
		}
		defer cur.Close(gctx)

		users := []models.User{}
		if err := cur.All(gctx, &users); err != nil {
			return err
		}
		res.Users = users
		return nil
	})

	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}
	return res, nil
}
