// internal/app/store/communities/communitystore.go
package communitystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/threadhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateIdentity is returned when a community with the same id exists.
var ErrDuplicateIdentity = errors.New("a community with this id already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("communities")}
}

// EnsureIndexes creates the unique identity index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("uniq_communities_id").SetUnique(true),
	})
	return err
}

// Create inserts a community.
func (s *Store) Create(ctx context.Context, c models.Community) (models.Community, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Members == nil {
		c.Members = []primitive.ObjectID{}
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Community{}, ErrDuplicateIdentity
		}
		return models.Community{}, err
	}
	return c, nil
}
