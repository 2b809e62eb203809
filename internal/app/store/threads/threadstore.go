// internal/app/store/threads/threadstore.go
package threadstore

import (
	"context"
	"time"

	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages threads and the thread references held by users.
type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

// New creates a thread Store.
func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("threads"),
		users: db.Collection("users"),
	}
}

// EnsureIndexes creates the author and children indexes used by the
// activity feed.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_threads_author"),
		},
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}},
			Options: options.Index().SetName("idx_threads_parent"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a top-level thread and appends it to its author's threads.
func (s *Store) Create(ctx context.Context, t models.Thread) (models.Thread, error) {
	t = prepare(t)
	t.ParentID = nil

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Thread{}, err
	}
	if _, err := s.users.UpdateByID(ctx, t.Author, bson.M{"$push": bson.M{"threads": t.ID}}); err != nil {
		return models.Thread{}, err
	}
	return t, nil
}

// AddReply inserts reply as a child of parentID and appends it to the
// parent's children. Returns mongo.ErrNoDocuments if the parent is missing.
func (s *Store) AddReply(ctx context.Context, parentID primitive.ObjectID, reply models.Thread) (models.Thread, error) {
	if err := s.c.FindOne(ctx, bson.M{"_id": parentID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err(); err != nil {
		return models.Thread{}, err
	}

	reply = prepare(reply)
	reply.ParentID = &parentID

	if _, err := s.c.InsertOne(ctx, reply); err != nil {
		return models.Thread{}, err
	}
	if _, err := s.c.UpdateByID(ctx, parentID, bson.M{"$push": bson.M{"children": reply.ID}}); err != nil {
		return models.Thread{}, err
	}
	return reply, nil
}

// ChildIDsByAuthor returns the children of every thread authored by
// authorID, concatenated in thread order. Duplicates are kept.
func (s *Store) ChildIDsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().
		SetProjection(bson.M{"children": 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, bson.M{"author": authorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var row struct {
			Children []primitive.ObjectID `bson:"children"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.Children...)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// prepare assigns an ID and timestamp when missing and makes sure Children
// is stored as an empty array rather than null.
func prepare(t models.Thread) models.Thread {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Children == nil {
		t.Children = []primitive.ObjectID{}
	}
	return t
}
