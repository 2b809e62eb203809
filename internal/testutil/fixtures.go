package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
//
// Fixtures write straight to the collections so tests of one store do not
// depend on another store's write path.
type Fixtures struct {
	db    *mongo.Database
	t     *testing.T
	clock time.Time
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t, clock: time.Now().UTC().Truncate(time.Millisecond)}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// tick returns strictly increasing timestamps so created_at ordering is
// deterministic within a test.
func (f *Fixtures) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// NewIdentity returns a fresh external identity.
func NewIdentity() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateUser creates an onboarded user with the given username and name.
func (f *Fixtures) CreateUser(ctx context.Context, username, name string) models.User {
	f.t.Helper()

	now := f.tick()
	u := models.User{
		ID:          primitive.NewObjectID(),
		Identity:    NewIdentity(),
		Username:    strings.ToLower(username),
		Name:        name,
		Bio:         "bio of " + name,
		Image:       "https://img.test/" + username + ".png",
		Onboarded:   true,
		Threads:     []primitive.ObjectID{},
		Communities: []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

// CreateCommunity creates a community and adds it to each member's
// communities list, in call order.
func (f *Fixtures) CreateCommunity(ctx context.Context, name string, members ...models.User) models.Community {
	f.t.Helper()

	c := models.Community{
		ID:        primitive.NewObjectID(),
		Identity:  "org_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Username:  strings.ToLower(strings.ReplaceAll(name, " ", "")),
		Name:      name,
		Image:     "https://img.test/c.png",
		Bio:       "community " + name,
		Members:   []primitive.ObjectID{},
		CreatedAt: f.tick(),
	}
	for _, m := range members {
		c.Members = append(c.Members, m.ID)
	}
	if _, err := f.db.Collection("communities").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("CreateCommunity(%s): %v", name, err)
	}
	for _, m := range members {
		if _, err := f.db.Collection("users").UpdateByID(ctx, m.ID,
			bson.M{"$push": bson.M{"communities": c.ID}}); err != nil {
			f.t.Fatalf("CreateCommunity(%s) membership: %v", name, err)
		}
	}
	return c
}

// CreateThread creates a top-level thread by author and appends it to the
// author's threads. community may be nil.
func (f *Fixtures) CreateThread(ctx context.Context, author models.User, text string, community *primitive.ObjectID) models.Thread {
	f.t.Helper()

	th := models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    author.ID,
		Community: community,
		Children:  []primitive.ObjectID{},
		CreatedAt: f.tick(),
	}
	if _, err := f.db.Collection("threads").InsertOne(ctx, th); err != nil {
		f.t.Fatalf("CreateThread: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, author.ID,
		bson.M{"$push": bson.M{"threads": th.ID}}); err != nil {
		f.t.Fatalf("CreateThread push: %v", err)
	}
	return th
}

// CreateReply creates a reply by author under parent and appends it to the
// parent's children.
func (f *Fixtures) CreateReply(ctx context.Context, parent models.Thread, author models.User, text string) models.Thread {
	f.t.Helper()

	pid := parent.ID
	r := models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    author.ID,
		ParentID:  &pid,
		Children:  []primitive.ObjectID{},
		CreatedAt: f.tick(),
	}
	if _, err := f.db.Collection("threads").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("CreateReply: %v", err)
	}
	if _, err := f.db.Collection("threads").UpdateByID(ctx, parent.ID,
		bson.M{"$push": bson.M{"children": r.ID}}); err != nil {
		f.t.Fatalf("CreateReply push: %v", err)
	}
	return r
}
