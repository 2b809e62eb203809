package threadstore_test

import (
	"testing"

	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/dalemusser/threadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_PushesOntoAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	u := fx.CreateUser(ctx, "alice", "Alice")
	th, err := store.Create(ctx, models.Thread{Text: "hello", Author: u.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if th.ID.IsZero() || th.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be assigned")
	}
	if th.Children == nil {
		t.Error("expected children to be an empty slice")
	}

	var got models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": u.ID}).Decode(&got); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if len(got.Threads) != 1 || got.Threads[0] != th.ID {
		t.Errorf("expected author threads [%s], got %v", th.ID.Hex(), got.Threads)
	}
}

func TestStore_AddReply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "alice", "Alice")
	bob := fx.CreateUser(ctx, "bob", "Bob")
	parent := fx.CreateThread(ctx, alice, "root", nil)

	reply, err := store.AddReply(ctx, parent.ID, models.Thread{Text: "re", Author: bob.ID})
	if err != nil {
		t.Fatalf("AddReply failed: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Error("expected reply to point at its parent")
	}

	var p models.Thread
	if err := db.Collection("threads").FindOne(ctx, bson.M{"_id": parent.ID}).Decode(&p); err != nil {
		t.Fatalf("load parent: %v", err)
	}
	if len(p.Children) != 1 || p.Children[0] != reply.ID {
		t.Errorf("expected parent children [%s], got %v", reply.ID.Hex(), p.Children)
	}
}

func TestStore_AddReply_MissingParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.AddReply(ctx, primitive.NewObjectID(), models.Thread{Text: "orphan"})
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_ChildIDsByAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "alice", "Alice")
	bob := fx.CreateUser(ctx, "bob", "Bob")

	t1 := fx.CreateThread(ctx, alice, "one", nil)
	t2 := fx.CreateThread(ctx, alice, "two", nil)
	r1 := fx.CreateReply(ctx, t1, bob, "r1")
	r2 := fx.CreateReply(ctx, t2, alice, "r2")
	fx.CreateThread(ctx, bob, "bob's own", nil)

	ids, err := store.ChildIDsByAuthor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ChildIDsByAuthor failed: %v", err)
	}
	// r2 is itself authored by alice and has no children, so only the
	// children of t1 and t2 appear.
	if len(ids) != 2 || ids[0] != r1.ID || ids[1] != r2.ID {
		t.Errorf("expected [%s %s], got %v", r1.ID.Hex(), r2.ID.Hex(), ids)
	}

	none, err := store.ChildIDsByAuthor(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ChildIDsByAuthor failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}
