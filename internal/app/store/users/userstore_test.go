package userstore_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/search"
	"github.com/dalemusser/threadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newStore(t *testing.T) (*userstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	return store, testutil.NewFixtures(t, db)
}

func TestStore_Upsert_CreatesUser(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Upsert(ctx, userstore.Profile{
		Identity: "user_1",
		Username: "Alice",
		Name:     "Alice A",
		Bio:      "hi",
		Image:    "a.png",
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	u, err := store.GetByIdentity(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetByIdentity failed: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("expected username lower-cased to alice, got %q", u.Username)
	}
	if !u.Onboarded {
		t.Error("expected onboarded=true")
	}
	if u.Threads == nil || u.Communities == nil {
		t.Error("expected threads and communities to be empty arrays, not null")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Upsert_UpdatesInPlace(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := userstore.Profile{Identity: "user_1", Username: "alice", Name: "Alice", Bio: "one"}
	if err := store.Upsert(ctx, p); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	first, _ := store.GetByIdentity(ctx, "user_1")

	p.Bio = "two"
	if err := store.Upsert(ctx, p); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	second, err := store.GetByIdentity(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetByIdentity failed: %v", err)
	}

	if second.ID != first.ID {
		t.Error("expected the same document to be updated")
	}
	if second.Bio != "two" {
		t.Errorf("expected bio two, got %q", second.Bio)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("created_at must not change on update")
	}
}

func TestStore_Upsert_Idempotent(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := userstore.Profile{Identity: "user_1", Username: "Bob", Name: "Bob", Bio: "b", Image: "b.png"}
	for i := 0; i < 3; i++ {
		if err := store.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert %d failed: %v", i, err)
		}
	}

	res, err := store.Search(ctx, userstore.SearchFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("expected exactly one user, got %d", res.Total)
	}
}

func TestStore_Upsert_DuplicateUsername(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Upsert(ctx, userstore.Profile{Identity: "user_1", Username: "taken"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	err := store.Upsert(ctx, userstore.Profile{Identity: "user_2", Username: "TAKEN"})
	if !errors.Is(err, userstore.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestStore_Upsert_ConcurrentFirstWrites(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Upsert(ctx, userstore.Profile{Identity: "user_race", Username: "racer", Name: fmt.Sprintf("Racer %d", i)})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Upsert[%d] failed: %v", i, err)
		}
		if errors.Is(err, userstore.ErrUsernameTaken) {
			t.Errorf("Upsert[%d]: same identity must never report the username as taken", i)
		}
	}
	count, err := fx.DB().Collection("users").CountDocuments(ctx, bson.M{"id": "user_race"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one document for the identity, got %d", count)
	}
}

func TestStore_GetByIdentity_NotFound(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByIdentity(ctx, "nobody")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_IDByIdentity(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "carol", "Carol")

	id, err := store.IDByIdentity(ctx, u.Identity)
	if err != nil {
		t.Fatalf("IDByIdentity failed: %v", err)
	}
	if id != u.ID {
		t.Errorf("expected %s, got %s", u.ID.Hex(), id.Hex())
	}

	if _, err := store.IDByIdentity(ctx, "missing"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_AddCommunity(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "dave", "Dave")
	cid := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if err := store.AddCommunity(ctx, u.Identity, cid); err != nil {
			t.Fatalf("AddCommunity failed: %v", err)
		}
	}

	got, _ := store.GetByIdentity(ctx, u.Identity)
	if len(got.Communities) != 1 || got.Communities[0] != cid {
		t.Errorf("expected exactly one community %s, got %v", cid.Hex(), got.Communities)
	}

	if err := store.AddCommunity(ctx, "missing", cid); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for unknown user, got %v", err)
	}
}

func TestStore_Search_ExcludesCaller(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "me", "Me")
	fx.CreateUser(ctx, "other", "Other")

	res, err := store.Search(ctx, userstore.SearchFilter{ExcludeIdentity: me.Identity, Limit: 20})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Total != 1 || len(res.Users) != 1 {
		t.Fatalf("expected one user, got total=%d len=%d", res.Total, len(res.Users))
	}
	if res.Users[0].Identity == me.Identity {
		t.Error("caller must be excluded from search results")
	}
}

func TestStore_Search_Pagination(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 25; i++ {
		fx.CreateUser(ctx, fmt.Sprintf("user%02d", i), fmt.Sprintf("User %02d", i))
	}

	page1, err := store.Search(ctx, userstore.SearchFilter{Skip: 0, Limit: 10})
	if err != nil {
		t.Fatalf("Search page 1 failed: %v", err)
	}
	if page1.Total != 25 || len(page1.Users) != 10 {
		t.Errorf("page 1: expected total=25 len=10, got total=%d len=%d", page1.Total, len(page1.Users))
	}
	// Newest first by default.
	if page1.Users[0].Username != "user24" {
		t.Errorf("expected newest user first, got %q", page1.Users[0].Username)
	}

	page3, err := store.Search(ctx, userstore.SearchFilter{Skip: 20, Limit: 10})
	if err != nil {
		t.Fatalf("Search page 3 failed: %v", err)
	}
	if len(page3.Users) != 5 {
		t.Errorf("page 3: expected 5 users, got %d", len(page3.Users))
	}

	asc, err := store.Search(ctx, userstore.SearchFilter{Limit: 1, SortDir: 1})
	if err != nil {
		t.Fatalf("Search asc failed: %v", err)
	}
	if len(asc.Users) != 1 || asc.Users[0].Username != "user00" {
		t.Errorf("expected oldest user first in ascending order, got %+v", asc.Users)
	}
}

func TestStore_Search_MatchesUsernameOrName(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "johnny", "J Smith")
	fx.CreateUser(ctx, "zed", "John Doe")
	fx.CreateUser(ctx, "amy", "Amy")

	res, err := store.Search(ctx, userstore.SearchFilter{
		Match: search.AnyField("JOHN", search.Literal, "username", "name"),
		Limit: 20,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("expected 2 matches for JOHN, got %d", res.Total)
	}
}

func TestStore_Search_Empty(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res, err := store.Search(ctx, userstore.SearchFilter{Limit: 20})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Users == nil {
		t.Error("expected an empty slice, not nil")
	}
	if res.Total != 0 {
		t.Errorf("expected 0, got %d", res.Total)
	}
}
