package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testDatabase connects to CHIRP_TEST_MONGO_URI and hands out a throwaway
// database. The in-memory repositories mirror these semantics, so this is the
// check that both still agree.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("CHIRP_TEST_MONGO_URI")
	if uri == "" || testing.Short() {
		t.Skip("CHIRP_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connecting to mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("pinging mongo: %v", err)
	}

	db := client.Database(fmt.Sprintf("chirp_test_%d", time.Now().UnixNano()))
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestMongoFollowingToggle(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)

	alice := &models.User{Username: "alice", Email: "alice@example.com"}
	bob := &models.User{Username: "bob", Email: "bob@example.com"}
	for _, u := range []*models.User{alice, bob} {
		if err := users.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	if err := users.CreateUser(ctx, &models.User{Username: "alice", Email: "x@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username: %v", err)
	}

	for i, want := range []bool{true, false} {
		added, err := users.AddFollowing(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatal(err)
		}
		if added != want {
			t.Fatalf("AddFollowing #%d = %v, want %v", i+1, added, want)
		}
	}
	for i, want := range []bool{true, false} {
		removed, err := users.RemoveFollowing(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatal(err)
		}
		if removed != want {
			t.Fatalf("RemoveFollowing #%d = %v, want %v", i+1, removed, want)
		}
	}

	if err := users.AddFollower(ctx, primitive.NewObjectID(), alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AddFollower on missing user: %v", err)
	}
}

func TestMongoLikeToggle(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	posts := NewMongoPostRepository(db)

	post := &models.Post{UserID: primitive.NewObjectID(), Text: "hi"}
	if err := posts.CreatePost(ctx, post); err != nil {
		t.Fatal(err)
	}
	liker := primitive.NewObjectID()

	for i, want := range []bool{true, false} {
		added, err := posts.AddLike(ctx, post.ID, liker)
		if err != nil {
			t.Fatal(err)
		}
		if added != want {
			t.Fatalf("AddLike #%d = %v, want %v", i+1, added, want)
		}
	}
	for i, want := range []bool{true, false} {
		removed, err := posts.RemoveLike(ctx, post.ID, liker)
		if err != nil {
			t.Fatal(err)
		}
		if removed != want {
			t.Fatalf("RemoveLike #%d = %v, want %v", i+1, removed, want)
		}
	}

	if _, err := posts.AddLike(ctx, primitive.NewObjectID(), liker); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AddLike on missing post: %v", err)
	}
}
