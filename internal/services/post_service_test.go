package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories/memory"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreatePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")

	view, err := f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Text: "  hello  "})
	if err != nil {
		t.Fatal(err)
	}
	if view.Text != "hello" || view.User == nil || view.User.ID != alice.ID {
		t.Fatalf("unexpected post: %+v", view)
	}

	view, err = f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Image: pngPayload})
	if err != nil {
		t.Fatal(err)
	}
	if view.Img == "" {
		t.Fatal("image reference not stored")
	}

	_, err = f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Text: "   "})
	assertKind(t, err, apperror.KindInvalidInput)

	_, err = f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Image: "data:text/plain;base64,aGVsbG8="})
	assertKind(t, err, apperror.KindInvalidInput)
}

// brokenPosts refuses every insert
type brokenPosts struct {
	*memory.PostRepository
}

func (brokenPosts) CreatePost(context.Context, *models.Post) error {
	return errors.New("store unavailable")
}

func TestCreatePostReleasesImageOnFailure(t *testing.T) {
	f := newFixture()
	alice := f.register(t, "alice")

	svc := NewPostService(brokenPosts{f.posts}, f.users, f.notifications, f.media)
	_, err := svc.Create(context.Background(), alice.ID, models.CreatePostRequest{Image: pngPayload})
	assertKind(t, err, apperror.KindInternal)

	if len(f.media.uploaded) != 1 || len(f.media.released) != 1 || f.media.released[0] != f.media.uploaded[0] {
		t.Fatalf("uploaded=%v released=%v", f.media.uploaded, f.media.released)
	}
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	post, err := f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Text: "hi", Image: pngPayload})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.postSvc.ToggleLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatal(err)
	}

	err = f.postSvc.Delete(ctx, bob.ID, post.ID)
	assertKind(t, err, apperror.KindForbidden)
	if _, err := f.posts.GetPostByID(ctx, post.ID); err != nil {
		t.Fatalf("post gone after forbidden delete: %v", err)
	}

	if err := f.postSvc.Delete(ctx, alice.ID, post.ID); err != nil {
		t.Fatal(err)
	}
	err = f.postSvc.Delete(ctx, alice.ID, post.ID)
	assertKind(t, err, apperror.KindNotFound)

	if len(f.media.released) != 1 || f.media.released[0] != post.Img {
		t.Fatalf("image not released: %v", f.media.released)
	}
	b, _ := f.users.GetUserByID(ctx, bob.ID)
	if len(b.LikedPosts) != 0 {
		t.Fatalf("deleted post still liked: %v", b.LikedPosts)
	}
}

// stuckPosts refuses every delete
type stuckPosts struct {
	*memory.PostRepository
}

func (stuckPosts) DeletePost(context.Context, primitive.ObjectID) error {
	return errors.New("store unavailable")
}

func TestDeletePostKeepsImageWhenDeleteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")

	post, err := f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Image: pngPayload})
	if err != nil {
		t.Fatal(err)
	}

	svc := NewPostService(stuckPosts{f.posts}, f.users, f.notifications, f.media)
	err = svc.Delete(ctx, alice.ID, post.ID)
	assertKind(t, err, apperror.KindInternal)

	if len(f.media.released) != 0 {
		t.Fatalf("image of surviving post released: %v", f.media.released)
	}
	if _, err := f.posts.GetPostByID(ctx, post.ID); err != nil {
		t.Fatalf("post gone: %v", err)
	}
}

func TestToggleLike(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	post, err := f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}

	liked, err := f.postSvc.ToggleLike(ctx, bob.ID, post.ID)
	if err != nil || !liked {
		t.Fatalf("like = %v, %v", liked, err)
	}
	p, _ := f.posts.GetPostByID(ctx, post.ID)
	b, _ := f.users.GetUserByID(ctx, bob.ID)
	if !p.IsLikedBy(bob.ID) || len(b.LikedPosts) != 1 {
		t.Fatalf("like not recorded on both sides: likes=%v liked=%v", p.Likes, b.LikedPosts)
	}

	notifications, _ := f.notifications.GetByRecipientID(ctx, alice.ID.Hex())
	if len(notifications) != 1 || notifications[0].Type != models.NotificationLike || notifications[0].FromID != bob.ID.Hex() {
		t.Fatalf("unexpected notifications: %+v", notifications)
	}

	liked, err = f.postSvc.ToggleLike(ctx, bob.ID, post.ID)
	if err != nil || liked {
		t.Fatalf("unlike = %v, %v", liked, err)
	}
	p, _ = f.posts.GetPostByID(ctx, post.ID)
	b, _ = f.users.GetUserByID(ctx, bob.ID)
	if len(p.Likes) != 0 || len(b.LikedPosts) != 0 {
		t.Fatalf("unlike left state behind: likes=%v liked=%v", p.Likes, b.LikedPosts)
	}
	count, _ := f.notifications.GetUnreadCount(ctx, alice.ID.Hex())
	if count != 1 {
		t.Fatalf("unlike changed notification count to %d", count)
	}

	// odd toggles like, even toggles unlike
	for i := 3; i <= 6; i++ {
		liked, err = f.postSvc.ToggleLike(ctx, bob.ID, post.ID)
		if err != nil {
			t.Fatal(err)
		}
		p, _ = f.posts.GetPostByID(ctx, post.ID)
		b, _ = f.users.GetUserByID(ctx, bob.ID)
		want := i%2 == 1
		if liked != want || p.IsLikedBy(bob.ID) != want || (len(b.LikedPosts) == 1) != want {
			t.Fatalf("toggle %d: liked=%v likes=%v likedPosts=%v", i, liked, p.Likes, b.LikedPosts)
		}
	}

	_, err = f.postSvc.ToggleLike(ctx, bob.ID, primitive.NewObjectID())
	assertKind(t, err, apperror.KindNotFound)
}

// vanishingPosts loses the post between the read and the like
type vanishingPosts struct {
	*memory.PostRepository
}

func (r vanishingPosts) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	if err := r.DeletePost(ctx, postID); err != nil {
		return false, err
	}
	return r.PostRepository.AddLike(ctx, postID, userID)
}

func TestToggleLikeOnVanishedPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	post, err := f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}

	svc := NewPostService(vanishingPosts{f.posts}, f.users, f.notifications, f.media)
	_, err = svc.ToggleLike(ctx, bob.ID, post.ID)
	assertKind(t, err, apperror.KindNotFound)

	b, _ := f.users.GetUserByID(ctx, bob.ID)
	if len(b.LikedPosts) != 0 {
		t.Fatalf("vanished post recorded as liked: %v", b.LikedPosts)
	}
}

func TestCommentOnPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	post, err := f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}

	view, err := f.postSvc.Comment(ctx, bob.ID, post.ID, " nice ")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Comments) != 1 {
		t.Fatalf("got %d comments", len(view.Comments))
	}
	c := view.Comments[0]
	if c.Text != "nice" || c.User == nil || c.User.ID != bob.ID || c.ID.IsZero() {
		t.Fatalf("unexpected comment: %+v", c)
	}

	_, err = f.postSvc.Comment(ctx, bob.ID, post.ID, "  ")
	assertKind(t, err, apperror.KindInvalidInput)
	_, err = f.postSvc.Comment(ctx, bob.ID, primitive.NewObjectID(), "hello")
	assertKind(t, err, apperror.KindNotFound)
}

func TestPostListings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")

	first, _ := f.postSvc.Create(ctx, bob.ID, models.CreatePostRequest{Text: "first"})
	second, _ := f.postSvc.Create(ctx, carol.ID, models.CreatePostRequest{Text: "second"})
	third, _ := f.postSvc.Create(ctx, bob.ID, models.CreatePostRequest{Text: "third"})

	all, err := f.postSvc.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[2].ID != first.ID {
		t.Fatalf("ListAll not newest first")
	}

	feed, err := f.postSvc.ListFollowing(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if feed == nil || len(feed) != 0 {
		t.Fatalf("empty feed should be an empty slice, got %v", feed)
	}

	if _, err := f.userSvc.ToggleFollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatal(err)
	}
	feed, _ = f.postSvc.ListFollowing(ctx, alice.ID)
	if len(feed) != 2 || feed[0].ID != third.ID || feed[1].ID != first.ID {
		t.Fatalf("following feed = %d posts", len(feed))
	}

	byCarol, err := f.postSvc.ListByUsername(ctx, "carol")
	if err != nil {
		t.Fatal(err)
	}
	if len(byCarol) != 1 || byCarol[0].ID != second.ID || byCarol[0].User.Username != "carol" {
		t.Fatalf("unexpected posts by carol: %+v", byCarol)
	}
	_, err = f.postSvc.ListByUsername(ctx, "ghost")
	assertKind(t, err, apperror.KindNotFound)

	liked, err := f.postSvc.ListLikedBy(ctx, alice.ID)
	if err != nil || len(liked) != 0 {
		t.Fatalf("liked = %v, %v", liked, err)
	}
	f.postSvc.ToggleLike(ctx, alice.ID, second.ID)
	liked, _ = f.postSvc.ListLikedBy(ctx, alice.ID)
	if len(liked) != 1 || liked[0].ID != second.ID {
		t.Fatalf("liked posts = %+v", liked)
	}
	_, err = f.postSvc.ListLikedBy(ctx, primitive.NewObjectID())
	assertKind(t, err, apperror.KindNotFound)
}
