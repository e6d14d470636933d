package services

import (
	"context"
	"testing"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/models"
)

func TestNotificationLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	if _, err := f.userSvc.ToggleFollow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	post, _ := f.postSvc.Create(ctx, alice.ID, models.CreatePostRequest{Text: "hi"})
	if _, err := f.postSvc.ToggleLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatal(err)
	}

	count, err := f.notifSvc.UnreadCount(ctx, alice.ID)
	if err != nil || count != 2 {
		t.Fatalf("unread = %d, %v", count, err)
	}

	list, err := f.notifSvc.List(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d notifications", len(list))
	}
	if list[0].Type != models.NotificationLike || list[1].Type != models.NotificationFollow {
		t.Fatalf("not newest first: %s, %s", list[0].Type, list[1].Type)
	}
	for _, n := range list {
		if n.Read {
			t.Fatal("listing should show the state before marking read")
		}
		if n.From == nil || n.From.Username != "bob" {
			t.Fatalf("actor not expanded: %+v", n.From)
		}
	}

	count, _ = f.notifSvc.UnreadCount(ctx, alice.ID)
	if count != 0 {
		t.Fatalf("unread after listing = %d", count)
	}
	list, _ = f.notifSvc.List(ctx, alice.ID)
	if !list[0].Read {
		t.Fatal("second listing should report read")
	}

	err = f.notifSvc.DeleteOne(ctx, bob.ID, list[0].ID)
	assertKind(t, err, apperror.KindForbidden)
	if err := f.notifSvc.DeleteOne(ctx, alice.ID, list[0].ID); err != nil {
		t.Fatal(err)
	}
	err = f.notifSvc.DeleteOne(ctx, alice.ID, list[0].ID)
	assertKind(t, err, apperror.KindNotFound)

	deleted, err := f.notifSvc.DeleteAll(ctx, alice.ID)
	if err != nil || deleted != 1 {
		t.Fatalf("DeleteAll = %d, %v", deleted, err)
	}
	list, err = f.notifSvc.List(ctx, alice.ID)
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("after delete: %v, %v", list, err)
	}
}
