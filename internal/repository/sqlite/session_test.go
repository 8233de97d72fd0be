package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/snippet-board/internal/domain"
)

func TestSessionStore_SaveAndGet(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()

	data := &domain.SessionData{
		Auth:     true,
		Username: "alice",
		Flash:    &domain.Flash{Kind: domain.FlashSuccess, Message: "hi"},
	}
	if err := store.Save(ctx, "sid-1", data, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Auth || got.Username != "alice" {
		t.Fatalf("unexpected session data: %+v", got)
	}
	if got.Flash == nil || got.Flash.Message != "hi" {
		t.Fatalf("expected flash to round trip, got %+v", got.Flash)
	}
}

func TestSessionStore_SaveOverwrites(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	if err := store.Save(ctx, "sid", &domain.SessionData{Username: "a"}, exp); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "sid", &domain.SessionData{Username: "b"}, exp); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	got, err := store.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Username != "b" {
		t.Fatalf("expected username b, got %q", got.Username)
	}
}

func TestSessionStore_Expired(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()

	if err := store.Save(ctx, "old", &domain.SessionData{}, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Get(ctx, "old"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired session, got %v", err)
	}

	n, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired session removed, got %d", n)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()

	if err := store.Save(ctx, "sid", &domain.SessionData{Auth: true}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "sid"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "sid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
