package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "files/abc.txt", strings.NewReader("hello")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rc, err := store.Open(ctx, "files/abc.txt")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "hello" {
		t.Errorf("got %q", data)
	}

	path, release, err := store.LocalPath(ctx, "files/abc.txt")
	if err != nil {
		t.Fatal(err)
	}
	release()
	if _, err := os.Stat(path); err != nil {
		t.Error("release must not remove a local blob")
	}

	if err := store.Delete(ctx, "files/abc.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(ctx, "files/abc.txt"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "files/abc.txt"); err != nil {
		t.Errorf("deleting a missing blob should be a no-op, got %v", err)
	}
}

func TestLocalStore_MissingPath(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())
	if _, _, err := store.LocalPath(context.Background(), "files/none.pdf"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestLocalStore_RejectsEscape(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())
	if err := store.Put(context.Background(), "../outside.txt", strings.NewReader("x")); err == nil {
		t.Error("expected keys outside the root to be rejected")
	}
}
