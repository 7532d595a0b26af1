package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"schedcore/internal/blob/core"
)

func TestStoreLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	info, err := store.Put(ctx, "k1", strings.NewReader("hello"), core.PutOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 5 || info.ETag == "" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if _, err := store.Put(ctx, "k1", strings.NewReader("again"), core.PutOptions{}); err == nil {
		t.Fatal("expected create-only semantics")
	}

	got, rc, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "hello" || got.ContentType != "text/plain" {
		t.Fatalf("unexpected get: %q %+v", body, got)
	}

	if _, err := store.Head(ctx, "absent"); err == nil {
		t.Fatal("expected head miss")
	}

	existed, err := store.Delete(ctx, "k1")
	if err != nil || !existed {
		t.Fatalf("delete: %v existed=%v", err, existed)
	}
	existed, _ = store.Delete(ctx, "k1")
	if existed {
		t.Fatal("second delete must report absence")
	}
}

func TestStoreListSorted(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, key := range []string{"p/b", "p/a", "q/c"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "p/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "p/a" || infos[1].Key != "p/b" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
}

func TestPresignUnsupported(t *testing.T) {
	store := New()
	if _, err := store.PresignURL(context.Background(), "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}
