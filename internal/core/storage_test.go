package core_test

import (
	"path/filepath"
	"testing"

	"schedcore/internal/core"
	"schedcore/internal/infra/persistence/memory"
	"schedcore/internal/infra/persistence/sqlite"
)

func TestOpenPersistentStoreDrivers(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		t.Setenv("SCHEDCORE_STORAGE_DRIVER", "memory")
		store, err := core.OpenPersistentStore(nil)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if _, ok := store.(*memory.Store); !ok {
			t.Fatalf("expected memory store, got %T", store)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("SCHEDCORE_STORAGE_DRIVER", "sqlite")
		t.Setenv("SCHEDCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "test.db"))
		store, err := core.OpenPersistentStore(nil)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		s, ok := store.(*sqlite.Store)
		if !ok {
			t.Fatalf("expected sqlite store, got %T", store)
		}
		_ = s.Close()
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("SCHEDCORE_STORAGE_DRIVER", "dynamo")
		if _, err := core.OpenPersistentStore(nil); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})
}
