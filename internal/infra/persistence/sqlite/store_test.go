package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"schedcore/pkg/domain"
)

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var school domain.School
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		if school, err = tx.CreateSchool(domain.School{Name: "Durable"}); err != nil {
			return err
		}
		_, err = tx.CreatePerson(domain.Person{SchoolID: school.ID, Name: "Pat", Role: domain.RoleCoordinator, Status: domain.StatusActive})
		return err
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, ok := reopened.GetSchool(school.ID)
	if !ok || got.Name != "Durable" {
		t.Fatalf("expected school restored, got %v %v", got, ok)
	}
	if n := len(reopened.ListPeople()); n != 1 {
		t.Fatalf("expected one person restored, got %d", n)
	}
}

func TestRolledBackTransactionIsNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.CreateSchool(domain.School{Name: "Ghost"}); err != nil {
			return err
		}
		return context.Canceled
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if n := len(reopened.ListSchools()); n != 0 {
		t.Fatalf("rolled back write leaked to disk: %d schools", n)
	}
}
