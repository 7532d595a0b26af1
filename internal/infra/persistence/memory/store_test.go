package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"schedcore/internal/core"
	"schedcore/internal/infra/persistence/memory"
	"schedcore/pkg/domain"
)

func TestStoreCRUDRoundtrip(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()
	fixed := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })

	var school domain.School
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		school, err = tx.CreateSchool(domain.School{Name: "Roundtrip"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if school.ID == "" {
		t.Fatal("expected generated id")
	}
	if !school.CreatedAt.Equal(fixed) || !school.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected injected timestamps, got %v/%v", school.CreatedAt, school.UpdatedAt)
	}

	got, ok := store.GetSchool(school.ID)
	if !ok || got.Name != "Roundtrip" {
		t.Fatalf("get: %v %v", got, ok)
	}

	later := fixed.Add(time.Hour)
	store.SetNowFunc(func() time.Time { return later })
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateSchool(school.ID, func(s *domain.School) error {
			s.Name = "Renamed"
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = store.GetSchool(school.ID)
	if got.Name != "Renamed" || !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected record after update: %+v", got)
	}

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteSchool(school.ID)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.GetSchool(school.ID); ok {
		t.Fatal("expected school removed")
	}
}

func TestStoreNotFound(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateSchool("missing", func(*domain.School) error { return nil })
		return err
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found on update, got %v", err)
	}

	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeletePerson("missing")
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found on delete, got %v", err)
	}
}

func TestStoreGuardedDelete(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	var school domain.School
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		if school, err = tx.CreateSchool(domain.School{Name: "Guarded"}); err != nil {
			return err
		}
		_, err = tx.CreatePerson(domain.Person{SchoolID: school.ID, Name: "Dep", Role: domain.RoleTeacher, Status: domain.StatusActive})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteSchool(school.ID)
	})
	var blocked domain.BlockedDeleteError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected blocked delete, got %v", err)
	}
	if len(blocked.Dependents) != 1 {
		t.Fatalf("expected one dependent, got %v", blocked.Dependents)
	}
	if _, ok := store.GetSchool(school.ID); !ok {
		t.Fatal("school must survive")
	}
}

func TestStoreRollbackOnError(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.CreateSchool(domain.School{Name: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := len(store.ListSchools()); n != 0 {
		t.Fatalf("expected rollback, found %d schools", n)
	}
}

func TestStoreCommitRulesBlock(t *testing.T) {
	store := memory.NewStore(core.NewDefaultRulesEngine())
	ctx := context.Background()

	res, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		school, err := tx.CreateSchool(domain.School{Name: "Ruled"})
		if err != nil {
			return err
		}
		// dangling teacher reference must be rejected at commit
		_, err = tx.CreateTeacherField(domain.TeacherField{SchoolID: school.ID, TeacherID: "ghost", FieldID: "ghost"})
		return err
	})
	var rv domain.RuleViolationError
	if !errors.As(err, &rv) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if len(res.Violations) == 0 {
		t.Fatal("expected violations in the result")
	}
	if n := len(store.ListSchools()) + len(store.ListTeacherFields()); n != 0 {
		t.Fatalf("expected full rollback, found %d records", n)
	}
}

func TestStoreExportImport(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	var school domain.School
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		if school, err = tx.CreateSchool(domain.School{Name: "Exported"}); err != nil {
			return err
		}
		_, err = tx.CreatePerson(domain.Person{SchoolID: school.ID, Name: "Pat", Role: domain.RoleCoordinator, Status: domain.StatusActive})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snapshot := store.ExportState()
	restored := memory.NewStore(nil)
	restored.ImportState(snapshot)

	if got, ok := restored.GetSchool(school.ID); !ok || got.Name != "Exported" {
		t.Fatalf("expected school restored, got %v %v", got, ok)
	}
	if n := len(restored.ListPeople()); n != 1 {
		t.Fatalf("expected one person restored, got %d", n)
	}

	// The snapshot is a deep copy; mutating the source afterwards must not
	// leak into the restored store.
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateSchool(school.ID, func(s *domain.School) error {
			s.Name = "Mutated"
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if got, _ := restored.GetSchool(school.ID); got.Name != "Exported" {
		t.Fatalf("snapshot leaked source mutation: %+v", got)
	}
}

func TestStoreViewIsolation(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateSchool(domain.School{Name: "Viewed"})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := store.View(ctx, func(view domain.TransactionView) error {
		schools := view.ListSchools()
		if len(schools) != 1 {
			t.Fatalf("expected one school, got %d", len(schools))
		}
		schools[0].Name = "Scribbled"
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if got := store.ListSchools()[0].Name; got != "Viewed" {
		t.Fatalf("view mutation leaked into store: %q", got)
	}
}
