package core_test

import (
	"context"
	"errors"
	"testing"

	"schedcore/internal/core"
	"schedcore/internal/infra/persistence/memory"
	"schedcore/pkg/domain"
)

// flakyStore lets a fixed number of transactions through, then refuses the
// rest, simulating a backend outage in the middle of a cascade walk.
type flakyStore struct {
	*memory.Store
	allow int
	calls int
}

func (f *flakyStore) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	f.calls++
	if f.calls > f.allow {
		return domain.Result{}, errors.New("backend unavailable")
	}
	return f.Store.RunInTransaction(ctx, fn)
}

func TestCascadePartialFailureAndResume(t *testing.T) {
	mem := memory.NewStore(core.NewDefaultRulesEngine())
	ctx := context.Background()

	var level domain.Level
	var counts = map[domain.EntityType]int{}
	if _, err := mem.RunInTransaction(ctx, func(tx domain.Transaction) error {
		school, err := tx.CreateSchool(domain.School{Name: "Outage High"})
		if err != nil {
			return err
		}
		schedule, err := tx.CreateSchedule(domain.Schedule{SchoolID: school.ID, Name: "Grid"})
		if err != nil {
			return err
		}
		if level, err = tx.CreateLevel(domain.Level{SchoolID: school.ID, ScheduleID: schedule.ID, Name: "L1"}); err != nil {
			return err
		}
		group, err := tx.CreateGroup(domain.Group{SchoolID: school.ID, LevelID: level.ID, Name: "G1"})
		if err != nil {
			return err
		}
		field, err := tx.CreateField(domain.Field{SchoolID: school.ID, Name: "Math"})
		if err != nil {
			return err
		}
		subject, err := tx.CreateSubject(domain.Subject{SchoolID: school.ID, LevelID: level.ID, FieldID: field.ID, Name: "Alg"})
		if err != nil {
			return err
		}
		_, err = tx.CreateSession(domain.Session{SchoolID: school.ID, LevelID: level.ID, GroupID: group.ID, SubjectID: subject.ID, StartMinute: 480})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	counts[domain.EntitySession] = 1
	counts[domain.EntitySubject] = 1
	counts[domain.EntityGroup] = 1
	counts[domain.EntityLevel] = 1

	// Batches run children-first: sessions, subjects, groups, level. Let two
	// through, then cut the backend.
	flaky := &flakyStore{Store: mem, allow: 2}
	result, err := core.CascadeDelete(ctx, flaky, domain.EntityLevel, level.ID, level.SchoolID)
	var partial domain.PartialCascadeError
	if !errors.As(err, &partial) {
		t.Fatalf("expected partial cascade error, got %v", err)
	}
	if partial.Step != "delete "+string(domain.EntityGroup) {
		t.Fatalf("expected failure at the group batch, got %q", partial.Step)
	}
	if len(result.Deleted[domain.EntitySession]) != 1 || len(result.Deleted[domain.EntitySubject]) != 1 {
		t.Fatalf("committed batches must be reported: %+v", result.Deleted)
	}
	if len(result.Deleted[domain.EntityGroup]) != 0 {
		t.Fatalf("failed batch must not be reported: %+v", result.Deleted)
	}
	if _, ok := mem.GetLevel(level.ID); !ok {
		t.Fatal("level must survive the aborted walk")
	}

	// Re-invoking against the healthy store converges on the same end state.
	resumed, err := core.CascadeDelete(ctx, mem, domain.EntityLevel, level.ID, level.SchoolID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	total := result.DeletedCount() + resumed.DeletedCount()
	want := 0
	for _, n := range counts {
		want += n
	}
	if total != want {
		t.Fatalf("expected %d records removed across both runs, got %d", want, total)
	}
	if _, ok := mem.GetLevel(level.ID); ok {
		t.Fatal("level must be gone after resume")
	}
	if n := len(mem.ListSessions()) + len(mem.ListSubjects()) + len(mem.ListGroups()); n != 0 {
		t.Fatalf("expected no level children left, found %d", n)
	}
}

func TestCascadeCleanFailureIsNotPartial(t *testing.T) {
	mem := memory.NewStore(core.NewDefaultRulesEngine())
	ctx := context.Background()

	var school domain.School
	if _, err := mem.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		school, err = tx.CreateSchool(domain.School{Name: "Solo"})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// First transaction already fails: no progress was made, so the error
	// passes through undecorated.
	flaky := &flakyStore{Store: mem, allow: 0}
	_, err := core.CascadeDelete(ctx, flaky, domain.EntitySchool, school.ID, school.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	var partial domain.PartialCascadeError
	if errors.As(err, &partial) {
		t.Fatalf("zero-progress failure must not be partial: %v", err)
	}
	if _, ok := mem.GetSchool(school.ID); !ok {
		t.Fatal("school must survive")
	}
}
