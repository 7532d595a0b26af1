package core

import (
	"context"
	"testing"

	"schedcore/internal/infra/persistence/memory"
	"schedcore/pkg/domain"
)

func TestUniqueNamesRule(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	var (
		schoolA, schoolB domain.School
		levelA, levelB   domain.Level
		mathA, mathDup   domain.Field
	)
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		if schoolA, err = tx.CreateSchool(domain.School{Name: "School A"}); err != nil {
			return err
		}
		if schoolB, err = tx.CreateSchool(domain.School{Name: "school a"}); err != nil {
			return err
		}
		if mathA, err = tx.CreateField(domain.Field{SchoolID: schoolA.ID, Name: "Math"}); err != nil {
			return err
		}
		if mathDup, err = tx.CreateField(domain.Field{SchoolID: schoolA.ID, Name: "MATH"}); err != nil {
			return err
		}
		// same folded name in a different school is fine
		if _, err = tx.CreateField(domain.Field{SchoolID: schoolB.ID, Name: "math"}); err != nil {
			return err
		}
		schedA, err := tx.CreateSchedule(domain.Schedule{SchoolID: schoolA.ID, Name: "Grid"})
		if err != nil {
			return err
		}
		if levelA, err = tx.CreateLevel(domain.Level{SchoolID: schoolA.ID, ScheduleID: schedA.ID, Name: "L1"}); err != nil {
			return err
		}
		if levelB, err = tx.CreateLevel(domain.Level{SchoolID: schoolA.ID, ScheduleID: schedA.ID, Name: "L2"}); err != nil {
			return err
		}
		// group names are scoped to the level, so "7A" twice is legal here
		if _, err = tx.CreateGroup(domain.Group{SchoolID: schoolA.ID, LevelID: levelA.ID, Name: "7A"}); err != nil {
			return err
		}
		_, err = tx.CreateGroup(domain.Group{SchoolID: schoolA.ID, LevelID: levelB.ID, Name: "7A"})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rule := NewUniqueNamesRule()
	var res domain.Result
	if err := store.View(ctx, func(view domain.TransactionView) error {
		var err error
		res, err = rule.Evaluate(ctx, view, nil)
		return err
	}); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	byEntity := map[EntityType][]Violation{}
	for _, v := range res.Violations {
		if v.Code != CodeDuplicateName {
			t.Fatalf("unexpected code %s", v.Code)
		}
		byEntity[v.Entity] = append(byEntity[v.Entity], v)
	}

	if got := byEntity[EntitySchool]; len(got) != 1 {
		t.Fatalf("expected one school violation, got %d", len(got))
	} else {
		loser := schoolB.ID
		if precedes(schoolB.Base, schoolA.Base) {
			loser = schoolA.ID
		}
		if got[0].EntityID != loser {
			t.Fatalf("expected later school %s flagged, got %s", loser, got[0].EntityID)
		}
	}

	if got := byEntity[EntityField]; len(got) != 1 {
		t.Fatalf("expected one field violation, got %d", len(got))
	} else {
		loser := mathDup.ID
		if precedes(mathDup.Base, mathA.Base) {
			loser = mathA.ID
		}
		if got[0].EntityID != loser {
			t.Fatalf("expected later field %s flagged, got %s", loser, got[0].EntityID)
		}
	}

	if got := byEntity[EntityGroup]; len(got) != 0 {
		t.Fatalf("groups in different levels must not collide: %+v", got)
	}
	if got := byEntity[EntityLevel]; len(got) != 0 {
		t.Fatalf("distinct level names flagged: %+v", got)
	}
}

func TestFoldName(t *testing.T) {
	if foldName("Straße") != foldName("STRASSE") {
		t.Fatal("expected full case folding, not simple lowercasing")
	}
	if foldName("Math") == foldName("Maths") {
		t.Fatal("distinct names must not fold together")
	}
}
