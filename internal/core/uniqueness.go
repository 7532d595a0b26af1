package core

import (
	"context"
	"fmt"

	"schedcore/pkg/domain"
)

// NaturalKey carries the uniqueness key for an entity type. Name is used for
// named entities (with LevelID scoping groups and subjects); the id fields
// form the exact pair key for assignment entities.
type NaturalKey struct {
	Name          string
	LevelID       string
	TeacherID     string
	FieldID       string
	GroupID       string
	CoordinatorID string
}

// UniqueMatch identifies the record already holding a natural key.
type UniqueMatch struct {
	Entity EntityType `json:"entity"`
	ID     string     `json:"id"`
	Name   string     `json:"name,omitempty"`
}

// CheckUnique reports the existing record holding the given natural key, or
// nil when the key is free. Name comparison uses Unicode case folding; pair
// comparison is exact. School names are checked store-wide, everything else
// within the tenant.
func CheckUnique(ctx context.Context, store domain.PersistentStore, entity EntityType, schoolID string, key NaturalKey) (*UniqueMatch, error) {
	var match *UniqueMatch
	err := store.View(ctx, func(view domain.TransactionView) error {
		match = findExisting(view, entity, schoolID, key)
		return nil
	})
	return match, err
}

func findExisting(view domain.TransactionView, entity EntityType, schoolID string, key NaturalKey) *UniqueMatch {
	folded := foldName(key.Name)
	switch entity {
	case EntitySchool:
		for _, s := range view.ListSchools() {
			if foldName(s.Name) == folded {
				return &UniqueMatch{Entity: EntitySchool, ID: s.ID, Name: s.Name}
			}
		}
	case EntityField:
		for _, f := range view.ListFields() {
			if f.SchoolID == schoolID && foldName(f.Name) == folded {
				return &UniqueMatch{Entity: EntityField, ID: f.ID, Name: f.Name}
			}
		}
	case EntitySchedule:
		for _, s := range view.ListSchedules() {
			if s.SchoolID == schoolID && foldName(s.Name) == folded {
				return &UniqueMatch{Entity: EntitySchedule, ID: s.ID, Name: s.Name}
			}
		}
	case EntityLevel:
		for _, l := range view.ListLevels() {
			if l.SchoolID == schoolID && foldName(l.Name) == folded {
				return &UniqueMatch{Entity: EntityLevel, ID: l.ID, Name: l.Name}
			}
		}
	case EntityGroup:
		for _, g := range view.ListGroups() {
			if g.SchoolID == schoolID && g.LevelID == key.LevelID && foldName(g.Name) == folded {
				return &UniqueMatch{Entity: EntityGroup, ID: g.ID, Name: g.Name}
			}
		}
	case EntitySubject:
		for _, s := range view.ListSubjects() {
			if s.SchoolID == schoolID && s.LevelID == key.LevelID && foldName(s.Name) == folded {
				return &UniqueMatch{Entity: EntitySubject, ID: s.ID, Name: s.Name}
			}
		}
	case EntityTeacherField:
		for _, tf := range view.ListTeacherFields() {
			if tf.SchoolID == schoolID && tf.TeacherID == key.TeacherID && tf.FieldID == key.FieldID {
				return &UniqueMatch{Entity: EntityTeacherField, ID: tf.ID}
			}
		}
	case EntityTeacherCoordinator:
		for _, tc := range view.ListTeacherCoordinators() {
			if tc.SchoolID == schoolID && tc.TeacherID == key.TeacherID && tc.CoordinatorID == key.CoordinatorID {
				return &UniqueMatch{Entity: EntityTeacherCoordinator, ID: tc.ID}
			}
		}
	case EntityGroupCoordinator:
		for _, gc := range view.ListGroupCoordinators() {
			if gc.SchoolID == schoolID && gc.GroupID == key.GroupID && gc.CoordinatorID == key.CoordinatorID {
				return &UniqueMatch{Entity: EntityGroupCoordinator, ID: gc.ID}
			}
		}
	}
	return nil
}

// duplicateKindFor maps an entity type to the duplicate classification used
// in errors.
func duplicateKindFor(entity EntityType) (domain.DuplicateKind, error) {
	switch entity {
	case EntitySchool, EntityField, EntitySchedule, EntityLevel, EntityGroup, EntitySubject:
		return domain.DuplicateName, nil
	case EntityTeacherField, EntityTeacherCoordinator, EntityGroupCoordinator:
		return domain.DuplicateAssignment, nil
	}
	return "", fmt.Errorf("entity type %q carries no natural key", entity)
}
