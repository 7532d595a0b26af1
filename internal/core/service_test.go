package core_test

import (
	"context"
	"errors"
	"testing"

	"schedcore/internal/core"
	"schedcore/pkg/domain"
)

// fixture holds one fully wired tenant: a coordinator who supervises both
// the group and the teacher, a certified teacher, and the level hierarchy a
// session needs.
type fixture struct {
	svc         *core.Service
	school      domain.School
	coordinator domain.Person
	teacherP    domain.Person
	teacher     domain.Teacher
	field       domain.Field
	tf          domain.TeacherField
	tc          domain.TeacherCoordinator
	schedule    domain.Schedule
	level       domain.Level
	group       domain.Group
	gc          domain.GroupCoordinator
	subject     domain.Subject
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())
	ctx := context.Background()
	f := &fixture{svc: svc}

	var err error
	f.school, _, err = svc.CreateSchool(ctx, domain.School{Name: "Northside Academy"})
	if err != nil {
		t.Fatalf("create school: %v", err)
	}
	f.coordinator, _, err = svc.CreatePerson(ctx, domain.Person{SchoolID: f.school.ID, Name: "Dana", Role: domain.RoleCoordinator, Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("create coordinator: %v", err)
	}
	f.teacherP, _, err = svc.CreatePerson(ctx, domain.Person{SchoolID: f.school.ID, Name: "Sam", Role: domain.RoleTeacher, Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("create teacher person: %v", err)
	}
	f.teacher, _, err = svc.CreateTeacher(ctx, domain.Teacher{SchoolID: f.school.ID, PersonID: f.teacherP.ID, ContractType: domain.ContractFullTime})
	if err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	f.field, _, err = svc.CreateField(ctx, domain.Field{SchoolID: f.school.ID, Name: "Mathematics"})
	if err != nil {
		t.Fatalf("create field: %v", err)
	}
	f.tf, _, err = svc.CreateTeacherField(ctx, domain.TeacherField{SchoolID: f.school.ID, TeacherID: f.teacher.ID, FieldID: f.field.ID})
	if err != nil {
		t.Fatalf("create teacher field: %v", err)
	}
	f.tc, _, err = svc.CreateTeacherCoordinator(ctx, domain.TeacherCoordinator{SchoolID: f.school.ID, TeacherID: f.teacher.ID, CoordinatorID: f.coordinator.ID})
	if err != nil {
		t.Fatalf("create teacher coordinator: %v", err)
	}
	f.schedule, _, err = svc.CreateSchedule(ctx, domain.Schedule{SchoolID: f.school.ID, Name: "Morning", DayStartMinute: 480, UnitMinutes: 60})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	f.level, _, err = svc.CreateLevel(ctx, domain.Level{SchoolID: f.school.ID, ScheduleID: f.schedule.ID, Name: "Grade 7"})
	if err != nil {
		t.Fatalf("create level: %v", err)
	}
	f.group, _, err = svc.CreateGroup(ctx, domain.Group{SchoolID: f.school.ID, LevelID: f.level.ID, Name: "7A", StudentCount: 24})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	f.gc, _, err = svc.CreateGroupCoordinator(ctx, domain.GroupCoordinator{SchoolID: f.school.ID, GroupID: f.group.ID, CoordinatorID: f.coordinator.ID})
	if err != nil {
		t.Fatalf("create group coordinator: %v", err)
	}
	f.subject, _, err = svc.CreateSubject(ctx, domain.Subject{SchoolID: f.school.ID, LevelID: f.level.ID, FieldID: f.field.ID, Name: "Algebra", WeeklyFrequency: 3})
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	return f
}

// session builds a fully assigned candidate on top of the fixture graph.
func (f *fixture) session() domain.Session {
	gcID, tcID, tfID := f.gc.ID, f.tc.ID, f.tf.ID
	return domain.Session{
		SchoolID:             f.school.ID,
		LevelID:              f.level.ID,
		GroupID:              f.group.ID,
		SubjectID:            f.subject.ID,
		StartMinute:          480,
		GroupCoordinatorID:   &gcID,
		TeacherCoordinatorID: &tcID,
		TeacherFieldID:       &tfID,
	}
}

func TestSessionChainPositive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.ValidateAssignment(ctx, domain.EntitySession, f.school.ID, f.session())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected ok, got code %s: %s", out.Code, out.Message)
	}

	created, res, err := f.svc.CreateSession(ctx, f.session())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("unexpected violations: %+v", res.Violations)
	}
	if created.ID == "" {
		t.Fatal("expected generated session id")
	}
}

func TestSessionChainFieldMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, _, err := f.svc.CreateField(ctx, domain.Field{SchoolID: f.school.ID, Name: "History"})
	if err != nil {
		t.Fatalf("create second field: %v", err)
	}
	mismatched, _, err := f.svc.CreateSubject(ctx, domain.Subject{SchoolID: f.school.ID, LevelID: f.level.ID, FieldID: other.ID, Name: "World History"})
	if err != nil {
		t.Fatalf("create mismatched subject: %v", err)
	}

	candidate := f.session()
	candidate.SubjectID = mismatched.ID
	out, err := f.svc.ValidateAssignment(ctx, domain.EntitySession, f.school.ID, candidate)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.OK {
		t.Fatal("expected validation failure")
	}
	if out.Code != core.CodeSessionFieldMismatch {
		t.Fatalf("expected %s, got %s", core.CodeSessionFieldMismatch, out.Code)
	}

	if _, _, err := f.svc.CreateSession(ctx, candidate); err == nil {
		t.Fatal("expected create to be refused")
	}
}

func TestUnassignedSessionIsValid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	candidate := f.session()
	candidate.GroupCoordinatorID = nil
	candidate.TeacherCoordinatorID = nil
	candidate.TeacherFieldID = nil
	out, err := f.svc.ValidateAssignment(ctx, domain.EntitySession, f.school.ID, candidate)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected unassigned session to pass, got %s", out.Code)
	}
}

func TestDuplicateTeacherFieldRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing, err := f.svc.CheckUnique(ctx, domain.EntityTeacherField, f.school.ID, core.NaturalKey{TeacherID: f.teacher.ID, FieldID: f.field.ID})
	if err != nil {
		t.Fatalf("check unique: %v", err)
	}
	if existing == nil || existing.ID != f.tf.ID {
		t.Fatalf("expected existing pair %s, got %+v", f.tf.ID, existing)
	}

	_, _, err = f.svc.CreateTeacherField(ctx, domain.TeacherField{SchoolID: f.school.ID, TeacherID: f.teacher.ID, FieldID: f.field.ID})
	var dup domain.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if dup.Kind != domain.DuplicateAssignment {
		t.Fatalf("expected %s, got %s", domain.DuplicateAssignment, dup.Kind)
	}
}

func TestDuplicateSchoolNameCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateSchool(ctx, domain.School{Name: "northside academy"})
	var dup domain.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if dup.Kind != domain.DuplicateName {
		t.Fatalf("expected %s, got %s", domain.DuplicateName, dup.Kind)
	}
}

func TestTenantIsolationBlocksCrossTenantReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, _, err := f.svc.CreateSchool(ctx, domain.School{Name: "Riverside"})
	if err != nil {
		t.Fatalf("create second school: %v", err)
	}

	_, res, err := f.svc.CreateGroup(ctx, domain.Group{SchoolID: other.ID, LevelID: f.level.ID, Name: "X1"})
	if err == nil {
		t.Fatal("expected cross-tenant reference to be blocked")
	}
	found := false
	for _, v := range res.Violations {
		if v.Code == core.CodeTenantMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s violation, got %+v", core.CodeTenantMismatch, res.Violations)
	}
}

func TestGuardedScheduleDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.CascadeDelete(ctx, domain.EntitySchedule, f.schedule.ID, f.school.ID)
	if !result.Blocked {
		t.Fatal("expected blocked delete")
	}
	var blocked domain.BlockedDeleteError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected blocked delete error, got %v", err)
	}
	if result.DeletedCount() != 0 {
		t.Fatalf("expected nothing deleted, got %+v", result.Deleted)
	}
	if _, ok := f.svc.Store().GetSchedule(f.schedule.ID); !ok {
		t.Fatal("schedule must survive a blocked delete")
	}
	if _, ok := f.svc.Store().GetLevel(f.level.ID); !ok {
		t.Fatal("levels must survive a blocked delete")
	}
}

func TestCascadeDepthLevel(t *testing.T) {
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())
	ctx := context.Background()

	school, _, err := svc.CreateSchool(ctx, domain.School{Name: "Depth School"})
	if err != nil {
		t.Fatalf("create school: %v", err)
	}
	schedule, _, err := svc.CreateSchedule(ctx, domain.Schedule{SchoolID: school.ID, Name: "Grid"})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	level, _, err := svc.CreateLevel(ctx, domain.Level{SchoolID: school.ID, ScheduleID: schedule.ID, Name: "Grade 9"})
	if err != nil {
		t.Fatalf("create level: %v", err)
	}

	// 2 groups, 3 subjects each (6 total), 2 sessions per subject (12).
	groups := make([]domain.Group, 0, 2)
	for _, name := range []string{"9A", "9B"} {
		g, _, err := svc.CreateGroup(ctx, domain.Group{SchoolID: school.ID, LevelID: level.ID, Name: name})
		if err != nil {
			t.Fatalf("create group %s: %v", name, err)
		}
		groups = append(groups, g)
	}
	field, _, err := svc.CreateField(ctx, domain.Field{SchoolID: school.ID, Name: "Science"})
	if err != nil {
		t.Fatalf("create field: %v", err)
	}
	subjectNames := [][]string{{"Bio A", "Chem A", "Phys A"}, {"Bio B", "Chem B", "Phys B"}}
	for gi, g := range groups {
		for _, name := range subjectNames[gi] {
			sub, _, err := svc.CreateSubject(ctx, domain.Subject{SchoolID: school.ID, LevelID: level.ID, FieldID: field.ID, Name: name})
			if err != nil {
				t.Fatalf("create subject %s: %v", name, err)
			}
			for i := 0; i < 2; i++ {
				if _, _, err := svc.CreateSession(ctx, domain.Session{
					SchoolID:    school.ID,
					LevelID:     level.ID,
					GroupID:     g.ID,
					SubjectID:   sub.ID,
					StartMinute: 480 + 60*i,
				}); err != nil {
					t.Fatalf("create session: %v", err)
				}
			}
		}
	}

	result, err := svc.CascadeDelete(ctx, domain.EntityLevel, level.ID, school.ID)
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if got := result.DeletedCount(); got != 21 {
		t.Fatalf("expected 21 deleted records, got %d: %+v", got, result.Deleted)
	}
	if len(result.Deleted[domain.EntityGroup]) != 2 ||
		len(result.Deleted[domain.EntitySubject]) != 6 ||
		len(result.Deleted[domain.EntitySession]) != 12 ||
		len(result.Deleted[domain.EntityLevel]) != 1 {
		t.Fatalf("unexpected breakdown: %+v", result.Deleted)
	}
}

func TestCascadeDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CascadeDelete(ctx, domain.EntityLevel, f.level.ID, f.school.ID); err != nil {
		t.Fatalf("first cascade: %v", err)
	}
	second, err := f.svc.CascadeDelete(ctx, domain.EntityLevel, f.level.ID, f.school.ID)
	if err != nil {
		t.Fatalf("second cascade: %v", err)
	}
	if !second.NotFound {
		t.Fatal("expected not-found result on second invocation")
	}
	if second.DeletedCount() != 0 {
		t.Fatalf("second cascade must be a no-op, got %+v", second.Deleted)
	}
}

func TestCascadeDeleteForeignTenantIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, _, err := f.svc.CreateSchool(ctx, domain.School{Name: "Eastgate Prep"})
	if err != nil {
		t.Fatalf("create school: %v", err)
	}
	foreign, _, err := f.svc.CreateField(ctx, domain.Field{SchoolID: other.ID, Name: "Chemistry"})
	if err != nil {
		t.Fatalf("create field: %v", err)
	}

	// Another tenant's id resolves exactly like a nonexistent one.
	result, err := f.svc.CascadeDelete(ctx, domain.EntityField, foreign.ID, f.school.ID)
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if !result.NotFound {
		t.Fatal("expected not-found result for a foreign tenant's id")
	}
	if result.DeletedCount() != 0 {
		t.Fatalf("expected nothing deleted, got %+v", result.Deleted)
	}
	if _, ok := f.svc.Store().GetField(foreign.ID); !ok {
		t.Fatal("foreign field must survive")
	}

	// The owning tenant can still delete it.
	owned, err := f.svc.CascadeDelete(ctx, domain.EntityField, foreign.ID, other.ID)
	if err != nil {
		t.Fatalf("owned cascade: %v", err)
	}
	if owned.NotFound || len(owned.Deleted[domain.EntityField]) != 1 {
		t.Fatalf("expected the owning tenant's delete to apply, got %+v", owned)
	}
}

func TestCascadeNullifiesSurvivingSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, _, err := f.svc.CreateSession(ctx, f.session())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := f.svc.CascadeDelete(ctx, domain.EntityTeacherField, f.tf.ID, f.school.ID)
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if len(result.Nullified[domain.EntitySession]) != 1 {
		t.Fatalf("expected one nullified session, got %+v", result.Nullified)
	}
	got, ok := f.svc.Store().GetSession(created.ID)
	if !ok {
		t.Fatal("session must survive the teacher field delete")
	}
	if got.TeacherFieldID != nil {
		t.Fatalf("expected cleared teacher field ref, got %v", *got.TeacherFieldID)
	}
	if got.GroupCoordinatorID == nil || got.TeacherCoordinatorID == nil {
		t.Fatal("unrelated assignment refs must survive")
	}
}

func TestCascadeTeacherRemovesJoinsAndUnassignsSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, _, err := f.svc.CreateSession(ctx, f.session())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := f.svc.CascadeDelete(ctx, domain.EntityTeacher, f.teacher.ID, f.school.ID)
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if len(result.Deleted[domain.EntityTeacherField]) != 1 || len(result.Deleted[domain.EntityTeacherCoordinator]) != 1 {
		t.Fatalf("expected join records removed, got %+v", result.Deleted)
	}
	got, ok := f.svc.Store().GetSession(created.ID)
	if !ok {
		t.Fatal("session must survive the teacher delete")
	}
	if got.TeacherFieldID != nil || got.TeacherCoordinatorID != nil {
		t.Fatal("expected session teacher refs cleared")
	}
	if got.GroupCoordinatorID == nil {
		t.Fatal("group coordinator ref must survive a teacher delete")
	}
}

// TestCascadeSchoolLeavesNoOrphans deletes a tenant root and scans the store
// for any record still referencing a removed id.
func TestCascadeSchoolLeavesNoOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, _, err := f.svc.CreateSession(ctx, f.session()); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := f.svc.CascadeDelete(ctx, domain.EntitySchool, f.school.ID, f.school.ID); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	store := f.svc.Store()
	if n := len(store.ListPeople()) + len(store.ListTeachers()) + len(store.ListFields()) +
		len(store.ListTeacherFields()) + len(store.ListTeacherCoordinators()) +
		len(store.ListSchedules()) + len(store.ListLevels()) + len(store.ListGroups()) +
		len(store.ListGroupCoordinators()) + len(store.ListSubjects()) + len(store.ListSessions()); n != 0 {
		t.Fatalf("expected empty tenant, found %d surviving records", n)
	}
	if _, ok := store.GetSchool(f.school.ID); ok {
		t.Fatal("school must be removed")
	}
}

func TestValidateAssignmentTenantMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.ValidateAssignment(ctx, domain.EntitySession, "someone-else", f.session())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.OK || out.Code != core.CodeTenantMismatch {
		t.Fatalf("expected tenant mismatch, got %+v", out)
	}
}

func TestCoordinatorChainIneligiblePerson(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, _, err := f.svc.UpdatePerson(ctx, f.coordinator.ID, func(p *domain.Person) error {
		p.Status = domain.StatusOnLeave
		return nil
	}); err == nil {
		t.Fatal("expected commit-time rules to reject an on-leave coordinator with live assignments")
	}

	other, _, err := f.svc.CreatePerson(ctx, domain.Person{SchoolID: f.school.ID, Name: "Robin", Role: domain.RoleTeacher, Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	out, err := f.svc.ValidateAssignment(ctx, domain.EntityGroupCoordinator, f.school.ID, domain.GroupCoordinator{
		SchoolID:      f.school.ID,
		GroupID:       f.group.ID,
		CoordinatorID: other.ID,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Code != core.CodeGroupCoordinatorPersonIneligible {
		t.Fatalf("expected %s, got %s", core.CodeGroupCoordinatorPersonIneligible, out.Code)
	}
}
