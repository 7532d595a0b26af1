package memory

import "sort"

// List and Find accessors below return clones so callers can never mutate
// committed state through a view.

// ListSchools returns all schools within the transaction snapshot.
func (v transactionView) ListSchools() []School {
	out := make([]School, 0, len(v.state.schools))
	for _, sc := range v.state.schools {
		out = append(out, sc)
	}
	sortByID(out, func(sc School) string { return sc.ID })
	return out
}

// ListPeople returns all people.
func (v transactionView) ListPeople() []Person {
	out := make([]Person, 0, len(v.state.people))
	for _, p := range v.state.people {
		out = append(out, p)
	}
	sortByID(out, func(p Person) string { return p.ID })
	return out
}

// ListTeachers returns all teachers.
func (v transactionView) ListTeachers() []Teacher {
	out := make([]Teacher, 0, len(v.state.teachers))
	for _, t := range v.state.teachers {
		out = append(out, cloneTeacher(t))
	}
	sortByID(out, func(t Teacher) string { return t.ID })
	return out
}

// ListFields returns all fields.
func (v transactionView) ListFields() []Field {
	out := make([]Field, 0, len(v.state.fields))
	for _, f := range v.state.fields {
		out = append(out, f)
	}
	sortByID(out, func(f Field) string { return f.ID })
	return out
}

// ListTeacherFields returns all teacher/field certifications.
func (v transactionView) ListTeacherFields() []TeacherField {
	out := make([]TeacherField, 0, len(v.state.teacherFields))
	for _, tf := range v.state.teacherFields {
		out = append(out, tf)
	}
	sortByID(out, func(tf TeacherField) string { return tf.ID })
	return out
}

// ListTeacherCoordinators returns all teacher/coordinator assignments.
func (v transactionView) ListTeacherCoordinators() []TeacherCoordinator {
	out := make([]TeacherCoordinator, 0, len(v.state.teacherCoordinators))
	for _, tc := range v.state.teacherCoordinators {
		out = append(out, tc)
	}
	sortByID(out, func(tc TeacherCoordinator) string { return tc.ID })
	return out
}

// ListSchedules returns all schedules.
func (v transactionView) ListSchedules() []Schedule {
	out := make([]Schedule, 0, len(v.state.schedules))
	for _, sch := range v.state.schedules {
		out = append(out, cloneSchedule(sch))
	}
	sortByID(out, func(sch Schedule) string { return sch.ID })
	return out
}

// ListLevels returns all levels.
func (v transactionView) ListLevels() []Level {
	out := make([]Level, 0, len(v.state.levels))
	for _, lv := range v.state.levels {
		out = append(out, lv)
	}
	sortByID(out, func(lv Level) string { return lv.ID })
	return out
}

// ListGroups returns all groups.
func (v transactionView) ListGroups() []Group {
	out := make([]Group, 0, len(v.state.groups))
	for _, g := range v.state.groups {
		out = append(out, g)
	}
	sortByID(out, func(g Group) string { return g.ID })
	return out
}

// ListGroupCoordinators returns all group/coordinator assignments.
func (v transactionView) ListGroupCoordinators() []GroupCoordinator {
	out := make([]GroupCoordinator, 0, len(v.state.groupCoordinators))
	for _, gc := range v.state.groupCoordinators {
		out = append(out, gc)
	}
	sortByID(out, func(gc GroupCoordinator) string { return gc.ID })
	return out
}

// ListSubjects returns all subjects.
func (v transactionView) ListSubjects() []Subject {
	out := make([]Subject, 0, len(v.state.subjects))
	for _, sub := range v.state.subjects {
		out = append(out, sub)
	}
	sortByID(out, func(sub Subject) string { return sub.ID })
	return out
}

// ListSessions returns all sessions.
func (v transactionView) ListSessions() []Session {
	out := make([]Session, 0, len(v.state.sessions))
	for _, sess := range v.state.sessions {
		out = append(out, cloneSession(sess))
	}
	sortByID(out, func(sess Session) string { return sess.ID })
	return out
}

// FindSchool resolves a school by id.
func (v transactionView) FindSchool(id string) (School, bool) {
	sc, ok := v.state.schools[id]
	return sc, ok
}

// FindPerson resolves a person by id.
func (v transactionView) FindPerson(id string) (Person, bool) {
	p, ok := v.state.people[id]
	return p, ok
}

// FindTeacher resolves a teacher by id.
func (v transactionView) FindTeacher(id string) (Teacher, bool) {
	t, ok := v.state.teachers[id]
	if !ok {
		return Teacher{}, false
	}
	return cloneTeacher(t), true
}

// FindField resolves a field by id.
func (v transactionView) FindField(id string) (Field, bool) {
	f, ok := v.state.fields[id]
	return f, ok
}

// FindTeacherField resolves a certification by id.
func (v transactionView) FindTeacherField(id string) (TeacherField, bool) {
	tf, ok := v.state.teacherFields[id]
	return tf, ok
}

// FindTeacherCoordinator resolves a teacher/coordinator assignment by id.
func (v transactionView) FindTeacherCoordinator(id string) (TeacherCoordinator, bool) {
	tc, ok := v.state.teacherCoordinators[id]
	return tc, ok
}

// FindSchedule resolves a schedule by id.
func (v transactionView) FindSchedule(id string) (Schedule, bool) {
	sch, ok := v.state.schedules[id]
	if !ok {
		return Schedule{}, false
	}
	return cloneSchedule(sch), true
}

// FindLevel resolves a level by id.
func (v transactionView) FindLevel(id string) (Level, bool) {
	lv, ok := v.state.levels[id]
	return lv, ok
}

// FindGroup resolves a group by id.
func (v transactionView) FindGroup(id string) (Group, bool) {
	g, ok := v.state.groups[id]
	return g, ok
}

// FindGroupCoordinator resolves a group/coordinator assignment by id.
func (v transactionView) FindGroupCoordinator(id string) (GroupCoordinator, bool) {
	gc, ok := v.state.groupCoordinators[id]
	return gc, ok
}

// FindSubject resolves a subject by id.
func (v transactionView) FindSubject(id string) (Subject, bool) {
	sub, ok := v.state.subjects[id]
	return sub, ok
}

// FindSession resolves a session by id.
func (v transactionView) FindSession(id string) (Session, bool) {
	sess, ok := v.state.sessions[id]
	if !ok {
		return Session{}, false
	}
	return cloneSession(sess), true
}

func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
