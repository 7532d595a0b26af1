package memory

// Top-level store accessors mirror the view accessors over committed state.

// GetSchool resolves a school by id.
func (s *Store) GetSchool(id string) (School, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.state.schools[id]
	return sc, ok
}

// GetPerson resolves a person by id.
func (s *Store) GetPerson(id string) (Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.people[id]
	return p, ok
}

// GetTeacher resolves a teacher by id.
func (s *Store) GetTeacher(id string) (Teacher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.teachers[id]
	if !ok {
		return Teacher{}, false
	}
	return cloneTeacher(t), true
}

// GetField resolves a field by id.
func (s *Store) GetField(id string) (Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.state.fields[id]
	return f, ok
}

// GetTeacherField resolves a certification by id.
func (s *Store) GetTeacherField(id string) (TeacherField, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tf, ok := s.state.teacherFields[id]
	return tf, ok
}

// GetTeacherCoordinator resolves a teacher/coordinator assignment by id.
func (s *Store) GetTeacherCoordinator(id string) (TeacherCoordinator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tc, ok := s.state.teacherCoordinators[id]
	return tc, ok
}

// GetSchedule resolves a schedule by id.
func (s *Store) GetSchedule(id string) (Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sch, ok := s.state.schedules[id]
	if !ok {
		return Schedule{}, false
	}
	return cloneSchedule(sch), true
}

// GetLevel resolves a level by id.
func (s *Store) GetLevel(id string) (Level, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lv, ok := s.state.levels[id]
	return lv, ok
}

// GetGroup resolves a group by id.
func (s *Store) GetGroup(id string) (Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.state.groups[id]
	return g, ok
}

// GetGroupCoordinator resolves a group/coordinator assignment by id.
func (s *Store) GetGroupCoordinator(id string) (GroupCoordinator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gc, ok := s.state.groupCoordinators[id]
	return gc, ok
}

// GetSubject resolves a subject by id.
func (s *Store) GetSubject(id string) (Subject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.state.subjects[id]
	return sub, ok
}

// GetSession resolves a session by id.
func (s *Store) GetSession(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.state.sessions[id]
	if !ok {
		return Session{}, false
	}
	return cloneSession(sess), true
}

// ListSchools returns all committed schools.
func (s *Store) ListSchools() []School {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListSchools()
}

// ListPeople returns all committed people.
func (s *Store) ListPeople() []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListPeople()
}

// ListTeachers returns all committed teachers.
func (s *Store) ListTeachers() []Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListTeachers()
}

// ListFields returns all committed fields.
func (s *Store) ListFields() []Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListFields()
}

// ListTeacherFields returns all committed certifications.
func (s *Store) ListTeacherFields() []TeacherField {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListTeacherFields()
}

// ListTeacherCoordinators returns all committed teacher/coordinator assignments.
func (s *Store) ListTeacherCoordinators() []TeacherCoordinator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListTeacherCoordinators()
}

// ListSchedules returns all committed schedules.
func (s *Store) ListSchedules() []Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListSchedules()
}

// ListLevels returns all committed levels.
func (s *Store) ListLevels() []Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListLevels()
}

// ListGroups returns all committed groups.
func (s *Store) ListGroups() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListGroups()
}

// ListGroupCoordinators returns all committed group/coordinator assignments.
func (s *Store) ListGroupCoordinators() []GroupCoordinator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListGroupCoordinators()
}

// ListSubjects returns all committed subjects.
func (s *Store) ListSubjects() []Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListSubjects()
}

// ListSessions returns all committed sessions.
func (s *Store) ListSessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListSessions()
}
