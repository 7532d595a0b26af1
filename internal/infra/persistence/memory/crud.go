package memory

import (
	"fmt"

	"schedcore/pkg/domain"
)

// CreateSchool stores a new school (tenant root).
func (tx *transaction) CreateSchool(sc School) (School, error) {
	if sc.ID == "" {
		sc.ID = tx.store.newID()
	}
	if _, exists := tx.state.schools[sc.ID]; exists {
		return School{}, fmt.Errorf("school %q already exists", sc.ID)
	}
	sc.CreatedAt = tx.now
	sc.UpdatedAt = tx.now
	tx.state.schools[sc.ID] = sc
	tx.recordChange(Change{Entity: domain.EntitySchool, Action: domain.ActionCreate, After: sc})
	return sc, nil
}

// UpdateSchool mutates a school using the provided mutator function.
func (tx *transaction) UpdateSchool(id string, mutator func(*School) error) (School, error) {
	current, ok := tx.state.schools[id]
	if !ok {
		return School{}, domain.ErrNotFound{Entity: domain.EntitySchool, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return School{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.schools[id] = current
	tx.recordChange(Change{Entity: domain.EntitySchool, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteSchool removes a school. Every record in the tenant must be removed
// first; the cascade propagator handles that ordering.
func (tx *transaction) DeleteSchool(id string) error {
	current, ok := tx.state.schools[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntitySchool, ID: id}
	}
	// People, fields, and schedules are the tenant's top-level children;
	// everything else in the tenant transitively hangs off one of them.
	var deps []string
	for _, p := range tx.state.people {
		if p.SchoolID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityPerson, p.ID))
		}
	}
	for _, f := range tx.state.fields {
		if f.SchoolID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityField, f.ID))
		}
	}
	for _, sch := range tx.state.schedules {
		if sch.SchoolID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySchedule, sch.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntitySchool, id, deps)
	}
	delete(tx.state.schools, id)
	tx.recordChange(Change{Entity: domain.EntitySchool, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreatePerson stores a new person within a school.
func (tx *transaction) CreatePerson(p Person) (Person, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.people[p.ID]; exists {
		return Person{}, fmt.Errorf("person %q already exists", p.ID)
	}
	if p.SchoolID == "" {
		return Person{}, fmt.Errorf("person school reference required")
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.people[p.ID] = p
	tx.recordChange(Change{Entity: domain.EntityPerson, Action: domain.ActionCreate, After: p})
	return p, nil
}

// UpdatePerson mutates a person using the provided mutator function.
func (tx *transaction) UpdatePerson(id string, mutator func(*Person) error) (Person, error) {
	current, ok := tx.state.people[id]
	if !ok {
		return Person{}, domain.ErrNotFound{Entity: domain.EntityPerson, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Person{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.people[id] = current
	tx.recordChange(Change{Entity: domain.EntityPerson, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeletePerson removes a person once no teacher or coordinator assignment
// references them.
func (tx *transaction) DeletePerson(id string) error {
	current, ok := tx.state.people[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityPerson, ID: id}
	}
	var deps []string
	for _, t := range tx.state.teachers {
		if t.PersonID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityTeacher, t.ID))
		}
	}
	for _, tc := range tx.state.teacherCoordinators {
		if tc.CoordinatorID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityTeacherCoordinator, tc.ID))
		}
	}
	for _, gc := range tx.state.groupCoordinators {
		if gc.CoordinatorID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityGroupCoordinator, gc.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityPerson, id, deps)
	}
	delete(tx.state.people, id)
	tx.recordChange(Change{Entity: domain.EntityPerson, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateTeacher stores a new teacher contract.
func (tx *transaction) CreateTeacher(t Teacher) (Teacher, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.teachers[t.ID]; exists {
		return Teacher{}, fmt.Errorf("teacher %q already exists", t.ID)
	}
	if t.SchoolID == "" || t.PersonID == "" {
		return Teacher{}, fmt.Errorf("teacher school and person references required")
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.teachers[t.ID] = cloneTeacher(t)
	tx.recordChange(Change{Entity: domain.EntityTeacher, Action: domain.ActionCreate, After: cloneTeacher(t)})
	return cloneTeacher(t), nil
}

// UpdateTeacher mutates a teacher using the provided mutator function.
func (tx *transaction) UpdateTeacher(id string, mutator func(*Teacher) error) (Teacher, error) {
	current, ok := tx.state.teachers[id]
	if !ok {
		return Teacher{}, domain.ErrNotFound{Entity: domain.EntityTeacher, ID: id}
	}
	before := cloneTeacher(current)
	if err := mutator(&current); err != nil {
		return Teacher{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.teachers[id] = cloneTeacher(current)
	tx.recordChange(Change{Entity: domain.EntityTeacher, Action: domain.ActionUpdate, Before: before, After: cloneTeacher(current)})
	return cloneTeacher(current), nil
}

// DeleteTeacher removes a teacher once no assignment references them.
func (tx *transaction) DeleteTeacher(id string) error {
	current, ok := tx.state.teachers[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityTeacher, ID: id}
	}
	var deps []string
	for _, tf := range tx.state.teacherFields {
		if tf.TeacherID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityTeacherField, tf.ID))
		}
	}
	for _, tc := range tx.state.teacherCoordinators {
		if tc.TeacherID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityTeacherCoordinator, tc.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityTeacher, id, deps)
	}
	delete(tx.state.teachers, id)
	tx.recordChange(Change{Entity: domain.EntityTeacher, Action: domain.ActionDelete, Before: cloneTeacher(current)})
	return nil
}

// CreateField stores a new field.
func (tx *transaction) CreateField(f Field) (Field, error) {
	if f.ID == "" {
		f.ID = tx.store.newID()
	}
	if _, exists := tx.state.fields[f.ID]; exists {
		return Field{}, fmt.Errorf("field %q already exists", f.ID)
	}
	if f.SchoolID == "" {
		return Field{}, fmt.Errorf("field school reference required")
	}
	f.CreatedAt = tx.now
	f.UpdatedAt = tx.now
	tx.state.fields[f.ID] = f
	tx.recordChange(Change{Entity: domain.EntityField, Action: domain.ActionCreate, After: f})
	return f, nil
}

// UpdateField mutates a field using the provided mutator function.
func (tx *transaction) UpdateField(id string, mutator func(*Field) error) (Field, error) {
	current, ok := tx.state.fields[id]
	if !ok {
		return Field{}, domain.ErrNotFound{Entity: domain.EntityField, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Field{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.fields[id] = current
	tx.recordChange(Change{Entity: domain.EntityField, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteField removes a field once no certification or subject references it.
func (tx *transaction) DeleteField(id string) error {
	current, ok := tx.state.fields[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityField, ID: id}
	}
	var deps []string
	for _, tf := range tx.state.teacherFields {
		if tf.FieldID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityTeacherField, tf.ID))
		}
	}
	for _, sub := range tx.state.subjects {
		if sub.FieldID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySubject, sub.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityField, id, deps)
	}
	delete(tx.state.fields, id)
	tx.recordChange(Change{Entity: domain.EntityField, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateTeacherField stores a teacher/field certification.
func (tx *transaction) CreateTeacherField(tf TeacherField) (TeacherField, error) {
	if tf.ID == "" {
		tf.ID = tx.store.newID()
	}
	if _, exists := tx.state.teacherFields[tf.ID]; exists {
		return TeacherField{}, fmt.Errorf("teacher field %q already exists", tf.ID)
	}
	if tf.SchoolID == "" || tf.TeacherID == "" || tf.FieldID == "" {
		return TeacherField{}, fmt.Errorf("teacher field school, teacher, and field references required")
	}
	tf.CreatedAt = tx.now
	tf.UpdatedAt = tx.now
	tx.state.teacherFields[tf.ID] = tf
	tx.recordChange(Change{Entity: domain.EntityTeacherField, Action: domain.ActionCreate, After: tf})
	return tf, nil
}

// DeleteTeacherField removes a certification once no session references it.
func (tx *transaction) DeleteTeacherField(id string) error {
	current, ok := tx.state.teacherFields[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityTeacherField, ID: id}
	}
	var deps []string
	for _, sess := range tx.state.sessions {
		if sess.TeacherFieldID != nil && *sess.TeacherFieldID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySession, sess.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityTeacherField, id, deps)
	}
	delete(tx.state.teacherFields, id)
	tx.recordChange(Change{Entity: domain.EntityTeacherField, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateTeacherCoordinator stores a teacher/coordinator assignment.
func (tx *transaction) CreateTeacherCoordinator(tc TeacherCoordinator) (TeacherCoordinator, error) {
	if tc.ID == "" {
		tc.ID = tx.store.newID()
	}
	if _, exists := tx.state.teacherCoordinators[tc.ID]; exists {
		return TeacherCoordinator{}, fmt.Errorf("teacher coordinator %q already exists", tc.ID)
	}
	if tc.SchoolID == "" || tc.TeacherID == "" || tc.CoordinatorID == "" {
		return TeacherCoordinator{}, fmt.Errorf("teacher coordinator school, teacher, and coordinator references required")
	}
	tc.CreatedAt = tx.now
	tc.UpdatedAt = tx.now
	tx.state.teacherCoordinators[tc.ID] = tc
	tx.recordChange(Change{Entity: domain.EntityTeacherCoordinator, Action: domain.ActionCreate, After: tc})
	return tc, nil
}

// DeleteTeacherCoordinator removes an assignment once no session references it.
func (tx *transaction) DeleteTeacherCoordinator(id string) error {
	current, ok := tx.state.teacherCoordinators[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityTeacherCoordinator, ID: id}
	}
	var deps []string
	for _, sess := range tx.state.sessions {
		if sess.TeacherCoordinatorID != nil && *sess.TeacherCoordinatorID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySession, sess.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityTeacherCoordinator, id, deps)
	}
	delete(tx.state.teacherCoordinators, id)
	tx.recordChange(Change{Entity: domain.EntityTeacherCoordinator, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSchedule stores a new schedule grid.
func (tx *transaction) CreateSchedule(sch Schedule) (Schedule, error) {
	if sch.ID == "" {
		sch.ID = tx.store.newID()
	}
	if _, exists := tx.state.schedules[sch.ID]; exists {
		return Schedule{}, fmt.Errorf("schedule %q already exists", sch.ID)
	}
	if sch.SchoolID == "" {
		return Schedule{}, fmt.Errorf("schedule school reference required")
	}
	sch.CreatedAt = tx.now
	sch.UpdatedAt = tx.now
	tx.state.schedules[sch.ID] = cloneSchedule(sch)
	tx.recordChange(Change{Entity: domain.EntitySchedule, Action: domain.ActionCreate, After: cloneSchedule(sch)})
	return cloneSchedule(sch), nil
}

// UpdateSchedule mutates a schedule using the provided mutator function.
func (tx *transaction) UpdateSchedule(id string, mutator func(*Schedule) error) (Schedule, error) {
	current, ok := tx.state.schedules[id]
	if !ok {
		return Schedule{}, domain.ErrNotFound{Entity: domain.EntitySchedule, ID: id}
	}
	before := cloneSchedule(current)
	if err := mutator(&current); err != nil {
		return Schedule{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.schedules[id] = cloneSchedule(current)
	tx.recordChange(Change{Entity: domain.EntitySchedule, Action: domain.ActionUpdate, Before: before, After: cloneSchedule(current)})
	return cloneSchedule(current), nil
}

// DeleteSchedule removes a schedule. The delete is guarded: it is refused
// outright while any level still references the schedule.
func (tx *transaction) DeleteSchedule(id string) error {
	current, ok := tx.state.schedules[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntitySchedule, ID: id}
	}
	var deps []string
	for _, lv := range tx.state.levels {
		if lv.ScheduleID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityLevel, lv.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntitySchedule, id, deps)
	}
	delete(tx.state.schedules, id)
	tx.recordChange(Change{Entity: domain.EntitySchedule, Action: domain.ActionDelete, Before: cloneSchedule(current)})
	return nil
}

// CreateLevel stores a new level bound to a schedule.
func (tx *transaction) CreateLevel(lv Level) (Level, error) {
	if lv.ID == "" {
		lv.ID = tx.store.newID()
	}
	if _, exists := tx.state.levels[lv.ID]; exists {
		return Level{}, fmt.Errorf("level %q already exists", lv.ID)
	}
	if lv.SchoolID == "" || lv.ScheduleID == "" {
		return Level{}, fmt.Errorf("level school and schedule references required")
	}
	lv.CreatedAt = tx.now
	lv.UpdatedAt = tx.now
	tx.state.levels[lv.ID] = lv
	tx.recordChange(Change{Entity: domain.EntityLevel, Action: domain.ActionCreate, After: lv})
	return lv, nil
}

// UpdateLevel mutates a level using the provided mutator function.
func (tx *transaction) UpdateLevel(id string, mutator func(*Level) error) (Level, error) {
	current, ok := tx.state.levels[id]
	if !ok {
		return Level{}, domain.ErrNotFound{Entity: domain.EntityLevel, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Level{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.levels[id] = current
	tx.recordChange(Change{Entity: domain.EntityLevel, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteLevel removes a level once nothing under it remains.
func (tx *transaction) DeleteLevel(id string) error {
	current, ok := tx.state.levels[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityLevel, ID: id}
	}
	var deps []string
	for _, g := range tx.state.groups {
		if g.LevelID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityGroup, g.ID))
		}
	}
	for _, sub := range tx.state.subjects {
		if sub.LevelID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySubject, sub.ID))
		}
	}
	for _, sess := range tx.state.sessions {
		if sess.LevelID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySession, sess.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityLevel, id, deps)
	}
	delete(tx.state.levels, id)
	tx.recordChange(Change{Entity: domain.EntityLevel, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateGroup stores a new group within a level.
func (tx *transaction) CreateGroup(g Group) (Group, error) {
	if g.ID == "" {
		g.ID = tx.store.newID()
	}
	if _, exists := tx.state.groups[g.ID]; exists {
		return Group{}, fmt.Errorf("group %q already exists", g.ID)
	}
	if g.SchoolID == "" || g.LevelID == "" {
		return Group{}, fmt.Errorf("group school and level references required")
	}
	g.CreatedAt = tx.now
	g.UpdatedAt = tx.now
	tx.state.groups[g.ID] = g
	tx.recordChange(Change{Entity: domain.EntityGroup, Action: domain.ActionCreate, After: g})
	return g, nil
}

// UpdateGroup mutates a group using the provided mutator function.
func (tx *transaction) UpdateGroup(id string, mutator func(*Group) error) (Group, error) {
	current, ok := tx.state.groups[id]
	if !ok {
		return Group{}, domain.ErrNotFound{Entity: domain.EntityGroup, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Group{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.groups[id] = current
	tx.recordChange(Change{Entity: domain.EntityGroup, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteGroup removes a group once no assignment or session references it.
func (tx *transaction) DeleteGroup(id string) error {
	current, ok := tx.state.groups[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityGroup, ID: id}
	}
	var deps []string
	for _, gc := range tx.state.groupCoordinators {
		if gc.GroupID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntityGroupCoordinator, gc.ID))
		}
	}
	for _, sess := range tx.state.sessions {
		if sess.GroupID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySession, sess.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityGroup, id, deps)
	}
	delete(tx.state.groups, id)
	tx.recordChange(Change{Entity: domain.EntityGroup, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateGroupCoordinator stores a group/coordinator assignment.
func (tx *transaction) CreateGroupCoordinator(gc GroupCoordinator) (GroupCoordinator, error) {
	if gc.ID == "" {
		gc.ID = tx.store.newID()
	}
	if _, exists := tx.state.groupCoordinators[gc.ID]; exists {
		return GroupCoordinator{}, fmt.Errorf("group coordinator %q already exists", gc.ID)
	}
	if gc.SchoolID == "" || gc.GroupID == "" || gc.CoordinatorID == "" {
		return GroupCoordinator{}, fmt.Errorf("group coordinator school, group, and coordinator references required")
	}
	gc.CreatedAt = tx.now
	gc.UpdatedAt = tx.now
	tx.state.groupCoordinators[gc.ID] = gc
	tx.recordChange(Change{Entity: domain.EntityGroupCoordinator, Action: domain.ActionCreate, After: gc})
	return gc, nil
}

// DeleteGroupCoordinator removes an assignment once no session references it.
func (tx *transaction) DeleteGroupCoordinator(id string) error {
	current, ok := tx.state.groupCoordinators[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityGroupCoordinator, ID: id}
	}
	var deps []string
	for _, sess := range tx.state.sessions {
		if sess.GroupCoordinatorID != nil && *sess.GroupCoordinatorID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySession, sess.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntityGroupCoordinator, id, deps)
	}
	delete(tx.state.groupCoordinators, id)
	tx.recordChange(Change{Entity: domain.EntityGroupCoordinator, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSubject stores a new subject within a level.
func (tx *transaction) CreateSubject(sub Subject) (Subject, error) {
	if sub.ID == "" {
		sub.ID = tx.store.newID()
	}
	if _, exists := tx.state.subjects[sub.ID]; exists {
		return Subject{}, fmt.Errorf("subject %q already exists", sub.ID)
	}
	if sub.SchoolID == "" || sub.LevelID == "" || sub.FieldID == "" {
		return Subject{}, fmt.Errorf("subject school, level, and field references required")
	}
	sub.CreatedAt = tx.now
	sub.UpdatedAt = tx.now
	tx.state.subjects[sub.ID] = sub
	tx.recordChange(Change{Entity: domain.EntitySubject, Action: domain.ActionCreate, After: sub})
	return sub, nil
}

// UpdateSubject mutates a subject using the provided mutator function.
func (tx *transaction) UpdateSubject(id string, mutator func(*Subject) error) (Subject, error) {
	current, ok := tx.state.subjects[id]
	if !ok {
		return Subject{}, domain.ErrNotFound{Entity: domain.EntitySubject, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Subject{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.subjects[id] = current
	tx.recordChange(Change{Entity: domain.EntitySubject, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteSubject removes a subject once no session references it.
func (tx *transaction) DeleteSubject(id string) error {
	current, ok := tx.state.subjects[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntitySubject, ID: id}
	}
	var deps []string
	for _, sess := range tx.state.sessions {
		if sess.SubjectID == id {
			deps = append(deps, fmt.Sprintf("%s:%s", domain.EntitySession, sess.ID))
		}
	}
	if len(deps) > 0 {
		return blockedDelete(domain.EntitySubject, id, deps)
	}
	delete(tx.state.subjects, id)
	tx.recordChange(Change{Entity: domain.EntitySubject, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSession stores a new timetabled session.
func (tx *transaction) CreateSession(sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = tx.store.newID()
	}
	if _, exists := tx.state.sessions[sess.ID]; exists {
		return Session{}, fmt.Errorf("session %q already exists", sess.ID)
	}
	if sess.SchoolID == "" || sess.LevelID == "" || sess.GroupID == "" || sess.SubjectID == "" {
		return Session{}, fmt.Errorf("session school, level, group, and subject references required")
	}
	sess.CreatedAt = tx.now
	sess.UpdatedAt = tx.now
	tx.state.sessions[sess.ID] = cloneSession(sess)
	tx.recordChange(Change{Entity: domain.EntitySession, Action: domain.ActionCreate, After: cloneSession(sess)})
	return cloneSession(sess), nil
}

// UpdateSession replaces session attributes via the provided mutator function.
func (tx *transaction) UpdateSession(id string, mutator func(*Session) error) (Session, error) {
	current, ok := tx.state.sessions[id]
	if !ok {
		return Session{}, domain.ErrNotFound{Entity: domain.EntitySession, ID: id}
	}
	before := cloneSession(current)
	if err := mutator(&current); err != nil {
		return Session{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.sessions[id] = cloneSession(current)
	tx.recordChange(Change{Entity: domain.EntitySession, Action: domain.ActionUpdate, Before: before, After: cloneSession(current)})
	return cloneSession(current), nil
}

// DeleteSession removes a session. Nothing references sessions.
func (tx *transaction) DeleteSession(id string) error {
	current, ok := tx.state.sessions[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntitySession, ID: id}
	}
	delete(tx.state.sessions, id)
	tx.recordChange(Change{Entity: domain.EntitySession, Action: domain.ActionDelete, Before: cloneSession(current)})
	return nil
}
