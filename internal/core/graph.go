package core

import "schedcore/pkg/domain"

// record is the generic shape the edge-walking algorithms operate on: an id,
// a tenant key, and the raw entity for field extraction.
type record struct {
	id     string
	school string
	raw    any
}

// listRecords returns every record of the given type from the view in the
// generic shape. The switch here and in refValue are the only places that
// know concrete entity fields; the traversal algorithms stay schema-agnostic.
func listRecords(view domain.TransactionView, entity EntityType) []record {
	switch entity {
	case EntitySchool:
		schools := view.ListSchools()
		out := make([]record, 0, len(schools))
		for _, sc := range schools {
			out = append(out, record{id: sc.ID, school: sc.ID, raw: sc})
		}
		return out
	case EntityPerson:
		people := view.ListPeople()
		out := make([]record, 0, len(people))
		for _, p := range people {
			out = append(out, record{id: p.ID, school: p.SchoolID, raw: p})
		}
		return out
	case EntityTeacher:
		teachers := view.ListTeachers()
		out := make([]record, 0, len(teachers))
		for _, t := range teachers {
			out = append(out, record{id: t.ID, school: t.SchoolID, raw: t})
		}
		return out
	case EntityField:
		fields := view.ListFields()
		out := make([]record, 0, len(fields))
		for _, f := range fields {
			out = append(out, record{id: f.ID, school: f.SchoolID, raw: f})
		}
		return out
	case EntityTeacherField:
		tfs := view.ListTeacherFields()
		out := make([]record, 0, len(tfs))
		for _, tf := range tfs {
			out = append(out, record{id: tf.ID, school: tf.SchoolID, raw: tf})
		}
		return out
	case EntityTeacherCoordinator:
		tcs := view.ListTeacherCoordinators()
		out := make([]record, 0, len(tcs))
		for _, tc := range tcs {
			out = append(out, record{id: tc.ID, school: tc.SchoolID, raw: tc})
		}
		return out
	case EntitySchedule:
		schedules := view.ListSchedules()
		out := make([]record, 0, len(schedules))
		for _, sch := range schedules {
			out = append(out, record{id: sch.ID, school: sch.SchoolID, raw: sch})
		}
		return out
	case EntityLevel:
		levels := view.ListLevels()
		out := make([]record, 0, len(levels))
		for _, lv := range levels {
			out = append(out, record{id: lv.ID, school: lv.SchoolID, raw: lv})
		}
		return out
	case EntityGroup:
		groups := view.ListGroups()
		out := make([]record, 0, len(groups))
		for _, g := range groups {
			out = append(out, record{id: g.ID, school: g.SchoolID, raw: g})
		}
		return out
	case EntityGroupCoordinator:
		gcs := view.ListGroupCoordinators()
		out := make([]record, 0, len(gcs))
		for _, gc := range gcs {
			out = append(out, record{id: gc.ID, school: gc.SchoolID, raw: gc})
		}
		return out
	case EntitySubject:
		subjects := view.ListSubjects()
		out := make([]record, 0, len(subjects))
		for _, sub := range subjects {
			out = append(out, record{id: sub.ID, school: sub.SchoolID, raw: sub})
		}
		return out
	case EntitySession:
		sessions := view.ListSessions()
		out := make([]record, 0, len(sessions))
		for _, sess := range sessions {
			out = append(out, record{id: sess.ID, school: sess.SchoolID, raw: sess})
		}
		return out
	}
	return nil
}

// refValue extracts the reference named by field from the raw entity. An
// empty string means the reference is unset (only legal on optional edges).
func refValue(raw any, field string) string {
	switch e := raw.(type) {
	case Person:
		if field == "school_id" {
			return e.SchoolID
		}
	case Teacher:
		switch field {
		case "school_id":
			return e.SchoolID
		case "person_id":
			return e.PersonID
		}
	case Field:
		if field == "school_id" {
			return e.SchoolID
		}
	case TeacherField:
		switch field {
		case "school_id":
			return e.SchoolID
		case "teacher_id":
			return e.TeacherID
		case "field_id":
			return e.FieldID
		}
	case TeacherCoordinator:
		switch field {
		case "school_id":
			return e.SchoolID
		case "teacher_id":
			return e.TeacherID
		case "coordinator_id":
			return e.CoordinatorID
		}
	case Schedule:
		if field == "school_id" {
			return e.SchoolID
		}
	case Level:
		switch field {
		case "school_id":
			return e.SchoolID
		case "schedule_id":
			return e.ScheduleID
		}
	case Group:
		switch field {
		case "school_id":
			return e.SchoolID
		case "level_id":
			return e.LevelID
		}
	case GroupCoordinator:
		switch field {
		case "school_id":
			return e.SchoolID
		case "group_id":
			return e.GroupID
		case "coordinator_id":
			return e.CoordinatorID
		}
	case Subject:
		switch field {
		case "school_id":
			return e.SchoolID
		case "level_id":
			return e.LevelID
		case "field_id":
			return e.FieldID
		}
	case Session:
		switch field {
		case "school_id":
			return e.SchoolID
		case "level_id":
			return e.LevelID
		case "group_id":
			return e.GroupID
		case "subject_id":
			return e.SubjectID
		case "group_coordinator_id":
			return derefOrEmpty(e.GroupCoordinatorID)
		case "teacher_coordinator_id":
			return derefOrEmpty(e.TeacherCoordinatorID)
		case "teacher_field_id":
			return derefOrEmpty(e.TeacherFieldID)
		}
	}
	return ""
}

func derefOrEmpty(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

// resolveTarget looks up the referenced record and reports its tenant key.
func resolveTarget(view domain.TransactionView, entity EntityType, id string) (school string, ok bool) {
	switch entity {
	case EntitySchool:
		sc, found := view.FindSchool(id)
		return sc.ID, found
	case EntityPerson:
		p, found := view.FindPerson(id)
		return p.SchoolID, found
	case EntityTeacher:
		t, found := view.FindTeacher(id)
		return t.SchoolID, found
	case EntityField:
		f, found := view.FindField(id)
		return f.SchoolID, found
	case EntityTeacherField:
		tf, found := view.FindTeacherField(id)
		return tf.SchoolID, found
	case EntityTeacherCoordinator:
		tc, found := view.FindTeacherCoordinator(id)
		return tc.SchoolID, found
	case EntitySchedule:
		sch, found := view.FindSchedule(id)
		return sch.SchoolID, found
	case EntityLevel:
		lv, found := view.FindLevel(id)
		return lv.SchoolID, found
	case EntityGroup:
		g, found := view.FindGroup(id)
		return g.SchoolID, found
	case EntityGroupCoordinator:
		gc, found := view.FindGroupCoordinator(id)
		return gc.SchoolID, found
	case EntitySubject:
		sub, found := view.FindSubject(id)
		return sub.SchoolID, found
	case EntitySession:
		sess, found := view.FindSession(id)
		return sess.SchoolID, found
	}
	return "", false
}
