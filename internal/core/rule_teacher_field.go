package core

import (
	"context"
	"fmt"

	"schedcore/pkg/domain"
)

// NewTeacherFieldRule returns the consistency chain for teacher/field
// certifications: the teacher must exist in the tenant with an active
// underlying person, the field must exist in the tenant, and the
// (teacher, field) pair must be unique. Predicates run in order; only the
// first failure per record is reported, since later checks assume earlier
// ones passed.
func NewTeacherFieldRule() domain.Rule {
	return teacherFieldRule{}
}

type teacherFieldRule struct{}

func (teacherFieldRule) Name() string { return "teacher_field_chain" }

func (teacherFieldRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, tf := range view.ListTeacherFields() {
		if v := checkTeacherField(view, tf, tf.ID); v != nil {
			res.Violations = append(res.Violations, *v)
		}
	}
	return res, nil
}

// checkTeacherField evaluates the chain for one candidate. selfID excludes
// the candidate's own record from the duplicate scan; it is empty when
// validating a record that has not been persisted yet.
func checkTeacherField(view domain.TransactionView, tf TeacherField, selfID string) *Violation {
	teacher, ok := view.FindTeacher(tf.TeacherID)
	if !ok {
		return chainViolation("teacher_field_chain", CodeTeacherFieldTeacherMissing, EntityTeacherField, selfID,
			fmt.Sprintf("teacher %s not found", tf.TeacherID))
	}
	if teacher.SchoolID != tf.SchoolID {
		return chainViolation("teacher_field_chain", CodeTenantMismatch, EntityTeacherField, selfID,
			fmt.Sprintf("teacher %s belongs to school %s, not %s", teacher.ID, teacher.SchoolID, tf.SchoolID))
	}
	person, ok := view.FindPerson(teacher.PersonID)
	if !ok || person.Status != StatusActive {
		return chainViolation("teacher_field_chain", CodeTeacherFieldTeacherInactive, EntityTeacherField, selfID,
			fmt.Sprintf("teacher %s is not active", teacher.ID))
	}
	field, ok := view.FindField(tf.FieldID)
	if !ok {
		return chainViolation("teacher_field_chain", CodeTeacherFieldFieldMissing, EntityTeacherField, selfID,
			fmt.Sprintf("field %s not found", tf.FieldID))
	}
	if field.SchoolID != tf.SchoolID {
		return chainViolation("teacher_field_chain", CodeTenantMismatch, EntityTeacherField, selfID,
			fmt.Sprintf("field %s belongs to school %s, not %s", field.ID, field.SchoolID, tf.SchoolID))
	}
	for _, other := range view.ListTeacherFields() {
		if other.ID == selfID {
			continue
		}
		if other.SchoolID == tf.SchoolID && other.TeacherID == tf.TeacherID && other.FieldID == tf.FieldID {
			if selfID == "" || precedes(other.Base, tf.Base) {
				return chainViolation("teacher_field_chain", CodeDuplicateAssignment, EntityTeacherField, selfID,
					fmt.Sprintf("teacher %s already assigned field %s", tf.TeacherID, tf.FieldID))
			}
		}
	}
	return nil
}

// precedes orders two records so exactly one side of a duplicate pair is
// flagged: the earlier record (creation time, then id) wins.
func precedes(a, b Base) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func chainViolation(rule, code string, entity EntityType, id, message string) *Violation {
	return &Violation{
		Rule:     rule,
		Code:     code,
		Severity: SeverityBlock,
		Message:  message,
		Entity:   entity,
		EntityID: id,
	}
}
