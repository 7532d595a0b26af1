package core

import (
	"context"
	"fmt"

	"schedcore/pkg/domain"
)

// NewSessionChainRule returns the session consistency chain. A session may
// be unassigned (nil coordinator and teacher-field references); the checks
// below skip any step whose references are absent, so cascade nullification
// never strands a session in an invalid state.
func NewSessionChainRule() domain.Rule {
	return sessionChainRule{}
}

type sessionChainRule struct{}

func (sessionChainRule) Name() string { return "session_chain" }

func (sessionChainRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, s := range view.ListSessions() {
		if v := checkSession(view, s); v != nil {
			res.Violations = append(res.Violations, *v)
		}
	}
	return res, nil
}

// checkSession walks the ordered predicate chain for a session. Later steps
// assume earlier ones passed, so the first failure is the only one reported.
func checkSession(view domain.TransactionView, s Session) *Violation {
	if s.StartMinute < 0 || s.StartMinute > domain.MaxStartMinute {
		return chainViolation("session_chain", CodeSessionStartOutOfRange, EntitySession, s.ID,
			fmt.Sprintf("start minute %d outside 0..%d", s.StartMinute, domain.MaxStartMinute))
	}

	var (
		gc    GroupCoordinator
		hasGC bool
	)
	if s.GroupCoordinatorID != nil {
		var ok bool
		gc, ok = view.FindGroupCoordinator(*s.GroupCoordinatorID)
		if !ok {
			return chainViolation("session_chain", CodeSessionGroupCoordinatorMissing, EntitySession, s.ID,
				fmt.Sprintf("group coordinator %s not found", *s.GroupCoordinatorID))
		}
		if gc.SchoolID != s.SchoolID {
			return chainViolation("session_chain", CodeTenantMismatch, EntitySession, s.ID,
				fmt.Sprintf("group coordinator %s belongs to school %s, not %s", gc.ID, gc.SchoolID, s.SchoolID))
		}
		hasGC = true

		group, ok := view.FindGroup(gc.GroupID)
		if !ok {
			return chainViolation("session_chain", CodeSessionGroupCoordinatorMissing, EntitySession, s.ID,
				fmt.Sprintf("group coordinator %s references missing group %s", gc.ID, gc.GroupID))
		}
		if group.LevelID != s.LevelID {
			return chainViolation("session_chain", CodeSessionGroupLevelMismatch, EntitySession, s.ID,
				fmt.Sprintf("group %s is in level %s, session declares level %s", group.ID, group.LevelID, s.LevelID))
		}
		if gc.GroupID != s.GroupID {
			return chainViolation("session_chain", CodeSessionGroupMismatch, EntitySession, s.ID,
				fmt.Sprintf("group coordinator %s covers group %s, session declares group %s", gc.ID, gc.GroupID, s.GroupID))
		}
		person, ok := view.FindPerson(gc.CoordinatorID)
		if !ok || person.Role != RoleCoordinator || person.Status != StatusActive {
			return chainViolation("session_chain", CodeSessionCoordinatorIneligible, EntitySession, s.ID,
				fmt.Sprintf("person %s is not an active coordinator", gc.CoordinatorID))
		}
	}

	var (
		tc    TeacherCoordinator
		hasTC bool
	)
	if s.TeacherCoordinatorID != nil {
		var ok bool
		tc, ok = view.FindTeacherCoordinator(*s.TeacherCoordinatorID)
		if !ok {
			return chainViolation("session_chain", CodeSessionTeacherCoordinatorMissing, EntitySession, s.ID,
				fmt.Sprintf("teacher coordinator %s not found", *s.TeacherCoordinatorID))
		}
		if tc.SchoolID != s.SchoolID {
			return chainViolation("session_chain", CodeTenantMismatch, EntitySession, s.ID,
				fmt.Sprintf("teacher coordinator %s belongs to school %s, not %s", tc.ID, tc.SchoolID, s.SchoolID))
		}
		hasTC = true
	}
	if hasGC && hasTC && tc.CoordinatorID != gc.CoordinatorID {
		return chainViolation("session_chain", CodeSessionCoordinatorMismatch, EntitySession, s.ID,
			fmt.Sprintf("teacher coordinator %s is held by %s, group coordinator %s by %s",
				tc.ID, tc.CoordinatorID, gc.ID, gc.CoordinatorID))
	}

	var (
		tf    TeacherField
		hasTF bool
	)
	if s.TeacherFieldID != nil {
		var ok bool
		tf, ok = view.FindTeacherField(*s.TeacherFieldID)
		if !ok {
			return chainViolation("session_chain", CodeSessionTeacherFieldMissing, EntitySession, s.ID,
				fmt.Sprintf("teacher field %s not found", *s.TeacherFieldID))
		}
		if tf.SchoolID != s.SchoolID {
			return chainViolation("session_chain", CodeTenantMismatch, EntitySession, s.ID,
				fmt.Sprintf("teacher field %s belongs to school %s, not %s", tf.ID, tf.SchoolID, s.SchoolID))
		}
		hasTF = true
	}
	if hasTC && hasTF && tc.TeacherID != tf.TeacherID {
		return chainViolation("session_chain", CodeSessionTeacherMismatch, EntitySession, s.ID,
			fmt.Sprintf("teacher coordinator %s covers teacher %s, teacher field %s belongs to teacher %s",
				tc.ID, tc.TeacherID, tf.ID, tf.TeacherID))
	}

	subject, ok := view.FindSubject(s.SubjectID)
	if !ok {
		return chainViolation("session_chain", CodeSessionSubjectMissing, EntitySession, s.ID,
			fmt.Sprintf("subject %s not found", s.SubjectID))
	}
	if subject.SchoolID != s.SchoolID {
		return chainViolation("session_chain", CodeTenantMismatch, EntitySession, s.ID,
			fmt.Sprintf("subject %s belongs to school %s, not %s", subject.ID, subject.SchoolID, s.SchoolID))
	}
	if subject.LevelID != s.LevelID {
		return chainViolation("session_chain", CodeSessionSubjectLevelMismatch, EntitySession, s.ID,
			fmt.Sprintf("subject %s is in level %s, session declares level %s", subject.ID, subject.LevelID, s.LevelID))
	}
	if hasTF && subject.FieldID != tf.FieldID {
		return chainViolation("session_chain", CodeSessionFieldMismatch, EntitySession, s.ID,
			fmt.Sprintf("subject %s requires field %s, teacher field %s carries field %s",
				subject.ID, subject.FieldID, tf.ID, tf.FieldID))
	}
	return nil
}
