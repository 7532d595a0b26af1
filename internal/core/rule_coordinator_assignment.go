package core

import (
	"context"
	"fmt"

	"schedcore/pkg/domain"
)

// NewCoordinatorAssignmentRule returns the consistency chains for the two
// coordinator join entities. Both follow the same shape: the left-hand
// record must exist in the tenant, the coordinator person must exist in the
// tenant with role coordinator and status active, and the pair must be
// unique.
func NewCoordinatorAssignmentRule() domain.Rule {
	return coordinatorAssignmentRule{}
}

type coordinatorAssignmentRule struct{}

func (coordinatorAssignmentRule) Name() string { return "coordinator_assignment_chain" }

func (coordinatorAssignmentRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, tc := range view.ListTeacherCoordinators() {
		if v := checkTeacherCoordinator(view, tc, tc.ID); v != nil {
			res.Violations = append(res.Violations, *v)
		}
	}
	for _, gc := range view.ListGroupCoordinators() {
		if v := checkGroupCoordinator(view, gc, gc.ID); v != nil {
			res.Violations = append(res.Violations, *v)
		}
	}
	return res, nil
}

func checkTeacherCoordinator(view domain.TransactionView, tc TeacherCoordinator, selfID string) *Violation {
	teacher, ok := view.FindTeacher(tc.TeacherID)
	if !ok {
		return chainViolation("coordinator_assignment_chain", CodeTeacherCoordinatorTeacherMissing, EntityTeacherCoordinator, selfID,
			fmt.Sprintf("teacher %s not found", tc.TeacherID))
	}
	if teacher.SchoolID != tc.SchoolID {
		return chainViolation("coordinator_assignment_chain", CodeTenantMismatch, EntityTeacherCoordinator, selfID,
			fmt.Sprintf("teacher %s belongs to school %s, not %s", teacher.ID, teacher.SchoolID, tc.SchoolID))
	}
	if v := checkCoordinatorPerson(view, tc.SchoolID, tc.CoordinatorID, EntityTeacherCoordinator, selfID,
		CodeTeacherCoordinatorPersonMissing, CodeTeacherCoordinatorPersonIneligible); v != nil {
		return v
	}
	for _, other := range view.ListTeacherCoordinators() {
		if other.ID == selfID {
			continue
		}
		if other.SchoolID == tc.SchoolID && other.TeacherID == tc.TeacherID && other.CoordinatorID == tc.CoordinatorID {
			if selfID == "" || precedes(other.Base, tc.Base) {
				return chainViolation("coordinator_assignment_chain", CodeDuplicateAssignment, EntityTeacherCoordinator, selfID,
					fmt.Sprintf("coordinator %s already assigned teacher %s", tc.CoordinatorID, tc.TeacherID))
			}
		}
	}
	return nil
}

func checkGroupCoordinator(view domain.TransactionView, gc GroupCoordinator, selfID string) *Violation {
	group, ok := view.FindGroup(gc.GroupID)
	if !ok {
		return chainViolation("coordinator_assignment_chain", CodeGroupCoordinatorGroupMissing, EntityGroupCoordinator, selfID,
			fmt.Sprintf("group %s not found", gc.GroupID))
	}
	if group.SchoolID != gc.SchoolID {
		return chainViolation("coordinator_assignment_chain", CodeTenantMismatch, EntityGroupCoordinator, selfID,
			fmt.Sprintf("group %s belongs to school %s, not %s", group.ID, group.SchoolID, gc.SchoolID))
	}
	if v := checkCoordinatorPerson(view, gc.SchoolID, gc.CoordinatorID, EntityGroupCoordinator, selfID,
		CodeGroupCoordinatorPersonMissing, CodeGroupCoordinatorPersonIneligible); v != nil {
		return v
	}
	for _, other := range view.ListGroupCoordinators() {
		if other.ID == selfID {
			continue
		}
		if other.SchoolID == gc.SchoolID && other.GroupID == gc.GroupID && other.CoordinatorID == gc.CoordinatorID {
			if selfID == "" || precedes(other.Base, gc.Base) {
				return chainViolation("coordinator_assignment_chain", CodeDuplicateAssignment, EntityGroupCoordinator, selfID,
					fmt.Sprintf("coordinator %s already assigned group %s", gc.CoordinatorID, gc.GroupID))
			}
		}
	}
	return nil
}

// checkCoordinatorPerson verifies existence, tenant membership, and
// role/status eligibility of the person a join entity names as coordinator.
func checkCoordinatorPerson(view domain.TransactionView, schoolID, personID string, entity EntityType, selfID, missingCode, ineligibleCode string) *Violation {
	person, ok := view.FindPerson(personID)
	if !ok {
		return chainViolation("coordinator_assignment_chain", missingCode, entity, selfID,
			fmt.Sprintf("coordinator %s not found", personID))
	}
	if person.SchoolID != schoolID {
		return chainViolation("coordinator_assignment_chain", CodeTenantMismatch, entity, selfID,
			fmt.Sprintf("coordinator %s belongs to school %s, not %s", person.ID, person.SchoolID, schoolID))
	}
	if person.Role != RoleCoordinator || person.Status != StatusActive {
		return chainViolation("coordinator_assignment_chain", ineligibleCode, entity, selfID,
			fmt.Sprintf("person %s is not an active coordinator (role=%s status=%s)", person.ID, person.Role, person.Status))
	}
	return nil
}
