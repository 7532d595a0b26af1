package core

// Violation codes identify the exact failing predicate of a consistency
// chain. They are stable machine identifiers: callers and tests match on them
// verbatim.
const (
	// Generic reference integrity.
	CodeReferenceNotFound = "reference_not_found"
	CodeTenantMismatch    = "tenant_mismatch"

	// Uniqueness guard.
	CodeDuplicateName       = "duplicate_name"
	CodeDuplicateAssignment = "duplicate_assignment"

	// TeacherField chain.
	CodeTeacherFieldTeacherMissing  = "teacher_field_teacher_missing"
	CodeTeacherFieldTeacherInactive = "teacher_field_teacher_inactive"
	CodeTeacherFieldFieldMissing    = "teacher_field_field_missing"

	// TeacherCoordinator chain.
	CodeTeacherCoordinatorTeacherMissing   = "teacher_coordinator_teacher_missing"
	CodeTeacherCoordinatorPersonMissing    = "teacher_coordinator_person_missing"
	CodeTeacherCoordinatorPersonIneligible = "teacher_coordinator_person_ineligible"

	// GroupCoordinator chain.
	CodeGroupCoordinatorGroupMissing     = "group_coordinator_group_missing"
	CodeGroupCoordinatorPersonMissing    = "group_coordinator_person_missing"
	CodeGroupCoordinatorPersonIneligible = "group_coordinator_person_ineligible"

	// Session chain, in evaluation order.
	CodeSessionStartOutOfRange           = "session_start_out_of_range"
	CodeSessionGroupCoordinatorMissing   = "session_group_coordinator_missing"
	CodeSessionGroupLevelMismatch        = "session_group_level_mismatch"
	CodeSessionGroupMismatch             = "session_group_mismatch"
	CodeSessionCoordinatorIneligible     = "session_coordinator_ineligible"
	CodeSessionTeacherCoordinatorMissing = "session_teacher_coordinator_missing"
	CodeSessionCoordinatorMismatch       = "session_coordinator_mismatch"
	CodeSessionTeacherFieldMissing       = "session_teacher_field_missing"
	CodeSessionTeacherMismatch           = "session_teacher_mismatch"
	CodeSessionSubjectMissing            = "session_subject_missing"
	CodeSessionSubjectLevelMismatch      = "session_subject_level_mismatch"
	CodeSessionFieldMismatch             = "session_field_mismatch"
)
