// Package domain defines the persistent entities, reference edges, and rule
// evaluation primitives used by schedcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntitySchool identifies a school (tenant) record.
	EntitySchool EntityType = "school"
	// EntityPerson identifies a person record.
	EntityPerson EntityType = "person"
	// EntityTeacher identifies a teacher record.
	EntityTeacher EntityType = "teacher"
	// EntityField identifies a field (subject area) record.
	EntityField EntityType = "field"
	// EntityTeacherField identifies a teacher/field assignment record.
	EntityTeacherField EntityType = "teacher_field"
	// EntityTeacherCoordinator identifies a teacher/coordinator assignment record.
	EntityTeacherCoordinator EntityType = "teacher_coordinator"
	// EntitySchedule identifies a schedule (time grid) record.
	EntitySchedule EntityType = "schedule"
	// EntityLevel identifies a level record.
	EntityLevel EntityType = "level"
	// EntityGroup identifies a group record.
	EntityGroup EntityType = "group"
	// EntityGroupCoordinator identifies a group/coordinator assignment record.
	EntityGroupCoordinator EntityType = "group_coordinator"
	// EntitySubject identifies a subject record.
	EntitySubject EntityType = "subject"
	// EntitySession identifies a scheduled session record.
	EntitySession EntityType = "session"
)

// Role enumerates the staff roles a person can hold within a school.
type Role string

// Canonical person roles used by coordinator eligibility checks.
const (
	RoleLead        Role = "lead"
	RoleCoordinator Role = "coordinator"
	RoleTeacher     Role = "teacher"
)

// PersonStatus enumerates employment states consumed by assignment rules.
type PersonStatus string

// Canonical person statuses; only active people may take new assignments.
const (
	StatusActive   PersonStatus = "active"
	StatusInactive PersonStatus = "inactive"
	StatusOnLeave  PersonStatus = "on_leave"
)

// ContractType enumerates teacher contract kinds.
type ContractType string

// Canonical teacher contract types.
const (
	ContractFullTime ContractType = "full_time"
	ContractPartTime ContractType = "part_time"
	ContractHourly   ContractType = "hourly"
)

// MaxStartMinute is the last valid session start time (23:59 in minutes since midnight).
const MaxStartMinute = 1439

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// School is the tenant boundary; every other record carries its id.
type School struct {
	Base
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Person represents a staff member belonging to a school.
type Person struct {
	Base
	SchoolID string       `json:"school_id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Role     Role         `json:"role"`
	Status   PersonStatus `json:"status"`
}

// Teacher captures the teaching contract for a person.
type Teacher struct {
	Base
	SchoolID         string       `json:"school_id"`
	PersonID         string       `json:"person_id"`
	ContractType     ContractType `json:"contract_type"`
	WeeklyHourBudget int          `json:"weekly_hour_budget"`
	MaxDailyHours    int          `json:"max_daily_hours"`
	Weekdays         []string     `json:"weekdays"`
}

// Field represents a subject area a teacher can be certified in.
type Field struct {
	Base
	SchoolID string `json:"school_id"`
	Name     string `json:"name"`
}

// TeacherField records that a teacher is certified to teach a field.
type TeacherField struct {
	Base
	SchoolID  string `json:"school_id"`
	TeacherID string `json:"teacher_id"`
	FieldID   string `json:"field_id"`
}

// TeacherCoordinator records that a coordinator supervises a teacher.
type TeacherCoordinator struct {
	Base
	SchoolID      string `json:"school_id"`
	TeacherID     string `json:"teacher_id"`
	CoordinatorID string `json:"coordinator_id"`
}

// Schedule defines the time grid levels are laid out on.
type Schedule struct {
	Base
	SchoolID       string   `json:"school_id"`
	Name           string   `json:"name"`
	DayStartMinute int      `json:"day_start_minute"`
	ShiftMinutes   int      `json:"shift_minutes"`
	UnitMinutes    int      `json:"unit_minutes"`
	Weekdays       []string `json:"weekdays"`
}

// Level groups student cohorts that share a schedule.
type Level struct {
	Base
	SchoolID   string `json:"school_id"`
	ScheduleID string `json:"schedule_id"`
	Name       string `json:"name"`
}

// Group is a student cohort within a level.
type Group struct {
	Base
	SchoolID     string `json:"school_id"`
	LevelID      string `json:"level_id"`
	Name         string `json:"name"`
	StudentCount int    `json:"student_count"`
}

// GroupCoordinator records that a coordinator supervises a group.
type GroupCoordinator struct {
	Base
	SchoolID      string `json:"school_id"`
	GroupID       string `json:"group_id"`
	CoordinatorID string `json:"coordinator_id"`
}

// Subject is a taught discipline within a level, bound to a field.
type Subject struct {
	Base
	SchoolID        string `json:"school_id"`
	LevelID         string `json:"level_id"`
	FieldID         string `json:"field_id"`
	Name            string `json:"name"`
	UnitCount       int    `json:"unit_count"`
	WeeklyFrequency int    `json:"weekly_frequency"`
}

// Session is a timetabled teaching unit. The assignment references are
// nullable: cascade rules clear them, leaving the session unassigned rather
// than deleting it.
type Session struct {
	Base
	SchoolID             string  `json:"school_id"`
	LevelID              string  `json:"level_id"`
	GroupID              string  `json:"group_id"`
	SubjectID            string  `json:"subject_id"`
	StartMinute          int     `json:"start_minute"`
	GroupSlot            int     `json:"group_slot"`
	TeacherSlot          int     `json:"teacher_slot"`
	GroupCoordinatorID   *string `json:"group_coordinator_id"`
	TeacherCoordinatorID *string `json:"teacher_coordinator_id"`
	TeacherFieldID       *string `json:"teacher_field_id"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation. Code is a stable machine
// identifier naming the exact failing predicate; Message is human-readable.
type Violation struct {
	Rule     string
	Code     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// First returns the first violation carrying the given severity, if any.
func (r Result) First(severity Severity) (Violation, bool) {
	for _, v := range r.Violations {
		if v.Severity == severity {
			return v, true
		}
	}
	return Violation{}, false
}
