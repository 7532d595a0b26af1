package core

import "schedcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Role               = domain.Role
	PersonStatus       = domain.PersonStatus
	ContractType       = domain.ContractType
	Severity           = domain.Severity
	Base               = domain.Base
	School             = domain.School
	Person             = domain.Person
	Teacher            = domain.Teacher
	Field              = domain.Field
	TeacherField       = domain.TeacherField
	TeacherCoordinator = domain.TeacherCoordinator
	Schedule           = domain.Schedule
	Level              = domain.Level
	Group              = domain.Group
	GroupCoordinator   = domain.GroupCoordinator
	Subject            = domain.Subject
	Session            = domain.Session
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
)

const (
	EntitySchool             = domain.EntitySchool
	EntityPerson             = domain.EntityPerson
	EntityTeacher            = domain.EntityTeacher
	EntityField              = domain.EntityField
	EntityTeacherField       = domain.EntityTeacherField
	EntityTeacherCoordinator = domain.EntityTeacherCoordinator
	EntitySchedule           = domain.EntitySchedule
	EntityLevel              = domain.EntityLevel
	EntityGroup              = domain.EntityGroup
	EntityGroupCoordinator   = domain.EntityGroupCoordinator
	EntitySubject            = domain.EntitySubject
	EntitySession            = domain.EntitySession
)

const (
	RoleLead        = domain.RoleLead
	RoleCoordinator = domain.RoleCoordinator
	RoleTeacher     = domain.RoleTeacher
)

const (
	StatusActive   = domain.StatusActive
	StatusInactive = domain.StatusInactive
	StatusOnLeave  = domain.StatusOnLeave
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
