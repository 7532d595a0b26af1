package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView

	CreateSchool(School) (School, error)
	UpdateSchool(id string, mutator func(*School) error) (School, error)
	DeleteSchool(id string) error

	CreatePerson(Person) (Person, error)
	UpdatePerson(id string, mutator func(*Person) error) (Person, error)
	DeletePerson(id string) error

	CreateTeacher(Teacher) (Teacher, error)
	UpdateTeacher(id string, mutator func(*Teacher) error) (Teacher, error)
	DeleteTeacher(id string) error

	CreateField(Field) (Field, error)
	UpdateField(id string, mutator func(*Field) error) (Field, error)
	DeleteField(id string) error

	CreateTeacherField(TeacherField) (TeacherField, error)
	DeleteTeacherField(id string) error

	CreateTeacherCoordinator(TeacherCoordinator) (TeacherCoordinator, error)
	DeleteTeacherCoordinator(id string) error

	CreateSchedule(Schedule) (Schedule, error)
	UpdateSchedule(id string, mutator func(*Schedule) error) (Schedule, error)
	DeleteSchedule(id string) error

	CreateLevel(Level) (Level, error)
	UpdateLevel(id string, mutator func(*Level) error) (Level, error)
	DeleteLevel(id string) error

	CreateGroup(Group) (Group, error)
	UpdateGroup(id string, mutator func(*Group) error) (Group, error)
	DeleteGroup(id string) error

	CreateGroupCoordinator(GroupCoordinator) (GroupCoordinator, error)
	DeleteGroupCoordinator(id string) error

	CreateSubject(Subject) (Subject, error)
	UpdateSubject(id string, mutator func(*Subject) error) (Subject, error)
	DeleteSubject(id string) error

	CreateSession(Session) (Session, error)
	UpdateSession(id string, mutator func(*Session) error) (Session, error)
	DeleteSession(id string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// cascade planning.
type TransactionView interface {
	ListSchools() []School
	ListPeople() []Person
	ListTeachers() []Teacher
	ListFields() []Field
	ListTeacherFields() []TeacherField
	ListTeacherCoordinators() []TeacherCoordinator
	ListSchedules() []Schedule
	ListLevels() []Level
	ListGroups() []Group
	ListGroupCoordinators() []GroupCoordinator
	ListSubjects() []Subject
	ListSessions() []Session

	FindSchool(id string) (School, bool)
	FindPerson(id string) (Person, bool)
	FindTeacher(id string) (Teacher, bool)
	FindField(id string) (Field, bool)
	FindTeacherField(id string) (TeacherField, bool)
	FindTeacherCoordinator(id string) (TeacherCoordinator, bool)
	FindSchedule(id string) (Schedule, bool)
	FindLevel(id string) (Level, bool)
	FindGroup(id string) (Group, bool)
	FindGroupCoordinator(id string) (GroupCoordinator, bool)
	FindSubject(id string) (Subject, bool)
	FindSession(id string) (Session, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error

	GetSchool(id string) (School, bool)
	GetPerson(id string) (Person, bool)
	GetTeacher(id string) (Teacher, bool)
	GetField(id string) (Field, bool)
	GetTeacherField(id string) (TeacherField, bool)
	GetTeacherCoordinator(id string) (TeacherCoordinator, bool)
	GetSchedule(id string) (Schedule, bool)
	GetLevel(id string) (Level, bool)
	GetGroup(id string) (Group, bool)
	GetGroupCoordinator(id string) (GroupCoordinator, bool)
	GetSubject(id string) (Subject, bool)
	GetSession(id string) (Session, bool)

	ListSchools() []School
	ListPeople() []Person
	ListTeachers() []Teacher
	ListFields() []Field
	ListTeacherFields() []TeacherField
	ListTeacherCoordinators() []TeacherCoordinator
	ListSchedules() []Schedule
	ListLevels() []Level
	ListGroups() []Group
	ListGroupCoordinators() []GroupCoordinator
	ListSubjects() []Subject
	ListSessions() []Session
}
