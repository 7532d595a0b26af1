// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments. It is also the canonical
// semantics that the sqlite and postgres stores delegate to.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"schedcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// School aliases domain.School for in-memory persistence operations.
	School = domain.School
	// Person aliases domain.Person.
	Person = domain.Person
	// Teacher aliases domain.Teacher.
	Teacher = domain.Teacher
	// Field aliases domain.Field.
	Field = domain.Field
	// TeacherField aliases domain.TeacherField.
	TeacherField = domain.TeacherField
	// TeacherCoordinator aliases domain.TeacherCoordinator.
	TeacherCoordinator = domain.TeacherCoordinator
	// Schedule aliases domain.Schedule.
	Schedule = domain.Schedule
	// Level aliases domain.Level.
	Level = domain.Level
	// Group aliases domain.Group.
	Group = domain.Group
	// GroupCoordinator aliases domain.GroupCoordinator.
	GroupCoordinator = domain.GroupCoordinator
	// Subject aliases domain.Subject.
	Subject = domain.Subject
	// Session aliases domain.Session.
	Session = domain.Session
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

type memoryState struct {
	schools             map[string]School
	people              map[string]Person
	teachers            map[string]Teacher
	fields              map[string]Field
	teacherFields       map[string]TeacherField
	teacherCoordinators map[string]TeacherCoordinator
	schedules           map[string]Schedule
	levels              map[string]Level
	groups              map[string]Group
	groupCoordinators   map[string]GroupCoordinator
	subjects            map[string]Subject
	sessions            map[string]Session
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Schools             map[string]School             `json:"schools"`
	People              map[string]Person             `json:"people"`
	Teachers            map[string]Teacher            `json:"teachers"`
	Fields              map[string]Field              `json:"fields"`
	TeacherFields       map[string]TeacherField       `json:"teacher_fields"`
	TeacherCoordinators map[string]TeacherCoordinator `json:"teacher_coordinators"`
	Schedules           map[string]Schedule           `json:"schedules"`
	Levels              map[string]Level              `json:"levels"`
	Groups              map[string]Group              `json:"groups"`
	GroupCoordinators   map[string]GroupCoordinator   `json:"group_coordinators"`
	Subjects            map[string]Subject            `json:"subjects"`
	Sessions            map[string]Session            `json:"sessions"`
}

func newMemoryState() memoryState {
	return memoryState{
		schools:             make(map[string]School),
		people:              make(map[string]Person),
		teachers:            make(map[string]Teacher),
		fields:              make(map[string]Field),
		teacherFields:       make(map[string]TeacherField),
		teacherCoordinators: make(map[string]TeacherCoordinator),
		schedules:           make(map[string]Schedule),
		levels:              make(map[string]Level),
		groups:              make(map[string]Group),
		groupCoordinators:   make(map[string]GroupCoordinator),
		subjects:            make(map[string]Subject),
		sessions:            make(map[string]Session),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.schools {
		cloned.schools[k] = v
	}
	for k, v := range s.people {
		cloned.people[k] = v
	}
	for k, v := range s.teachers {
		cloned.teachers[k] = cloneTeacher(v)
	}
	for k, v := range s.fields {
		cloned.fields[k] = v
	}
	for k, v := range s.teacherFields {
		cloned.teacherFields[k] = v
	}
	for k, v := range s.teacherCoordinators {
		cloned.teacherCoordinators[k] = v
	}
	for k, v := range s.schedules {
		cloned.schedules[k] = cloneSchedule(v)
	}
	for k, v := range s.levels {
		cloned.levels[k] = v
	}
	for k, v := range s.groups {
		cloned.groups[k] = v
	}
	for k, v := range s.groupCoordinators {
		cloned.groupCoordinators[k] = v
	}
	for k, v := range s.subjects {
		cloned.subjects[k] = v
	}
	for k, v := range s.sessions {
		cloned.sessions[k] = cloneSession(v)
	}
	return cloned
}

func cloneTeacher(t Teacher) Teacher {
	cp := t
	cp.Weekdays = append([]string(nil), t.Weekdays...)
	return cp
}

func cloneSchedule(s Schedule) Schedule {
	cp := s
	cp.Weekdays = append([]string(nil), s.Weekdays...)
	return cp
}

func cloneSession(s Session) Session {
	cp := s
	cp.GroupCoordinatorID = cloneOptionalString(s.GroupCoordinatorID)
	cp.TeacherCoordinatorID = cloneOptionalString(s.TeacherCoordinatorID)
	cp.TeacherFieldID = cloneOptionalString(s.TeacherFieldID)
	return cp
}

func cloneOptionalString(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	v := *ptr
	return &v
}

func snapshotFromState(state memoryState) Snapshot {
	cloned := state.clone()
	return Snapshot{
		Schools:             cloned.schools,
		People:              cloned.people,
		Teachers:            cloned.teachers,
		Fields:              cloned.fields,
		TeacherFields:       cloned.teacherFields,
		TeacherCoordinators: cloned.teacherCoordinators,
		Schedules:           cloned.schedules,
		Levels:              cloned.levels,
		Groups:              cloned.groups,
		GroupCoordinators:   cloned.groupCoordinators,
		Subjects:            cloned.subjects,
		Sessions:            cloned.sessions,
	}
}

func stateFromSnapshot(snapshot Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range snapshot.Schools {
		state.schools[k] = v
	}
	for k, v := range snapshot.People {
		state.people[k] = v
	}
	for k, v := range snapshot.Teachers {
		state.teachers[k] = cloneTeacher(v)
	}
	for k, v := range snapshot.Fields {
		state.fields[k] = v
	}
	for k, v := range snapshot.TeacherFields {
		state.teacherFields[k] = v
	}
	for k, v := range snapshot.TeacherCoordinators {
		state.teacherCoordinators[k] = v
	}
	for k, v := range snapshot.Schedules {
		state.schedules[k] = cloneSchedule(v)
	}
	for k, v := range snapshot.Levels {
		state.levels[k] = v
	}
	for k, v := range snapshot.Groups {
		state.groups[k] = v
	}
	for k, v := range snapshot.GroupCoordinators {
		state.groupCoordinators[k] = v
	}
	for k, v := range snapshot.Subjects {
		state.subjects[k] = v
	}
	for k, v := range snapshot.Sessions {
		state.sessions[k] = cloneSession(v)
	}
	return state
}

// Store is the in-memory transactional document store for the core schema.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snapshot)
}

// RulesEngine exposes the currently configured engine for integration points.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc replaces the time provider; tests use it for deterministic clocks.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) transactionView {
	return transactionView{state: state}
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The rules engine evaluates the candidate state before commit; blocking
// violations roll the whole transaction back.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

func blockedDelete(entity domain.EntityType, id string, dependents []string) error {
	sort.Strings(dependents)
	return domain.BlockedDeleteError{Entity: entity, ID: id, Dependents: dependents}
}
