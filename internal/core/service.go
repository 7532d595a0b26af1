package core

import (
	"context"
	"errors"
	"time"

	"schedcore/internal/infra/persistence/memory"
	"schedcore/pkg/domain"
)

// Service exposes the transactional call surface consumed by controller
// layers: tenant-scoped CRUD, assignment validation, the uniqueness guard,
// and cascade deletion.
type Service struct {
	store   domain.PersistentStore
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	clock   Clock
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger installs a structured logger. The default discards everything.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder installs a metrics sink for per-operation observations.
func WithMetricsRecorder(metrics MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithTracer installs a tracer opening one span per operation.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit sink for mutating operations.
func WithAuditRecorder(audit AuditRecorder) ServiceOption {
	return func(s *Service) {
		if audit != nil {
			s.audit = audit
		}
	}
}

// WithClock overrides the time source, propagating it into stores that
// support an injected now-function.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = ClockFunc(func() time.Time { return time.Now().UTC() })
	} else if setter, ok := store.(interface{ SetNowFunc(func() time.Time) }); ok {
		setter.SetNowFunc(s.clock.Now)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store wired
// with the given rules engine (the default engine when nil).
func NewInMemoryService(engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// run executes one mutating operation with tracing, metrics, audit, and
// failure logging around the store transaction.
func (s *Service) run(ctx context.Context, op string, entity EntityType, entityID func() string, fn func(domain.Transaction) error) (Result, error) {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	res, err := s.store.RunInTransaction(ctx, fn)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, s.clock.Now().Sub(start))

	entry := AuditEntry{Operation: op, Entity: entity, Status: AuditStatusSuccess, OccurredAt: s.clock.Now()}
	if entityID != nil {
		entry.EntityID = entityID()
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Warn("operation failed", "operation", op, "entity", entity, "error", err)
	}
	s.audit.Record(ctx, entry)
	return res, err
}

// guardUnique refuses a create whose natural key is already taken.
func guardUnique(view domain.TransactionView, entity EntityType, schoolID string, key NaturalKey) error {
	existing := findExisting(view, entity, schoolID, key)
	if existing == nil {
		return nil
	}
	kind, err := duplicateKindFor(entity)
	if err != nil {
		return err
	}
	return domain.DuplicateError{Kind: kind, Entity: entity, Existing: *existing}
}

// CreateSchool persists a new tenant.
func (s *Service) CreateSchool(ctx context.Context, school School) (School, Result, error) {
	var created School
	res, err := s.run(ctx, "create_school", EntitySchool, func() string { return created.ID }, func(tx domain.Transaction) error {
		if err := guardUnique(tx.Snapshot(), EntitySchool, "", NaturalKey{Name: school.Name}); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateSchool(school)
		return err
	})
	return created, res, err
}

// UpdateSchool mutates a school using the provided mutator.
func (s *Service) UpdateSchool(ctx context.Context, id string, mutator func(*School) error) (School, Result, error) {
	var updated School
	res, err := s.run(ctx, "update_school", EntitySchool, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateSchool(id, mutator)
		return err
	})
	return updated, res, err
}

// CreatePerson persists a staff member.
func (s *Service) CreatePerson(ctx context.Context, person Person) (Person, Result, error) {
	var created Person
	res, err := s.run(ctx, "create_person", EntityPerson, func() string { return created.ID }, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreatePerson(person)
		return err
	})
	return created, res, err
}

// UpdatePerson mutates a person.
func (s *Service) UpdatePerson(ctx context.Context, id string, mutator func(*Person) error) (Person, Result, error) {
	var updated Person
	res, err := s.run(ctx, "update_person", EntityPerson, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdatePerson(id, mutator)
		return err
	})
	return updated, res, err
}

// CreateTeacher persists a teaching contract.
func (s *Service) CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, Result, error) {
	var created Teacher
	res, err := s.run(ctx, "create_teacher", EntityTeacher, func() string { return created.ID }, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateTeacher(teacher)
		return err
	})
	return created, res, err
}

// UpdateTeacher mutates a teacher.
func (s *Service) UpdateTeacher(ctx context.Context, id string, mutator func(*Teacher) error) (Teacher, Result, error) {
	var updated Teacher
	res, err := s.run(ctx, "update_teacher", EntityTeacher, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateTeacher(id, mutator)
		return err
	})
	return updated, res, err
}

// CreateField persists a field.
func (s *Service) CreateField(ctx context.Context, field Field) (Field, Result, error) {
	var created Field
	res, err := s.run(ctx, "create_field", EntityField, func() string { return created.ID }, func(tx domain.Transaction) error {
		if err := guardUnique(tx.Snapshot(), EntityField, field.SchoolID, NaturalKey{Name: field.Name}); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateField(field)
		return err
	})
	return created, res, err
}

// UpdateField mutates a field.
func (s *Service) UpdateField(ctx context.Context, id string, mutator func(*Field) error) (Field, Result, error) {
	var updated Field
	res, err := s.run(ctx, "update_field", EntityField, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateField(id, mutator)
		return err
	})
	return updated, res, err
}

// CreateTeacherField assigns a field to a teacher. The candidate runs
// through the assignment chain before the write and the uniqueness guard
// refuses an exact duplicate pair.
func (s *Service) CreateTeacherField(ctx context.Context, tf TeacherField) (TeacherField, Result, error) {
	var created TeacherField
	res, err := s.run(ctx, "create_teacher_field", EntityTeacherField, func() string { return created.ID }, func(tx domain.Transaction) error {
		view := tx.Snapshot()
		if err := guardUnique(view, EntityTeacherField, tf.SchoolID, NaturalKey{TeacherID: tf.TeacherID, FieldID: tf.FieldID}); err != nil {
			return err
		}
		if v := checkTeacherField(view, tf, tf.ID); v != nil {
			return domain.RuleViolationError{Result: Result{Violations: []Violation{*v}}}
		}
		var err error
		created, err = tx.CreateTeacherField(tf)
		return err
	})
	return created, res, err
}

// CreateTeacherCoordinator assigns a coordinator to a teacher.
func (s *Service) CreateTeacherCoordinator(ctx context.Context, tc TeacherCoordinator) (TeacherCoordinator, Result, error) {
	var created TeacherCoordinator
	res, err := s.run(ctx, "create_teacher_coordinator", EntityTeacherCoordinator, func() string { return created.ID }, func(tx domain.Transaction) error {
		view := tx.Snapshot()
		if err := guardUnique(view, EntityTeacherCoordinator, tc.SchoolID, NaturalKey{TeacherID: tc.TeacherID, CoordinatorID: tc.CoordinatorID}); err != nil {
			return err
		}
		if v := checkTeacherCoordinator(view, tc, tc.ID); v != nil {
			return domain.RuleViolationError{Result: Result{Violations: []Violation{*v}}}
		}
		var err error
		created, err = tx.CreateTeacherCoordinator(tc)
		return err
	})
	return created, res, err
}

// CreateSchedule persists a schedule grid.
func (s *Service) CreateSchedule(ctx context.Context, schedule Schedule) (Schedule, Result, error) {
	var created Schedule
	res, err := s.run(ctx, "create_schedule", EntitySchedule, func() string { return created.ID }, func(tx domain.Transaction) error {
		if err := guardUnique(tx.Snapshot(), EntitySchedule, schedule.SchoolID, NaturalKey{Name: schedule.Name}); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateSchedule(schedule)
		return err
	})
	return created, res, err
}

// UpdateSchedule mutates a schedule.
func (s *Service) UpdateSchedule(ctx context.Context, id string, mutator func(*Schedule) error) (Schedule, Result, error) {
	var updated Schedule
	res, err := s.run(ctx, "update_schedule", EntitySchedule, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateSchedule(id, mutator)
		return err
	})
	return updated, res, err
}

// CreateLevel persists a level.
func (s *Service) CreateLevel(ctx context.Context, level Level) (Level, Result, error) {
	var created Level
	res, err := s.run(ctx, "create_level", EntityLevel, func() string { return created.ID }, func(tx domain.Transaction) error {
		if err := guardUnique(tx.Snapshot(), EntityLevel, level.SchoolID, NaturalKey{Name: level.Name}); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateLevel(level)
		return err
	})
	return created, res, err
}

// UpdateLevel mutates a level.
func (s *Service) UpdateLevel(ctx context.Context, id string, mutator func(*Level) error) (Level, Result, error) {
	var updated Level
	res, err := s.run(ctx, "update_level", EntityLevel, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateLevel(id, mutator)
		return err
	})
	return updated, res, err
}

// CreateGroup persists a group.
func (s *Service) CreateGroup(ctx context.Context, group Group) (Group, Result, error) {
	var created Group
	res, err := s.run(ctx, "create_group", EntityGroup, func() string { return created.ID }, func(tx domain.Transaction) error {
		if err := guardUnique(tx.Snapshot(), EntityGroup, group.SchoolID, NaturalKey{Name: group.Name, LevelID: group.LevelID}); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateGroup(group)
		return err
	})
	return created, res, err
}

// UpdateGroup mutates a group.
func (s *Service) UpdateGroup(ctx context.Context, id string, mutator func(*Group) error) (Group, Result, error) {
	var updated Group
	res, err := s.run(ctx, "update_group", EntityGroup, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateGroup(id, mutator)
		return err
	})
	return updated, res, err
}

// CreateGroupCoordinator assigns a coordinator to a group.
func (s *Service) CreateGroupCoordinator(ctx context.Context, gc GroupCoordinator) (GroupCoordinator, Result, error) {
	var created GroupCoordinator
	res, err := s.run(ctx, "create_group_coordinator", EntityGroupCoordinator, func() string { return created.ID }, func(tx domain.Transaction) error {
		view := tx.Snapshot()
		if err := guardUnique(view, EntityGroupCoordinator, gc.SchoolID, NaturalKey{GroupID: gc.GroupID, CoordinatorID: gc.CoordinatorID}); err != nil {
			return err
		}
		if v := checkGroupCoordinator(view, gc, gc.ID); v != nil {
			return domain.RuleViolationError{Result: Result{Violations: []Violation{*v}}}
		}
		var err error
		created, err = tx.CreateGroupCoordinator(gc)
		return err
	})
	return created, res, err
}

// CreateSubject persists a subject.
func (s *Service) CreateSubject(ctx context.Context, subject Subject) (Subject, Result, error) {
	var created Subject
	res, err := s.run(ctx, "create_subject", EntitySubject, func() string { return created.ID }, func(tx domain.Transaction) error {
		if err := guardUnique(tx.Snapshot(), EntitySubject, subject.SchoolID, NaturalKey{Name: subject.Name, LevelID: subject.LevelID}); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateSubject(subject)
		return err
	})
	return created, res, err
}

// UpdateSubject mutates a subject.
func (s *Service) UpdateSubject(ctx context.Context, id string, mutator func(*Subject) error) (Subject, Result, error) {
	var updated Subject
	res, err := s.run(ctx, "update_subject", EntitySubject, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateSubject(id, mutator)
		return err
	})
	return updated, res, err
}

// CreateSession persists a session. The full session chain runs against the
// candidate before the write.
func (s *Service) CreateSession(ctx context.Context, session Session) (Session, Result, error) {
	var created Session
	res, err := s.run(ctx, "create_session", EntitySession, func() string { return created.ID }, func(tx domain.Transaction) error {
		if v := checkSession(tx.Snapshot(), session); v != nil {
			return domain.RuleViolationError{Result: Result{Violations: []Violation{*v}}}
		}
		var err error
		created, err = tx.CreateSession(session)
		return err
	})
	return created, res, err
}

// UpdateSession mutates a session and re-runs the identical chain against
// the proposed new state; an update is never partially validated.
func (s *Service) UpdateSession(ctx context.Context, id string, mutator func(*Session) error) (Session, Result, error) {
	var updated Session
	res, err := s.run(ctx, "update_session", EntitySession, func() string { return id }, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateSession(id, mutator)
		if err != nil {
			return err
		}
		if v := checkSession(tx.Snapshot(), updated); v != nil {
			return domain.RuleViolationError{Result: Result{Violations: []Violation{*v}}}
		}
		return nil
	})
	return updated, res, err
}

// CheckUnique reports the record already holding the natural key, or nil.
func (s *Service) CheckUnique(ctx context.Context, entity EntityType, schoolID string, key NaturalKey) (*UniqueMatch, error) {
	return CheckUnique(ctx, s.store, entity, schoolID, key)
}

// ValidationResult is the outcome of a standalone assignment validation.
type ValidationResult struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidateAssignment runs the consistency chain for a candidate assignment
// record without mutating state. The candidate's declared tenant must match
// schoolID.
func (s *Service) ValidateAssignment(ctx context.Context, kind EntityType, schoolID string, candidate any) (ValidationResult, error) {
	var out ValidationResult
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		out = validateAssignment(view, kind, schoolID, candidate)
		return nil
	})
	return out, err
}

func validateAssignment(view domain.TransactionView, kind EntityType, schoolID string, candidate any) ValidationResult {
	fromViolation := func(v *Violation) ValidationResult {
		if v == nil {
			return ValidationResult{OK: true}
		}
		return ValidationResult{Code: v.Code, Message: v.Message}
	}
	mismatch := func(got string) ValidationResult {
		return ValidationResult{Code: CodeTenantMismatch, Message: "candidate declares school " + got + ", validated for " + schoolID}
	}
	switch kind {
	case EntityTeacherField:
		tf, ok := candidate.(TeacherField)
		if !ok {
			return ValidationResult{Code: CodeReferenceNotFound, Message: "candidate is not a teacher field"}
		}
		if tf.SchoolID != schoolID {
			return mismatch(tf.SchoolID)
		}
		return fromViolation(checkTeacherField(view, tf, tf.ID))
	case EntityTeacherCoordinator:
		tc, ok := candidate.(TeacherCoordinator)
		if !ok {
			return ValidationResult{Code: CodeReferenceNotFound, Message: "candidate is not a teacher coordinator"}
		}
		if tc.SchoolID != schoolID {
			return mismatch(tc.SchoolID)
		}
		return fromViolation(checkTeacherCoordinator(view, tc, tc.ID))
	case EntityGroupCoordinator:
		gc, ok := candidate.(GroupCoordinator)
		if !ok {
			return ValidationResult{Code: CodeReferenceNotFound, Message: "candidate is not a group coordinator"}
		}
		if gc.SchoolID != schoolID {
			return mismatch(gc.SchoolID)
		}
		return fromViolation(checkGroupCoordinator(view, gc, gc.ID))
	case EntitySession:
		session, ok := candidate.(Session)
		if !ok {
			return ValidationResult{Code: CodeReferenceNotFound, Message: "candidate is not a session"}
		}
		if session.SchoolID != schoolID {
			return mismatch(session.SchoolID)
		}
		return fromViolation(checkSession(view, session))
	}
	return ValidationResult{Code: CodeReferenceNotFound, Message: "no validation chain for entity " + string(kind)}
}

// CascadeDelete removes a record and its dependents per the edge table. The
// root id must resolve within schoolID; a foreign tenant's id reports
// NotFound, exactly like an id that never existed. A partial cascade is
// logged as a system-level concern; re-invoking with the same root converges.
func (s *Service) CascadeDelete(ctx context.Context, entity EntityType, id, schoolID string) (CascadeResult, error) {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, "cascade_delete")
	result, err := CascadeDelete(ctx, s.store, entity, id, schoolID)
	span.End(err)
	s.metrics.Observe(ctx, "cascade_delete", err == nil, s.clock.Now().Sub(start))

	entry := AuditEntry{Operation: "cascade_delete", Entity: entity, EntityID: id, Status: AuditStatusSuccess, OccurredAt: s.clock.Now()}
	switch {
	case err == nil:
		s.logger.Debug("cascade complete", "entity", entity, "id", id, "school", schoolID,
			"deleted", result.DeletedCount(), "nullified", len(result.Nullified[EntitySession]),
			"blocked", result.Blocked, "not_found", result.NotFound)
	default:
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		var partial domain.PartialCascadeError
		if errors.As(err, &partial) {
			s.logger.Error("cascade partially applied", "entity", entity, "id", id,
				"step", partial.Step, "error", partial.Err)
		} else {
			s.logger.Warn("cascade refused", "entity", entity, "id", id, "error", err)
		}
	}
	s.audit.Record(ctx, entry)
	return result, err
}
