package domain

// ReferenceKind distinguishes ownership edges from assignment edges.
type ReferenceKind string

// Edge kinds: a parent edge places the child inside a hierarchy; an
// assignment edge records a many-to-many relationship.
const (
	KindParent     ReferenceKind = "parent"
	KindAssignment ReferenceKind = "assignment"
)

// DeletePolicy states what happens to a referencing record when the record it
// points at is deleted.
type DeletePolicy string

// Delete policies applied while walking the entity graph.
const (
	// PolicyCascade deletes the referencing record.
	PolicyCascade DeletePolicy = "cascade"
	// PolicyNullify clears the reference field and keeps the record.
	PolicyNullify DeletePolicy = "nullify"
	// PolicyGuard refuses the deletion while references exist.
	PolicyGuard DeletePolicy = "guard"
)

// Edge declares a single reference between entity types. From is the
// referencing (child) entity, To the referenced one. Field names the JSON
// attribute carrying the reference so diagnostics can point at it. Optional
// edges hold a nullable reference.
type Edge struct {
	From     EntityType
	Field    string
	To       EntityType
	Kind     ReferenceKind
	OnDelete DeletePolicy
	Optional bool
}

// edges is the static declaration of every reference in the schema. The
// cascade propagator and the tenant-isolation rule walk this table; adding an
// entity type means adding rows here, not touching the algorithms.
var edges = []Edge{
	{From: EntityPerson, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityTeacher, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityTeacher, Field: "person_id", To: EntityPerson, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityField, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityTeacherField, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityTeacherField, Field: "teacher_id", To: EntityTeacher, Kind: KindAssignment, OnDelete: PolicyCascade},
	{From: EntityTeacherField, Field: "field_id", To: EntityField, Kind: KindAssignment, OnDelete: PolicyCascade},
	{From: EntityTeacherCoordinator, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityTeacherCoordinator, Field: "teacher_id", To: EntityTeacher, Kind: KindAssignment, OnDelete: PolicyCascade},
	{From: EntityTeacherCoordinator, Field: "coordinator_id", To: EntityPerson, Kind: KindAssignment, OnDelete: PolicyCascade},
	{From: EntitySchedule, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityLevel, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityLevel, Field: "schedule_id", To: EntitySchedule, Kind: KindParent, OnDelete: PolicyGuard},
	{From: EntityGroup, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityGroup, Field: "level_id", To: EntityLevel, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityGroupCoordinator, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntityGroupCoordinator, Field: "group_id", To: EntityGroup, Kind: KindAssignment, OnDelete: PolicyCascade},
	{From: EntityGroupCoordinator, Field: "coordinator_id", To: EntityPerson, Kind: KindAssignment, OnDelete: PolicyCascade},
	{From: EntitySubject, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntitySubject, Field: "level_id", To: EntityLevel, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntitySubject, Field: "field_id", To: EntityField, Kind: KindAssignment, OnDelete: PolicyCascade},
	{From: EntitySession, Field: "school_id", To: EntitySchool, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntitySession, Field: "level_id", To: EntityLevel, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntitySession, Field: "group_id", To: EntityGroup, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntitySession, Field: "subject_id", To: EntitySubject, Kind: KindParent, OnDelete: PolicyCascade},
	{From: EntitySession, Field: "group_coordinator_id", To: EntityGroupCoordinator, Kind: KindAssignment, OnDelete: PolicyNullify, Optional: true},
	{From: EntitySession, Field: "teacher_coordinator_id", To: EntityTeacherCoordinator, Kind: KindAssignment, OnDelete: PolicyNullify, Optional: true},
	{From: EntitySession, Field: "teacher_field_id", To: EntityTeacherField, Kind: KindAssignment, OnDelete: PolicyNullify, Optional: true},
}

// Edges returns a copy of the full edge table.
func Edges() []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// EdgesFrom returns every edge originating at the given entity type.
func EdgesFrom(entity EntityType) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.From == entity {
			out = append(out, e)
		}
	}
	return out
}

// EdgesTo returns every edge pointing at the given entity type.
func EdgesTo(entity EntityType) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.To == entity {
			out = append(out, e)
		}
	}
	return out
}

// GuardedBy reports whether any inbound edge refuses deletion of the entity
// type while references exist.
func GuardedBy(entity EntityType) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.To == entity && e.OnDelete == PolicyGuard {
			out = append(out, e)
		}
	}
	return out
}
