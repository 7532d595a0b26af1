package core

import (
	"context"
	"fmt"
	"sort"

	"schedcore/pkg/domain"
)

// CascadeResult describes everything a CascadeDelete invocation did. Callers
// and tests observe cascade effects through this value instead of inspecting
// store state.
type CascadeResult struct {
	Root      EntityType              `json:"root"`
	RootID    string                  `json:"root_id"`
	Deleted   map[EntityType][]string `json:"deleted"`
	Nullified map[EntityType][]string `json:"nullified"`
	Blocked   bool                    `json:"blocked"`
	NotFound  bool                    `json:"not_found"`
}

// DeletedCount returns the total number of records removed.
func (r CascadeResult) DeletedCount() int {
	n := 0
	for _, ids := range r.Deleted {
		n += len(ids)
	}
	return n
}

// deleteOrder lists entity types children-first so every batch commit leaves
// the store free of dangling required references.
var deleteOrder = []EntityType{
	EntitySession,
	EntityGroupCoordinator,
	EntityTeacherCoordinator,
	EntityTeacherField,
	EntitySubject,
	EntityGroup,
	EntityLevel,
	EntityTeacher,
	EntitySchedule,
	EntityField,
	EntityPerson,
	EntitySchool,
}

// sessionPatch names the nullable session references to clear because their
// targets are being deleted.
type sessionPatch struct {
	id     string
	fields map[string]bool
}

type cascadePlan struct {
	root     EntityType
	rootID   string
	deleted  map[EntityType]map[string]struct{}
	nullify  []sessionPatch
	blocked  *domain.BlockedDeleteError
	notFound bool
}

func (p *cascadePlan) add(entity EntityType, id string) bool {
	set, ok := p.deleted[entity]
	if !ok {
		set = map[string]struct{}{}
		p.deleted[entity] = set
	}
	if _, dup := set[id]; dup {
		return false
	}
	set[id] = struct{}{}
	return true
}

func (p *cascadePlan) contains(entity EntityType, id string) bool {
	_, ok := p.deleted[entity][id]
	return ok
}

// planCascade computes the transitive closure of cascade edges from the root
// plus the nullify patches for surviving sessions. It only reads; execution
// happens afterwards against the live store. A root that does not exist, or
// that belongs to a different school than the caller claims, plans as not
// found: tenants never learn whether a foreign id exists.
func planCascade(view domain.TransactionView, root EntityType, rootID, schoolID string) *cascadePlan {
	plan := &cascadePlan{root: root, rootID: rootID, deleted: map[EntityType]map[string]struct{}{}}
	school, ok := resolveTarget(view, root, rootID)
	if !ok || school != schoolID {
		plan.notFound = true
		return plan
	}

	type node struct {
		entity EntityType
		id     string
	}
	queue := []node{{root, rootID}}
	plan.add(root, rootID)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edge := range domain.EdgesTo(cur.entity) {
			if edge.OnDelete != domain.PolicyCascade {
				continue
			}
			for _, rec := range listRecords(view, edge.From) {
				if refValue(rec.raw, edge.Field) != cur.id {
					continue
				}
				if plan.add(edge.From, rec.id) {
					queue = append(queue, node{edge.From, rec.id})
				}
			}
		}
	}

	// A guarded inbound reference from outside the delete set refuses the
	// whole operation.
	for entity, ids := range plan.deleted {
		for id := range ids {
			for _, edge := range domain.GuardedBy(entity) {
				var deps []string
				for _, rec := range listRecords(view, edge.From) {
					if refValue(rec.raw, edge.Field) == id && !plan.contains(edge.From, rec.id) {
						deps = append(deps, fmt.Sprintf("%s:%s", edge.From, rec.id))
					}
				}
				if len(deps) > 0 {
					sort.Strings(deps)
					plan.blocked = &domain.BlockedDeleteError{Entity: entity, ID: id, Dependents: deps}
					return plan
				}
			}
		}
	}

	// Surviving sessions pointing at a deleted assignment target get the
	// reference cleared instead of being deleted themselves.
	patches := map[string]*sessionPatch{}
	for _, edge := range domain.Edges() {
		if edge.OnDelete != domain.PolicyNullify {
			continue
		}
		for _, rec := range listRecords(view, edge.From) {
			if plan.contains(edge.From, rec.id) {
				continue
			}
			target := refValue(rec.raw, edge.Field)
			if target == "" || !plan.contains(edge.To, target) {
				continue
			}
			patch, ok := patches[rec.id]
			if !ok {
				patch = &sessionPatch{id: rec.id, fields: map[string]bool{}}
				patches[rec.id] = patch
			}
			patch.fields[edge.Field] = true
		}
	}
	ids := make([]string, 0, len(patches))
	for id := range patches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		plan.nullify = append(plan.nullify, *patches[id])
	}
	return plan
}

// CascadeDelete removes the root record and everything the edge table says
// must go with it, nullifying surviving assignment references first. Each
// entity-type batch commits in its own transaction; a failure part-way
// through is reported as a partial cascade so the caller can retry with the
// same root (every step is idempotent). The root must belong to schoolID;
// a foreign or missing root reports NotFound without touching anything.
func CascadeDelete(ctx context.Context, store domain.PersistentStore, root EntityType, rootID, schoolID string) (CascadeResult, error) {
	result := CascadeResult{
		Root:      root,
		RootID:    rootID,
		Deleted:   map[EntityType][]string{},
		Nullified: map[EntityType][]string{},
	}

	var plan *cascadePlan
	if err := store.View(ctx, func(view domain.TransactionView) error {
		plan = planCascade(view, root, rootID, schoolID)
		return nil
	}); err != nil {
		return result, err
	}
	if plan.notFound {
		result.NotFound = true
		return result, nil
	}
	if plan.blocked != nil {
		result.Blocked = true
		return result, *plan.blocked
	}

	progressed := false
	fail := func(step string, err error) (CascadeResult, error) {
		if progressed {
			return result, domain.PartialCascadeError{Step: step, Err: err}
		}
		return result, err
	}

	if len(plan.nullify) > 0 {
		var patched []string
		if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			patched = patched[:0]
			for _, patch := range plan.nullify {
				if _, ok := tx.Snapshot().FindSession(patch.id); !ok {
					continue
				}
				if _, err := tx.UpdateSession(patch.id, func(s *Session) error {
					if patch.fields["group_coordinator_id"] {
						s.GroupCoordinatorID = nil
					}
					if patch.fields["teacher_coordinator_id"] {
						s.TeacherCoordinatorID = nil
					}
					if patch.fields["teacher_field_id"] {
						s.TeacherFieldID = nil
					}
					return nil
				}); err != nil {
					return err
				}
				patched = append(patched, patch.id)
			}
			return nil
		}); err != nil {
			return fail("nullify "+string(EntitySession), err)
		}
		if len(patched) > 0 {
			result.Nullified[EntitySession] = patched
			progressed = true
		}
	}

	for _, entity := range deleteOrder {
		set := plan.deleted[entity]
		if len(set) == 0 {
			continue
		}
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		var removed []string
		if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			removed = removed[:0]
			for _, id := range ids {
				if err := deleteByType(tx, entity, id); err != nil {
					if domain.IsNotFound(err) {
						continue
					}
					return err
				}
				removed = append(removed, id)
			}
			return nil
		}); err != nil {
			return fail("delete "+string(entity), err)
		}
		if len(removed) > 0 {
			result.Deleted[entity] = removed
			progressed = true
		}
	}
	return result, nil
}

func deleteByType(tx domain.Transaction, entity EntityType, id string) error {
	switch entity {
	case EntitySchool:
		return tx.DeleteSchool(id)
	case EntityPerson:
		return tx.DeletePerson(id)
	case EntityTeacher:
		return tx.DeleteTeacher(id)
	case EntityField:
		return tx.DeleteField(id)
	case EntityTeacherField:
		return tx.DeleteTeacherField(id)
	case EntityTeacherCoordinator:
		return tx.DeleteTeacherCoordinator(id)
	case EntitySchedule:
		return tx.DeleteSchedule(id)
	case EntityLevel:
		return tx.DeleteLevel(id)
	case EntityGroup:
		return tx.DeleteGroup(id)
	case EntityGroupCoordinator:
		return tx.DeleteGroupCoordinator(id)
	case EntitySubject:
		return tx.DeleteSubject(id)
	case EntitySession:
		return tx.DeleteSession(id)
	}
	return fmt.Errorf("unknown entity type %q", entity)
}
