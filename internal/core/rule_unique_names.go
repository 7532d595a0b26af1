package core

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"

	"schedcore/pkg/domain"
)

// NewUniqueNamesRule returns the duplicate-name guard. School names are
// unique store-wide; field, schedule, and level names per school; group and
// subject names per level. Comparison uses Unicode case folding, so
// "School A" and "school a" collide.
func NewUniqueNamesRule() domain.Rule {
	return uniqueNamesRule{}
}

type uniqueNamesRule struct{}

func (uniqueNamesRule) Name() string { return "unique_names" }

// foldName normalizes a name for case-insensitive comparison.
func foldName(name string) string {
	return cases.Fold().String(name)
}

func (uniqueNamesRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	type named struct {
		base  Base
		scope string
		name  string
	}
	flag := func(entity EntityType, records []named) {
		foldKey := func(rec named) string { return rec.scope + "\x00" + foldName(rec.name) }
		earliest := map[string]named{}
		for _, rec := range records {
			key := foldKey(rec)
			prev, ok := earliest[key]
			if !ok || precedes(rec.base, prev.base) {
				earliest[key] = rec
			}
		}
		for _, rec := range records {
			holder := earliest[foldKey(rec)]
			if holder.base.ID == rec.base.ID {
				continue
			}
			res.Violations = append(res.Violations, *chainViolation("unique_names", CodeDuplicateName, entity, rec.base.ID,
				fmt.Sprintf("name %q already used by %s %s", rec.name, entity, holder.base.ID)))
		}
	}

	var schools []named
	for _, s := range view.ListSchools() {
		schools = append(schools, named{base: s.Base, name: s.Name})
	}
	flag(EntitySchool, schools)

	var fields []named
	for _, f := range view.ListFields() {
		fields = append(fields, named{base: f.Base, scope: f.SchoolID, name: f.Name})
	}
	flag(EntityField, fields)

	var schedules []named
	for _, s := range view.ListSchedules() {
		schedules = append(schedules, named{base: s.Base, scope: s.SchoolID, name: s.Name})
	}
	flag(EntitySchedule, schedules)

	var levels []named
	for _, l := range view.ListLevels() {
		levels = append(levels, named{base: l.Base, scope: l.SchoolID, name: l.Name})
	}
	flag(EntityLevel, levels)

	var groups []named
	for _, g := range view.ListGroups() {
		groups = append(groups, named{base: g.Base, scope: g.LevelID, name: g.Name})
	}
	flag(EntityGroup, groups)

	var subjects []named
	for _, s := range view.ListSubjects() {
		subjects = append(subjects, named{base: s.Base, scope: s.LevelID, name: s.Name})
	}
	flag(EntitySubject, subjects)

	return res, nil
}
