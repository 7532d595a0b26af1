package core

import (
	"context"
	"fmt"

	"schedcore/pkg/domain"
)

// NewTenantIsolationRule returns the rule enforcing the two structural
// invariants of the entity graph: every reference resolves, and every
// reference stays inside the record's tenant. It walks the static edge table,
// so it covers new entity types without modification.
func NewTenantIsolationRule() domain.Rule {
	return tenantIsolationRule{}
}

type tenantIsolationRule struct{}

func (tenantIsolationRule) Name() string { return "tenant_isolation" }

func (tenantIsolationRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, edge := range domain.Edges() {
		for _, rec := range listRecords(view, edge.From) {
			ref := refValue(rec.raw, edge.Field)
			if ref == "" {
				if !edge.Optional {
					res.Violations = append(res.Violations, tenantViolation(CodeReferenceNotFound, rec, edge,
						fmt.Sprintf("%s %s has no %s reference", edge.From, rec.id, edge.Field)))
				}
				continue
			}
			targetSchool, ok := resolveTarget(view, edge.To, ref)
			if !ok {
				res.Violations = append(res.Violations, tenantViolation(CodeReferenceNotFound, rec, edge,
					fmt.Sprintf("%s %s references missing %s %s", edge.From, rec.id, edge.To, ref)))
				continue
			}
			if targetSchool != rec.school {
				res.Violations = append(res.Violations, tenantViolation(CodeTenantMismatch, rec, edge,
					fmt.Sprintf("%s %s references %s %s in school %s, not %s", edge.From, rec.id, edge.To, ref, targetSchool, rec.school)))
			}
		}
	}
	return res, nil
}

func tenantViolation(code string, rec record, edge domain.Edge, message string) domain.Violation {
	return domain.Violation{
		Rule:     "tenant_isolation",
		Code:     code,
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   edge.From,
		EntityID: rec.id,
	}
}
