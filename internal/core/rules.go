package core

import "schedcore/pkg/domain"

// NewDefaultRulesEngine wires the full integrity rule set evaluated at
// commit time by every store transaction.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewTenantIsolationRule())
	engine.Register(NewTeacherFieldRule())
	engine.Register(NewCoordinatorAssignmentRule())
	engine.Register(NewSessionChainRule())
	engine.Register(NewUniqueNamesRule())
	return engine
}
