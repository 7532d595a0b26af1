package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports that an entity id did not resolve within its tenant.
// Callers translate it into a 404-equivalent; it is never retried.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// TenantMismatchError reports a reference that resolved to a different tenant.
type TenantMismatchError struct {
	Entity EntityType
	ID     string
	Want   string
	Got    string
}

func (e TenantMismatchError) Error() string {
	return fmt.Sprintf("%s %q belongs to school %q, not %q", e.Entity, e.ID, e.Got, e.Want)
}

// DuplicateKind distinguishes the two uniqueness guard outcomes.
type DuplicateKind string

// Duplicate kinds reported by the uniqueness guard.
const (
	DuplicateName       DuplicateKind = "duplicate_name"
	DuplicateAssignment DuplicateKind = "duplicate_assignment"
)

// DuplicateError reports a uniqueness guard refusal. Existing carries the
// record that already holds the natural key.
type DuplicateError struct {
	Kind     DuplicateKind
	Entity   EntityType
	Existing any
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s already exists", e.Kind, e.Entity)
}

// BlockedDeleteError reports a guarded delete that was refused because
// dependents still reference the record. Nothing is touched.
type BlockedDeleteError struct {
	Entity     EntityType
	ID         string
	Dependents []string
}

func (e BlockedDeleteError) Error() string {
	return fmt.Sprintf("%s %q still referenced by %d dependent record(s)", e.Entity, e.ID, len(e.Dependents))
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	if v, ok := e.Result.First(SeverityBlock); ok {
		return fmt.Sprintf("transaction blocked by rules: %s", v.Code)
	}
	return "transaction blocked by rules"
}

// PartialCascadeError reports a cascade walk that failed after some steps
// already committed. It is surfaced distinctly from a clean failure so
// operators can reconcile the partially-applied work; the cascade is
// idempotent, so re-invoking it with the same root converges.
type PartialCascadeError struct {
	Step string
	Err  error
}

func (e PartialCascadeError) Error() string {
	return fmt.Sprintf("cascade partially applied, failed at %s: %v", e.Step, e.Err)
}

func (e PartialCascadeError) Unwrap() error { return e.Err }

// FormatViolations renders a result's violations one per line for logs and
// CLI output.
func FormatViolations(res Result) string {
	if len(res.Violations) == 0 {
		return "no violations"
	}
	lines := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		lines = append(lines, fmt.Sprintf("[%s] %s %s %s: %s", v.Severity, v.Rule, v.Code, v.EntityID, v.Message))
	}
	return strings.Join(lines, "\n")
}
