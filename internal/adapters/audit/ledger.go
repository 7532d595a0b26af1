package audit

import (
	"context"
	"sync"

	"schedcore/internal/core"
)

// Ledger is an in-memory audit recorder that retains every entry and
// optionally mirrors it to a logger. It satisfies core.AuditRecorder.
type Ledger struct {
	mu      sync.RWMutex
	entries []core.AuditEntry
	logger  core.Logger
}

// NewLedger constructs a ledger. A nil logger disables mirroring.
func NewLedger(logger core.Logger) *Ledger {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Ledger{logger: logger}
}

// Record appends an audit entry.
func (l *Ledger) Record(_ context.Context, entry core.AuditEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	if entry.Status == core.AuditStatusError {
		l.logger.Warn("audit", "operation", entry.Operation, "entity", entry.Entity, "entity_id", entry.EntityID, "error", entry.Error)
		return
	}
	l.logger.Debug("audit", "operation", entry.Operation, "entity", entry.Entity, "entity_id", entry.EntityID)
}

// Entries returns a copy of all recorded entries.
func (l *Ledger) Entries() []core.AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]core.AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Compile-time assertion.
var _ core.AuditRecorder = (*Ledger)(nil)
