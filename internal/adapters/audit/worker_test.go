package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"schedcore/internal/adapters/audit"
	"schedcore/internal/blob"
	"schedcore/internal/core"
	"schedcore/pkg/domain"
)

func waitForReport(t *testing.T, w *audit.Worker, id string, want audit.ReportStatus) audit.Report {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		report, ok := w.GetReport(id)
		if ok && report.Status == want {
			return report
		}
		time.Sleep(5 * time.Millisecond)
	}
	report, _ := w.GetReport(id)
	t.Fatalf("report %s never reached %s, last state %+v", id, want, report)
	return audit.Report{}
}

func TestWorkerWritesCascadeReport(t *testing.T) {
	store := blob.NewMemory()
	worker := audit.NewWorker(store, nil)
	worker.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := worker.Stop(ctx); err != nil {
			t.Fatalf("stop: %v", err)
		}
	}()

	result := core.CascadeResult{
		Root:    domain.EntityLevel,
		RootID:  "lvl-1",
		Deleted: map[domain.EntityType][]string{domain.EntityLevel: {"lvl-1"}},
	}
	queued, err := worker.EnqueueCascadeReport(context.Background(), result)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if queued.Status != audit.ReportStatusQueued {
		t.Fatalf("expected queued, got %s", queued.Status)
	}

	report := waitForReport(t, worker, queued.ID, audit.ReportStatusSucceeded)
	if report.BlobKey == "" || report.CompletedAt == nil {
		t.Fatalf("incomplete report: %+v", report)
	}

	info, rc, err := store.Get(context.Background(), report.BlobKey)
	if err != nil {
		t.Fatalf("get blob: %v", err)
	}
	payload, _ := io.ReadAll(rc)
	_ = rc.Close()
	var stored core.CascadeResult
	if err := json.Unmarshal(payload, &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored.RootID != "lvl-1" || stored.DeletedCount() != 1 {
		t.Fatalf("unexpected stored result: %+v", stored)
	}
	if info.ContentType != "application/json" || info.Metadata["entity_id"] != "lvl-1" {
		t.Fatalf("unexpected blob info: %+v", info)
	}
}

// brokenBlob refuses every write.
type brokenBlob struct{ blob.Store }

func (brokenBlob) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errors.New("disk full")
}

func TestWorkerMarksFailedWrites(t *testing.T) {
	worker := audit.NewWorker(brokenBlob{Store: blob.NewMemory()}, nil)
	worker.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = worker.Stop(ctx)
	}()

	queued, err := worker.EnqueueCascadeReport(context.Background(), core.CascadeResult{Root: domain.EntitySchool, RootID: "s1"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	report := waitForReport(t, worker, queued.ID, audit.ReportStatusFailed)
	if report.Error == "" || report.CompletedAt == nil {
		t.Fatalf("expected failure details, got %+v", report)
	}
}

func TestLedgerRecordsEntries(t *testing.T) {
	ledger := audit.NewLedger(nil)
	ctx := context.Background()
	ledger.Record(ctx, core.AuditEntry{Operation: "create_school", Entity: domain.EntitySchool, EntityID: "s1", Status: core.AuditStatusSuccess})
	ledger.Record(ctx, core.AuditEntry{Operation: "create_school", Entity: domain.EntitySchool, Status: core.AuditStatusError, Error: "duplicate"})

	entries := ledger.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].Status != core.AuditStatusSuccess || entries[1].Error != "duplicate" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	// returned slice is a copy
	entries[0].Operation = "tampered"
	if ledger.Entries()[0].Operation != "create_school" {
		t.Fatal("Entries must return a copy")
	}
}
