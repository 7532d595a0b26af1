// Package audit persists cascade reports and audit trails outside the core
// store: reports are serialized to JSON and written to a blob backend by an
// asynchronous worker.
package audit

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"schedcore/internal/blob"
	"schedcore/internal/core"
)

// ReportStatus describes the lifecycle stage of a cascade report.
type ReportStatus string

// Report statuses.
const (
	ReportStatusQueued    ReportStatus = "queued"
	ReportStatusRunning   ReportStatus = "running"
	ReportStatusSucceeded ReportStatus = "succeeded"
	ReportStatusFailed    ReportStatus = "failed"
)

// Report tracks one cascade deletion written to durable storage.
type Report struct {
	ID          string             `json:"id"`
	Result      core.CascadeResult `json:"result"`
	Status      ReportStatus       `json:"status"`
	Error       string             `json:"error,omitempty"`
	BlobKey     string             `json:"blob_key,omitempty"`
	URL         string             `json:"url,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

func (r Report) copy() Report {
	out := r
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Worker serializes cascade reports to the blob store asynchronously.
type Worker struct {
	store  blob.Store
	logger core.Logger

	queue chan string
	mu    sync.RWMutex
	jobs  map[string]*Report

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker constructs a report worker over the given blob store. A nil
// logger discards log output.
func NewWorker(store blob.Store, logger core.Logger) *Worker {
	if logger == nil {
		logger = core.NopLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		store:  store,
		logger: logger,
		queue:  make(chan string, 32),
		jobs:   make(map[string]*Report),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing queued reports.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case id := <-w.queue:
			w.process(id)
		}
	}
}

// EnqueueCascadeReport schedules a report write and returns the queued
// record.
func (w *Worker) EnqueueCascadeReport(_ context.Context, result core.CascadeResult) (Report, error) {
	id := newID()
	now := time.Now().UTC()
	report := Report{
		ID:        id,
		Result:    result,
		Status:    ReportStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	w.mu.Lock()
	w.jobs[id] = &report
	queued := report.copy()
	w.mu.Unlock()

	select {
	case w.queue <- id:
	default:
		return Report{}, fmt.Errorf("report queue full")
	}
	return queued, nil
}

// GetReport returns a snapshot of the report record.
func (w *Worker) GetReport(id string) (Report, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	report, ok := w.jobs[id]
	if !ok {
		return Report{}, false
	}
	return report.copy(), true
}

func (w *Worker) process(id string) {
	w.mu.Lock()
	report, ok := w.jobs[id]
	if !ok {
		w.mu.Unlock()
		return
	}
	report.Status = ReportStatusRunning
	report.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(report.Result)
	result := report.Result
	w.mu.Unlock()
	if err != nil {
		w.fail(id, err)
		return
	}

	key := fmt.Sprintf("cascade-reports/%s.json", id)
	info, err := w.store.Put(w.ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"entity":    string(result.Root),
			"entity_id": result.RootID,
		},
	})
	if err != nil {
		w.fail(id, err)
		return
	}

	now := time.Now().UTC()
	w.mu.Lock()
	report.Status = ReportStatusSucceeded
	report.BlobKey = info.Key
	report.URL = info.URL
	report.UpdatedAt = now
	report.CompletedAt = &now
	w.mu.Unlock()
	w.logger.Debug("cascade report stored", "id", id, "key", info.Key)
}

func (w *Worker) fail(id string, err error) {
	now := time.Now().UTC()
	w.mu.Lock()
	if report, ok := w.jobs[id]; ok {
		report.Status = ReportStatusFailed
		report.Error = err.Error()
		report.UpdatedAt = now
		report.CompletedAt = &now
	}
	w.mu.Unlock()
	w.logger.Error("cascade report failed", "id", id, "error", err)
}

func newID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("report-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
